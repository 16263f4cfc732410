package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mycompiler/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "json":
		return writeVersionJSON(cmd.OutOrStdout())
	case "pretty":
		restore := color.NoColor
		color.NoColor = !s.useColor(cmd.OutOrStdout())
		defer func() { color.NoColor = restore }()
		_, err := io.WriteString(cmd.OutOrStdout(), version.Banner())
		return err
	}
	return fmt.Errorf("unknown format: %s", format)
}

func writeVersionJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{
		Tool:      "mycompiler",
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildDate: version.BuildDate,
		GoVersion: runtime.Version(),
	})
}
