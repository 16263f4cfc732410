package main

import (
	"fmt"
	"io"
	"strings"
)

// uiMode is the --ui flag: auto shows the progress view only on a terminal.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func shouldUseTUI(mode uiMode, w io.Writer) bool {
	if mode == uiModeAuto {
		return isTerminal(w)
	}
	return mode == uiModeOn
}
