// Package buildpipeline orchestrates the compilation process.
package buildpipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mycompiler/internal/backend"
	"mycompiler/internal/driver"
	"mycompiler/internal/locmap"
)

// BuildRequest configures output generation for a compilation.
type BuildRequest struct {
	CompileRequest
	OutputName string
	OutputRoot string
	Profile    string
	GoBin      string
	KeepTmp    bool
	// Force ignores the build cache.
	Force bool
	// Commands receives the toolchain output as it is printed.
	Commands io.Writer
}

// BuildResult captures build artefacts and timings.
type BuildResult struct {
	OutputPath string
	TmpDir     string
	// GenDir holds the generated Go units and their .locmap files.
	GenDir  string
	Timings Timings
	Driver  *driver.Result
	// Cached is set when the artifact was already up to date.
	Cached bool
}

// Build lowers the program, writes the generated units next to the
// artifact and runs go build unless the cached artifact is current.
//
//	target/<profile>/<name>            executable
//	target/<profile>/gen/*.go          generated units
//	target/<profile>/gen/*.go.locmap   location maps
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy

	if req.OutputName == "" {
		req.OutputName = defaultOutputName(req.TargetPath)
	}
	if req.Profile == "" {
		req.Profile = "debug"
	}

	req.CompileRequest.Backend = BackendGo
	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.Timings = compileRes.Timings
	result.Driver = compileRes.Driver
	if err != nil {
		return result, err
	}

	outputRoot := req.OutputRoot
	if outputRoot == "" {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			cwd = "."
		}
		outputRoot = cwd
	}
	outputDir := filepath.Join(outputRoot, "target", req.Profile)
	result.OutputPath = filepath.Join(outputDir, req.OutputName)
	result.TmpDir = filepath.Join(outputDir, ".tmp", req.OutputName)
	result.GenDir = filepath.Join(outputDir, "gen")

	if err := WriteUnits(result.GenDir, compileRes.Driver.Units); err != nil {
		emitStage(req.Progress, req.Files, StageBuild, StatusError, err, 0)
		return result, err
	}

	cache := OpenBuildCache(filepath.Join(outputDir, ".cache"))
	digest := unitsDigest(req.OutputName, compileRes.Driver.Units)
	if !req.Force && cache.Fresh(req.OutputName, digest, result.OutputPath) {
		result.Cached = true
		emitStage(req.Progress, req.Files, StageBuild, StatusDone, nil, 0)
		return result, nil
	}

	buildStart := time.Now()
	emitStage(req.Progress, req.Files, StageBuild, StatusWorking, nil, 0)
	be := &backend.GoBuild{
		GoBin:   req.GoBin,
		Module:  req.OutputName,
		WorkDir: result.TmpDir,
		Output:  req.Commands,
	}
	err = driver.RunBackend(ctx, compileRes.Driver, be, result.OutputPath)
	result.Timings.Set(StageBuild, time.Since(buildStart))
	if err == nil && compileRes.Driver.Failed() {
		err = ErrDiagnostics
	}
	if err != nil {
		_ = cache.Invalidate(req.OutputName)
		emitStage(req.Progress, req.Files, StageBuild, StatusError, err, 0)
		return result, err
	}
	if err := cache.Record(req.OutputName, digest, result.OutputPath); err != nil {
		return result, fmt.Errorf("failed to record build stamp: %w", err)
	}

	if !req.KeepTmp {
		if err := os.RemoveAll(result.TmpDir); err != nil {
			return result, fmt.Errorf("failed to clean tmp dir: %w", err)
		}
	}

	emitStage(req.Progress, req.Files, StageBuild, StatusDone, nil, result.Timings.Duration(StageBuild))
	return result, nil
}

func defaultOutputName(target string) string {
	base := filepath.Base(target)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "a.out"
	}
	return name
}

// WriteUnits stores every unit in dir and, for lowered ones, its location
// map as <unit>.locmap.
func WriteUnits(dir string, units []driver.GenUnit) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create gen dir: %w", err)
	}
	for _, u := range units {
		path := filepath.Join(dir, u.Name)
		if err := os.WriteFile(path, u.Source, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", u.Name, err)
		}
		if u.Map == nil {
			continue
		}
		if err := u.Map.WriteFile(path + locmap.Ext); err != nil {
			return fmt.Errorf("failed to write location map for %s: %w", u.Name, err)
		}
	}
	return nil
}
