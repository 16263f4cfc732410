package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"mycompiler/internal/buildpipeline"
	"mycompiler/internal/ui"
)

// withProgressUI runs job on a goroutine while the progress model renders
// its events to out. job must send events to the sink it is given.
func withProgressUI(ctx context.Context, out io.Writer, title, file string, be buildpipeline.Backend, job func(buildpipeline.ProgressSink) error) error {
	events := make(chan buildpipeline.Event, 256)
	done := make(chan error, 1)

	go func() {
		err := job(buildpipeline.ChannelSink{Ch: events})
		close(events)
		done <- err
	}()

	model := ui.NewProgressModel(title, file, ui.Stages(be), events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// drain so the job can finish
		go func() {
			for range events {
			}
		}()
	}
	jobErr := <-done
	if jobErr != nil {
		return jobErr
	}
	return uiErr
}

func runCompile(ctx context.Context, useUI bool, out io.Writer, title string, req *buildpipeline.CompileRequest) (buildpipeline.CompileResult, error) {
	if !useUI {
		return buildpipeline.Compile(ctx, req)
	}
	var res buildpipeline.CompileResult
	err := withProgressUI(ctx, out, title, req.TargetPath, req.Backend, func(sink buildpipeline.ProgressSink) error {
		reqCopy := *req
		reqCopy.Progress = sink
		var err error
		res, err = buildpipeline.Compile(ctx, &reqCopy)
		return err
	})
	return res, err
}

func runBuild(ctx context.Context, useUI bool, out io.Writer, title string, req *buildpipeline.BuildRequest) (buildpipeline.BuildResult, error) {
	if !useUI {
		return buildpipeline.Build(ctx, req)
	}
	var res buildpipeline.BuildResult
	err := withProgressUI(ctx, out, title, req.TargetPath, buildpipeline.BackendGo, func(sink buildpipeline.ProgressSink) error {
		reqCopy := *req
		reqCopy.Progress = sink
		var err error
		res, err = buildpipeline.Build(ctx, &reqCopy)
		return err
	})
	return res, err
}
