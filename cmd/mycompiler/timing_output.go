package main

import (
	"fmt"
	"io"
	"time"

	"mycompiler/internal/buildpipeline"
	"mycompiler/internal/driver"
)

// printStageTimings prints one line per recorded stage, then the driver's
// phase breakdown when it was collected.
func printStageTimings(out io.Writer, timings buildpipeline.Timings, res *driver.Result) error {
	for _, stage := range timings.Stages() {
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", stage.Verb(), toMillis(timings.Duration(stage))); err != nil {
			return err
		}
	}
	if res != nil && len(res.TimingReport.Phases) > 0 {
		return res.TimingReport.Write(out)
	}
	return nil
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
