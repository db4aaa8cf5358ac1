package main

import (
	"fmt"
	"io"
	"time"

	"ridl/internal/pipeline"
)

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	if timings.Has(pipeline.StageResolve) {
		fmt.Fprintf(out, "resolved %.1f ms\n", toMillis(timings.Duration(pipeline.StageResolve)))
	}
	if timings.Has(pipeline.StageTranslate) {
		fmt.Fprintf(out, "translated %.1f ms\n", toMillis(timings.Duration(pipeline.StageTranslate)))
	}
	if timings.Has(pipeline.StageEmit) {
		fmt.Fprintf(out, "emitted %.1f ms\n", toMillis(timings.Duration(pipeline.StageEmit)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
