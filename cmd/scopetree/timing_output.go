package main

import (
	"fmt"
	"io"
	"time"

	"scopetree/internal/buildpipeline"
)

var stageLabels = map[buildpipeline.Stage]string{
	buildpipeline.StageParse:    "parsed",
	buildpipeline.StageBuild:    "built",
	buildpipeline.StageExpand:   "expanded",
	buildpipeline.StageVerify:   "verified",
	buildpipeline.StageSnapshot: "saved",
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", stageLabels[stage], toMillis(timings.Duration(stage))); err != nil {
			panic(err)
		}
	}
	if total := timings.Total(); total > 0 {
		if _, err := fmt.Fprintf(out, "total %.1f ms\n", toMillis(total)); err != nil {
			panic(err)
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
