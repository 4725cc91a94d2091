package buildpipeline

import (
	"slices"
	"time"
)

// Stage is one step of building a file's scope tree.
type Stage string

const (
	StageParse    Stage = "parse"    // lexing and parsing
	StageBuild    Stage = "build"    // root scope and registry
	StageExpand   Stage = "expand"   // scopes below the root
	StageVerify   Stage = "verify"   // tree invariants
	StageSnapshot Stage = "snapshot" // serialized tree, cache writes
)

// Stages lists the stages in pipeline order.
var Stages = []Stage{StageParse, StageBuild, StageExpand, StageVerify, StageSnapshot}

type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of one file, or of the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Index calls it from worker
// goroutines concurrently.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings accumulates time per stage. The zero value is empty and ready.
type Timings struct {
	dur [5]time.Duration
	set [5]bool
}

// slot: индекс стадии в Stages, -1 для неизвестной
func slot(stage Stage) int { return slices.Index(Stages, stage) }

// Set replaces the duration recorded for stage.
func (t *Timings) Set(stage Stage, d time.Duration) {
	if i := slot(stage); t != nil && i >= 0 {
		t.dur[i], t.set[i] = d, true
	}
}

// Add accumulates d into stage.
func (t *Timings) Add(stage Stage, d time.Duration) {
	if i := slot(stage); t != nil && i >= 0 {
		t.dur[i] += d
		t.set[i] = true
	}
}

// Has reports whether anything was recorded for stage.
func (t Timings) Has(stage Stage) bool {
	i := slot(stage)
	return i >= 0 && t.set[i]
}

func (t Timings) Duration(stage Stage) time.Duration {
	if i := slot(stage); i >= 0 {
		return t.dur[i]
	}
	return 0
}

// Sum adds up the given stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.Duration(s)
	}
	return total
}

func (t Timings) Total() time.Duration { return t.Sum(Stages...) }
