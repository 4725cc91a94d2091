package driver

import (
	"errors"
	"time"
)

// ErrHasErrors marks a PhaseFile event of a file with error diagnostics.
var ErrHasErrors = errors.New("file has errors")

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported to observers and timers.
const (
	PhaseLoad     = "load_file"
	PhaseParse    = "parse"
	PhaseBuild    = "build"
	PhaseExpand   = "expand"
	PhaseVerify   = "verify"
	PhaseSnapshot = "snapshot"
	PhaseGrow     = "grow"
	// PhaseFile ends once per file, after its last phase. Err is
	// ErrHasErrors when the file produced error diagnostics.
	PhaseFile = "file"
)

// PhaseEvent describes a timing phase boundary of one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	// Err is set on PhaseEnd when the phase failed.
	Err error
}

// PhaseObserver receives phase events. BuildDir calls it from several
// goroutines.
type PhaseObserver func(PhaseEvent)
