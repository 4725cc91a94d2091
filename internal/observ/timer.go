package observ

import (
	"fmt"
	"io"
	"slices"
	"time"
)

// Phase is one timed step of building a file.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records phases in the order they begin. A nil *Timer accepts
// Begin/End and records nothing, so callers need no checks when timings
// are off.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin opens a phase and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase; unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	t.phases[idx].Dur = time.Since(t.phases[idx].Start)
	t.phases[idx].Note = note
}

// PhaseReport — фаза в сериализуемом виде (JSON-заметка с таймингами)
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is a finished Timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

// Phase returns the first phase named name.
func (r Report) Phase(name string) (PhaseReport, bool) {
	i := slices.IndexFunc(r.Phases, func(p PhaseReport) bool { return p.Name == name })
	if i < 0 {
		return PhaseReport{}, false
	}
	return r.Phases[i], true
}

// WriteText prints one line per phase and a total line.
func (r Report) WriteText(w io.Writer) error {
	for _, p := range r.Phases {
		line := fmt.Sprintf("%-10s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  " + p.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%-10s %8.2f ms\n", "total", r.TotalMS)
	return err
}

func (p PhaseReport) Duration() time.Duration {
	return time.Duration(p.DurationMS * float64(time.Millisecond))
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
