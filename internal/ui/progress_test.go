package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"scopetree/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m, ok := NewProgressModel("index", []string{"a.swift", "b.swift"}, events).(*progressModel)
	if !ok {
		t.Fatalf("unexpected model type")
	}

	m.Update(eventMsg(buildpipeline.Event{File: "a.swift", Stage: buildpipeline.StageExpand, Status: buildpipeline.StatusWorking}))
	m.Update(eventMsg(buildpipeline.Event{File: "b.swift", Stage: buildpipeline.StageVerify, Status: buildpipeline.StatusError}))
	m.Update(eventMsg(buildpipeline.Event{Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking}))
	m.Update(eventMsg(buildpipeline.Event{File: "unknown.swift", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone}))

	if got := m.items[0].status; got != "expanding" {
		t.Fatalf("a.swift status %q", got)
	}
	if got := m.items[1].status; got != "error" {
		t.Fatalf("b.swift status %q", got)
	}
	if got, want := m.percent(), (0.5+1.0)/2; got != want {
		t.Fatalf("percent %v, want %v", got, want)
	}

	view := m.View()
	for _, want := range []string{"index (parsing)", "expanding", "a.swift", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}

	m.Update(doneMsg{})
	if !strings.Contains(m.View(), "done: index") {
		t.Fatalf("finished view:\n%s", m.View())
	}
}

func TestProgressModelCancelKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		m := NewProgressModel("index", []string{"a.swift"}, nil)
		next, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%q: expected quit command", key.String())
		}
		if !Cancelled(next) {
			t.Fatalf("%q: model not marked cancelled", key.String())
		}
	}
	m := NewProgressModel("index", nil, nil)
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil || Cancelled(m) {
		t.Fatalf("unrelated key must be ignored")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.swift", 20, "short.swift"},
		{"very/long/path/file.swift", 10, "very..."},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
