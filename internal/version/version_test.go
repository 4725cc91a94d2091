package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestString(t *testing.T) {
	prevNoColor := color.NoColor
	color.NoColor = true
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		color.NoColor = prevNoColor
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "scopetree 0.1.0-dev"},
		{"1.2.3", "abc123", "", "scopetree 1.2.3 (abc123)"},
		{"1.2.3-rc.1", "abc123", "2026-01-15", "scopetree 1.2.3-rc.1 (abc123) built 2026-01-15"},
		{"nightly", "", "", "scopetree nightly"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestColoredKeepsText(t *testing.T) {
	prevNoColor := color.NoColor
	color.NoColor = false
	origVersion := Version
	t.Cleanup(func() {
		color.NoColor = prevNoColor
		Version = origVersion
	})

	Version = "2.0.1-beta"
	got := Colored()
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-beta") {
		t.Fatalf("unexpected colored version %q", got)
	}
}
