package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // spans are dropped; only heartbeats get through
	LevelPhase               // file runs and pipeline phases
	LevelDetail              // plus per-file bookkeeping (cache hits)
	LevelDebug               // plus every scope expansion
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a level name, in any case, to a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass the level filter.
// The deepest scope a level admits is its own index: phase lets driver and
// pass events through, debug lets everything through.
func (l Level) ShouldEmit(scope Scope) bool {
	if l <= LevelError {
		return false
	}
	return uint8(scope) <= uint8(l)
}
