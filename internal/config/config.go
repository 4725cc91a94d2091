// Package config loads scopetree.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"scopetree/internal/trace"
)

// FileName is the settings file looked up from the working directory upward.
const FileName = "scopetree.toml"

// Config is the decoded settings file. Zero values are the defaults.
type Config struct {
	Build BuildConfig `toml:"build"`
	Trace TraceConfig `toml:"trace"`
	Dump  DumpConfig  `toml:"dump"`
}

type BuildConfig struct {
	Defines         []string `toml:"defines"`
	IncludeInactive bool     `toml:"include_inactive"`
	DelayBodies     bool     `toml:"delay_bodies"`
	Verify          bool     `toml:"verify"`
	Jobs            int      `toml:"jobs"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

type DumpConfig struct {
	// Addresses prints #id next to every scope in the pretty dump.
	Addresses bool   `toml:"addresses"`
	Color     string `toml:"color"`
}

// Manifest is a loaded settings file with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	meta   toml.MetaData
}

// Defined reports whether the key path, e.g. ("build", "jobs"), was set in
// the file.
func (m *Manifest) Defined(key ...string) bool {
	return m != nil && m.meta.IsDefined(key...)
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest settings file. ok is false when none
// exists, which is not an error.
func Discover(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Load decodes and validates the file at path.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		meta:   meta,
	}, nil
}

func (c *Config) validate() error {
	if c.Build.Jobs < 0 {
		return fmt.Errorf("[build].jobs must not be negative, got %d", c.Build.Jobs)
	}
	for _, d := range c.Build.Defines {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("[build].defines contains an empty name")
		}
	}
	if c.Trace.Level != "" {
		if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
			return fmt.Errorf("[trace].level: %w", err)
		}
	}
	if c.Trace.Mode != "" {
		if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
			return fmt.Errorf("[trace].mode: %w", err)
		}
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	switch strings.ToLower(c.Dump.Color) {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[dump].color must be auto, on or off, got %q", c.Dump.Color)
	}
	return nil
}

// DefineSet returns the defines as the set consumed by the parser.
func (c *Config) DefineSet() map[string]bool {
	if len(c.Build.Defines) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.Build.Defines))
	for _, d := range c.Build.Defines {
		set[strings.TrimSpace(d)] = true
	}
	return set
}
