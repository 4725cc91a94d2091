package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[build]
defines = ["DEBUG", "IOS"]
jobs = 3

[dump]
addresses = true
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("discover: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	if m.Config.Build.Jobs != 3 || !m.Config.Dump.Addresses {
		t.Fatalf("unexpected config: %+v", m.Config)
	}
	set := m.Config.DefineSet()
	if !set["DEBUG"] || !set["IOS"] || len(set) != 2 {
		t.Fatalf("defines = %v", set)
	}
	if !m.Defined("build", "jobs") {
		t.Fatalf("build.jobs must be reported as defined")
	}
	if m.Defined("build", "verify") {
		t.Fatalf("build.verify was not in the file")
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	m, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	// a settings file higher up on the machine would be found too
	if !ok && m != nil {
		t.Fatalf("manifest without a file")
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[build]\nparallel = true\n", "unknown keys: build.parallel"},
		{"negative jobs", "[build]\njobs = -1\n", "jobs must not be negative"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"bad mode", "[trace]\nmode = \"disk\"\n", "[trace].mode"},
		{"bad color", "[dump]\ncolor = \"always\"\n", "[dump].color"},
		{"empty define", "[build]\ndefines = [\"\"]\n", "empty name"},
		{"syntax", "[build\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestNilManifestDefinesNothing(t *testing.T) {
	var m *Manifest
	if m.Defined("build") {
		t.Fatalf("nil manifest defines nothing")
	}
}
