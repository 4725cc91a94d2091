package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"scopetree/internal/buildpipeline"
	"scopetree/internal/config"
)

// newTestCommand mirrors the flag layout of a tree-building subcommand.
func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "root"}
	root.PersistentFlags().Int("max-diagnostics", 100, "")
	root.PersistentFlags().Bool("timings", false, "")
	cmd := &cobra.Command{Use: "sub"}
	buildFlags(cmd)
	cmd.Flags().Int("jobs", 0, "")
	root.AddCommand(cmd)
	return cmd
}

func withSettings(t *testing.T, text string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	prev := settings
	settings = m
	t.Cleanup(func() { settings = prev })
}

func TestBuildOptionsMergesSettings(t *testing.T) {
	withSettings(t, `
[build]
defines = ["DEBUG", "TRACE"]
delay_bodies = true
verify = true
jobs = 3
`)
	cmd := newTestCommand(t)
	opts, err := buildOptions(cmd)
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	if !opts.Parse.DelayBodies || !opts.Verify || opts.IncludeInactive {
		t.Fatalf("settings not applied: %+v", opts)
	}
	if !opts.Parse.Defines["DEBUG"] || !opts.Parse.Defines["TRACE"] {
		t.Fatalf("defines %v", opts.Parse.Defines)
	}
	if jobs, err := jobsFlag(cmd); err != nil || jobs != 3 {
		t.Fatalf("jobs = %d, %v", jobs, err)
	}

	// флаги командной строки важнее файла
	for name, value := range map[string]string{"verify": "false", "define": "RELEASE", "jobs": "8"} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	opts, err = buildOptions(cmd)
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	if opts.Verify || !opts.Parse.DelayBodies {
		t.Fatalf("flag override lost: %+v", opts)
	}
	if len(opts.Parse.Defines) != 1 || !opts.Parse.Defines["RELEASE"] {
		t.Fatalf("defines %v", opts.Parse.Defines)
	}
	if jobs, _ := jobsFlag(cmd); jobs != 8 {
		t.Fatalf("jobs = %d", jobs)
	}
}

func TestBuildOptionsWithoutSettings(t *testing.T) {
	prev := settings
	settings = nil
	t.Cleanup(func() { settings = prev })

	cmd := newTestCommand(t)
	if err := cmd.Root().PersistentFlags().Set("max-diagnostics", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}
	opts, err := buildOptions(cmd)
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	if opts.Parse.MaxDiagnostics != 7 || opts.Parse.Defines != nil || opts.Verify {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestUIModeFlag(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		var got uiMode
		if err := got.Set(in); err != nil || got != want {
			t.Fatalf("Set(%q) = %q, %v", in, got, err)
		}
	}

	fs := pflag.NewFlagSet("index", pflag.ContinueOnError)
	mode := uiModeAuto
	fs.Var(&mode, "ui", "")
	if err := fs.Parse([]string{"--ui=sometimes"}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if err := fs.Parse([]string{"--ui", "off"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := uiModeFlag(fs); got != uiModeOff {
		t.Fatalf("uiModeFlag = %q", got)
	}
	if !uiModeOn.useTUI() || uiModeOff.useTUI() {
		t.Fatalf("explicit modes must win")
	}
}

func TestRenderQueryPrettyMarksShadowedNames(t *testing.T) {
	p := queryPayload{
		File:     "a.swift",
		Position: "3:5",
		Offset:   40,
		Chain: []queryScope{
			{ID: 4, Kind: "BraceStmt", Range: "[3:3 - 4:1]"},
			{ID: 0, Kind: "SourceFile", Range: "[1:1 - 5:1]", What: "a.swift"},
		},
		Names: []queryName{
			{Name: "x", Scope: 4, At: "[3:9 - 3:10]"},
			{Name: "x", Scope: 0, At: "[1:5 - 1:6]"},
			{Name: "self", Scope: 0},
		},
	}
	var buf bytes.Buffer
	renderQueryPretty(&buf, p)
	out := buf.String()
	for _, want := range []string{
		"a.swift:3:5 (offset 40)",
		"BraceStmt #4 [3:3 - 4:1]",
		"SourceFile #0 [1:1 - 5:1] a.swift",
		"x from #4 at [3:9 - 3:10]\n",
		"x from #0 at [1:5 - 1:6] (shadowed)",
		"self from #0\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPrintStageTimings(t *testing.T) {
	var tm buildpipeline.Timings
	tm.Set(buildpipeline.StageParse, 2_000_000)
	tm.Set(buildpipeline.StageExpand, 500_000)
	var buf bytes.Buffer
	printStageTimings(&buf, tm)
	want := "parsed 2.0 ms\nexpanded 0.5 ms\ntotal 2.5 ms\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3", Schema: 4, BuildDate: "2026-01-02"}
	if err := renderVersionJSON(&buf, info, versionOptions{format: "json", details: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "scopetree" || payload.Version != "1.2.3" || payload.Schema != 4 ||
		payload.GitCommit != "unknown" || payload.BuildDate != "2026-01-02" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestRenderVersionPrettyShort(t *testing.T) {
	var buf bytes.Buffer
	renderVersionPretty(&buf, versionInfo{Version: "1.2.3", Schema: 1}, versionOptions{format: "pretty"})
	out := buf.String()
	if !strings.Contains(out, "snapshot schema 1") || strings.Contains(out, "commit:") {
		t.Fatalf("unexpected output %q", out)
	}
}
