package buildpipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"scopetree/internal/driver"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) forFile(file string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.File == file {
			out = append(out, ev)
		}
	}
	return out
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func TestIndexReportsProgressPerFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.swift":      "func a(x: Int) { if let y = x { use(y) } }\n",
		"lib/b.swift":  "struct B { func m() {} }\n",
		"broken.swift": "func f( {\n",
	})
	sink := &recordingSink{}
	req := &IndexRequest{
		Dir:      dir,
		Options:  driver.BuildOptions{ExpandAll: true, Verify: true, EnableTimings: true},
		Jobs:     2,
		Progress: sink,
	}
	files, err := ListFiles(req)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if want := []string{"a.swift", "broken.swift", "lib/b.swift"}; !slices.Equal(files, want) {
		t.Fatalf("files %v, want %v", files, want)
	}

	res, err := Index(context.Background(), req)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if !slices.Equal(res.Files, files) {
		t.Fatalf("result files %v, want %v", res.Files, files)
	}
	if res.Failed != 1 {
		t.Fatalf("want one failed file, got %d", res.Failed)
	}
	if !res.Timings.Has(StageExpand) || res.Timings.Total() <= 0 {
		t.Fatalf("stage timings missing")
	}

	for _, file := range files {
		evs := sink.forFile(file)
		if len(evs) < 3 {
			t.Fatalf("%s: too few events %v", file, evs)
		}
		if evs[0].Status != StatusQueued {
			t.Fatalf("%s: first event %+v", file, evs[0])
		}
		last := evs[len(evs)-1]
		want := StatusDone
		if file == "broken.swift" {
			want = StatusError
		}
		if last.Status != want {
			t.Fatalf("%s: last event %+v, want %s", file, last, want)
		}
	}
	a := sink.forFile("a.swift")
	var stages []Stage
	for _, ev := range a {
		if ev.Status == StatusWorking {
			stages = append(stages, ev.Stage)
		}
	}
	if want := []Stage{StageParse, StageBuild, StageExpand, StageVerify}; !slices.Equal(stages, want) {
		t.Fatalf("stages %v, want %v", stages, want)
	}
}

func TestIndexRejectsEmptyRequest(t *testing.T) {
	if _, err := Index(context.Background(), nil); err == nil {
		t.Fatalf("nil request must fail")
	}
	if _, err := Index(context.Background(), &IndexRequest{}); err == nil {
		t.Fatalf("request without a directory must fail")
	}
}

func TestNormalizeProgressFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b.swift"),
		filepath.Join(base, "a", "c.swift"),
		filepath.Join(base, "b.swift"),
		"",
	}
	got := normalizeProgressFiles(files, base)
	if want := []string{"a/c.swift", "b.swift"}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	outside := filepath.Join(filepath.Dir(base), "other.swift")
	if got := filterFilesUnderRoot([]string{outside, files[0]}, base); len(got) != 1 || got[0] != files[0] {
		t.Fatalf("filter kept %v", got)
	}
}

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageParse) || tm.Total() != 0 {
		t.Fatalf("zero Timings must be empty")
	}
	tm.Add(StageParse, 2)
	tm.Add(StageParse, 3)
	tm.Set(StageVerify, 4)
	if tm.Duration(StageParse) != 5 || tm.Total() != 9 || tm.Sum(StageVerify) != 4 {
		t.Fatalf("unexpected timings parse=%v total=%v", tm.Duration(StageParse), tm.Total())
	}
}
