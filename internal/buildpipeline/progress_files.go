package buildpipeline

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

// emitStage reports a run-wide event followed by one event per file.
func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	ev := Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed}
	sink.OnEvent(ev)
	for _, ev.File = range files {
		sink.OnEvent(ev)
	}
}

// absBase возвращает абсолютный путь корня или "" если его нет
func absBase(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// relUnder returns file relative to base when it lies inside base.
func relUnder(file, base string) (string, bool) {
	abs, err := filepath.Abs(file)
	if err != nil || base == "" {
		return "", false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// displayPath shortens file relative to base when it lies below it.
func displayPath(file, base string) string {
	if rel, ok := relUnder(file, base); ok && rel != "." {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(filepath.Clean(file))
}

func filterFilesUnderRoot(files []string, root string) []string {
	base := absBase(root)
	if base == "" {
		return files
	}
	return slices.DeleteFunc(slices.Clone(files), func(f string) bool {
		if f == "" {
			return true
		}
		_, ok := relUnder(f, base)
		return !ok
	})
}

// normalizeProgressFiles returns sorted unique display paths.
func normalizeProgressFiles(files []string, baseDir string) []string {
	base := absBase(baseDir)
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f != "" {
			out = append(out, displayPath(f, base))
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
