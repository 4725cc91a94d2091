package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"scopetree/internal/driver"
	"scopetree/internal/source"
)

// IndexRequest configures a parallel scope build over a directory.
type IndexRequest struct {
	Dir string
	// Files overrides the directory walk when set.
	Files    []string
	Options  driver.BuildOptions
	Jobs     int
	Progress ProgressSink
}

// IndexResult captures per-file results and summed stage timings.
type IndexResult struct {
	FileSet *source.FileSet
	Results []*driver.BuildResult
	// Files are display paths relative to Dir, in Results order.
	Files     []string
	Timings   Timings
	CacheHits int
	Failed    int
	Elapsed   time.Duration
}

// ListFiles returns the display paths Index will report for req, so a UI
// can be set up before the build starts.
func ListFiles(req *IndexRequest) ([]string, error) {
	files, err := sourceFiles(req)
	if err != nil {
		return nil, err
	}
	return normalizeProgressFiles(filterFilesUnderRoot(files, req.Dir), req.Dir), nil
}

func sourceFiles(req *IndexRequest) ([]string, error) {
	if req.Files != nil {
		return req.Files, nil
	}
	return driver.ListSourceFiles(req.Dir)
}

// Index builds every source file of the request in parallel and reports
// progress per file.
func Index(ctx context.Context, req *IndexRequest) (IndexResult, error) {
	var result IndexResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing index request")
	}
	if req.Dir == "" {
		return result, fmt.Errorf("missing directory")
	}
	files, err := sourceFiles(req)
	if err != nil {
		return result, err
	}

	base := absBase(req.Dir)
	result.Files = make([]string, len(files))
	for i, f := range files {
		result.Files[i] = displayPath(f, base)
	}
	emitQueued(req.Progress, normalizeProgressFiles(files, req.Dir))

	obs := &phaseObserver{
		sink:  req.Progress,
		base:  base,
		stage: make(map[string]Stage, len(files)),
	}
	opts := req.Options
	if req.Progress != nil {
		prev := opts.PhaseObserver
		opts.PhaseObserver = func(ev driver.PhaseEvent) {
			obs.OnPhase(ev)
			if prev != nil {
				prev(ev)
			}
		}
	}

	start := time.Now()
	emitStage(req.Progress, nil, StageParse, StatusWorking, nil, 0)
	fs, results, err := driver.BuildFiles(ctx, req.Dir, files, opts, req.Jobs)
	result.Elapsed = time.Since(start)
	result.FileSet = fs
	result.Results = results
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.CacheHit {
			result.CacheHits++
		}
		if res.Bag != nil && res.Bag.HasErrors() {
			result.Failed++
		}
		recordTimings(&result.Timings, res)
	}
	status := StatusDone
	if err != nil || result.Failed > 0 {
		status = StatusError
	}
	emitStage(req.Progress, nil, StageSnapshot, status, err, result.Elapsed)
	return result, err
}

var phaseStages = map[string]Stage{
	driver.PhaseLoad:     StageParse,
	driver.PhaseParse:    StageParse,
	driver.PhaseBuild:    StageBuild,
	driver.PhaseExpand:   StageExpand,
	driver.PhaseVerify:   StageVerify,
	driver.PhaseSnapshot: StageSnapshot,
}

func recordTimings(t *Timings, res *driver.BuildResult) {
	if res.Timing == nil {
		return
	}
	for _, p := range res.Timing.Phases {
		if stage, ok := phaseStages[p.Name]; ok {
			t.Add(stage, p.Duration())
		}
	}
}

// phaseObserver turns driver phase events into per-file progress events.
// The driver calls it from several goroutines.
type phaseObserver struct {
	sink  ProgressSink
	base  string
	mu    sync.Mutex
	stage map[string]Stage
}

// OnPhase updates the progress UI based on driver phase events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p == nil || p.sink == nil {
		return
	}
	file := displayPath(ev.File, p.base)
	if ev.Name == driver.PhaseFile {
		p.mu.Lock()
		stage := p.stage[file]
		p.mu.Unlock()
		if stage == "" {
			stage = StageParse
		}
		status := StatusDone
		if ev.Err != nil {
			status = StatusError
		}
		p.sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: fileErr(ev.Err), Elapsed: ev.Elapsed})
		return
	}
	stage, ok := phaseStages[ev.Name]
	if !ok {
		return
	}
	switch ev.Status {
	case driver.PhaseStart:
		p.mu.Lock()
		changed := p.stage[file] != stage
		p.stage[file] = stage
		p.mu.Unlock()
		if changed {
			p.sink.OnEvent(Event{File: file, Stage: stage, Status: StatusWorking})
		}
	case driver.PhaseEnd:
		if ev.Err != nil {
			p.sink.OnEvent(Event{File: file, Stage: stage, Status: StatusError, Err: ev.Err, Elapsed: ev.Elapsed})
		}
	}
}

// fileErr drops the marker error: the diagnostics carry the details.
func fileErr(err error) error {
	if errors.Is(err, driver.ErrHasErrors) {
		return nil
	}
	return err
}
