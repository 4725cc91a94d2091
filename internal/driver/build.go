package driver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"scopetree/internal/astscope"
	"scopetree/internal/diag"
	"scopetree/internal/observ"
	"scopetree/internal/snapshot"
	"scopetree/internal/source"
	"scopetree/internal/trace"
)

// BuildOptions управляет конвейером parse → build → expand → verify → snapshot.
type BuildOptions struct {
	Parse           ParseOptions
	IncludeInactive bool
	// ExpandAll expands every scope; otherwise only the root's children
	// are created.
	ExpandAll bool
	// Verify audits the tree and reports violations as SCP diagnostics.
	Verify bool
	// Snapshot records the tree after expansion. Cache implies it.
	Snapshot bool
	// Cache skips files whose snapshot is already stored. Only files
	// without errors are stored.
	Cache         *snapshot.Cache
	EnableTimings bool
	PhaseObserver PhaseObserver
}

// variant lists the options that change the shape of the tree.
func (o *BuildOptions) variant() []string {
	out := make([]string, 0, len(o.Parse.Defines)+3)
	out = append(out,
		"inactive="+strconv.FormatBool(o.IncludeInactive),
		"expand="+strconv.FormatBool(o.ExpandAll),
		"delay="+strconv.FormatBool(o.Parse.DelayBodies),
	)
	defines := make([]string, 0, len(o.Parse.Defines))
	for name, on := range o.Parse.Defines {
		if on {
			defines = append(defines, "define="+name)
		}
	}
	sort.Strings(defines)
	return append(out, defines...)
}

type BuildResult struct {
	ParseResult
	Path     string
	Tree     *astscope.Tree
	Snapshot *snapshot.Snapshot
	// CacheHit means Snapshot came from the cache; nothing was parsed and
	// Tree and Builder are nil.
	CacheHit bool
	Timing   *observ.Report
}

// BuildFile loads path and runs the scope pipeline over it.
func BuildFile(ctx context.Context, path string, opts BuildOptions) (*BuildResult, error) {
	r := newRun(ctx, path, &opts)
	defer r.close()

	fs := source.NewFileSet()
	idx := r.begin(PhaseLoad)
	fileID, err := fs.Load(path)
	r.end(idx, "", err)
	if err != nil {
		r.done(err)
		return nil, err
	}
	return r.build(fs, fs.Get(fileID), nil)
}

// run carries the per-file observers: timer, tracer and phase callback.
type run struct {
	path   string
	opts   *BuildOptions
	timer  *observ.Timer
	tracer trace.Tracer
	span   *trace.Span
	phases []phase
	start  time.Time
}

type phase struct {
	name  string
	timer int
	span  *trace.Span
	start time.Time
}

func newRun(ctx context.Context, path string, opts *BuildOptions) *run {
	r := &run{
		path:   path,
		opts:   opts,
		tracer: trace.FromContext(ctx),
		phases: make([]phase, 0, 6),
		start:  time.Now(),
	}
	if opts.EnableTimings {
		r.timer = observ.NewTimer()
	}
	r.span = trace.Begin(r.tracer, trace.ScopeDriver, "build_file", trace.CurrentSpan(ctx).SpanID).WithExtra("path", path)
	return r
}

func (r *run) close() {
	r.span.End("")
}

func (r *run) begin(name string) int {
	r.phases = append(r.phases, phase{
		name:  name,
		timer: r.timer.Begin(name),
		span:  trace.Begin(r.tracer, trace.ScopePass, name, r.span.ID()),
		start: time.Now(),
	})
	if r.opts.PhaseObserver != nil {
		r.opts.PhaseObserver(PhaseEvent{File: r.path, Name: name, Status: PhaseStart})
	}
	return len(r.phases) - 1
}

func (r *run) end(idx int, note string, err error) {
	p := &r.phases[idx]
	r.timer.End(p.timer, note)
	detail := note
	if err != nil {
		detail = err.Error()
	}
	p.span.End(detail)
	if r.opts.PhaseObserver != nil {
		r.opts.PhaseObserver(PhaseEvent{File: r.path, Name: p.name, Status: PhaseEnd, Elapsed: time.Since(p.start), Err: err})
	}
}

func (r *run) build(fs *source.FileSet, file *source.File, strings *source.Interner) (*BuildResult, error) {
	res := &BuildResult{
		ParseResult: ParseResult{FileSet: fs, File: file, Bag: newBag(r.opts.Parse.MaxDiagnostics)},
		Path:        r.path,
	}
	defer r.finish(res)

	var key snapshot.Digest
	if r.opts.Cache != nil {
		key = snapshot.FileKey(file, r.opts.variant()...)
		// ошибка чтения кеша означает пересборку
		if snap, ok, err := r.opts.Cache.Get(key); err == nil && ok {
			snap.Path = file.Path
			res.Snapshot = snap
			res.CacheHit = true
			trace.Point(r.tracer, trace.ScopeFile, "cache_hit", file.Path)
			return res, nil
		}
	}

	idx := r.begin(PhaseParse)
	err := res.parse(r.opts.Parse, strings, r.tracer)
	r.end(idx, "", err)
	if err != nil {
		return res, err
	}

	idx = r.begin(PhaseBuild)
	tree, err := astscope.New(res.Builder, fs, res.FileID, astscope.Options{
		IncludeInactive: r.opts.IncludeInactive,
		Tracer:          r.tracer,
	})
	r.end(idx, "", err)
	if err != nil {
		return res, err
	}
	res.Tree = tree

	idx = r.begin(PhaseExpand)
	if r.opts.ExpandAll {
		tree.ExpandAll()
	} else {
		tree.Children(tree.Root())
	}
	r.end(idx, fmt.Sprintf("%d scopes", tree.Live()), nil)

	if r.opts.Verify {
		idx = r.begin(PhaseVerify)
		verr := tree.Verify()
		reportInvariants(res.Bag, tree, verr)
		r.end(idx, "", verr)
	}

	if r.opts.Snapshot || r.opts.Cache != nil {
		idx = r.begin(PhaseSnapshot)
		res.Snapshot = snapshot.Take(tree)
		var perr error
		if r.opts.Cache != nil && !res.Bag.HasErrors() {
			perr = r.opts.Cache.Put(key, res.Snapshot)
		}
		r.end(idx, fmt.Sprintf("%d nodes", len(res.Snapshot.Nodes)), perr)
		if perr != nil {
			return res, fmt.Errorf("cache %s: %w", file.Path, perr)
		}
	}
	return res, nil
}

func (r *run) finish(res *BuildResult) {
	if res.Bag.HasErrors() {
		r.done(ErrHasErrors)
	} else {
		r.done(nil)
	}
	if r.timer == nil {
		return
	}
	report := r.timer.Report()
	res.Timing = &report
	appendTimingDiagnostic(res.Bag, timingPayload{
		Kind:    "file",
		Path:    r.path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}

// done reports the end of the file to the observer.
func (r *run) done(err error) {
	if r.opts.PhaseObserver == nil {
		return
	}
	r.opts.PhaseObserver(PhaseEvent{File: r.path, Name: PhaseFile, Status: PhaseEnd, Elapsed: time.Since(r.start), Err: err})
}

// reportInvariants turns Verify failures into diagnostics on the scope's range.
func reportInvariants(bag *diag.Bag, tree *astscope.Tree, err error) {
	if err == nil {
		return
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		code := diag.ScopeInfo
		span := source.Span{}
		var inv *astscope.InvariantError
		if errors.As(e, &inv) {
			code = invariantCode(inv.Err)
			if sp := tree.SourceRange(inv.Scope); sp.IsValid() {
				span = sp
			}
		}
		bag.Add(diag.New(diag.SevError, code, span, e.Error()))
	}
}

func invariantCode(err error) diag.Code {
	switch {
	case errors.Is(err, astscope.ErrRangeInvariant):
		return diag.ScopeRangeInvariant
	case errors.Is(err, astscope.ErrChildOrder):
		return diag.ScopeChildOrder
	case errors.Is(err, astscope.ErrDuplicateReferent):
		return diag.ScopeDuplicateReferent
	case errors.Is(err, astscope.ErrTreeShrank):
		return diag.ScopeTreeShrank
	case errors.Is(err, astscope.ErrChildOutsideParent):
		return diag.ScopeChildOutsideParent
	case errors.Is(err, astscope.ErrBadParentLink):
		return diag.ScopeBadParentLink
	}
	return diag.ScopeInfo
}
