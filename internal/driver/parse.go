package driver

import (
	"fmt"

	"fortio.org/safecast"

	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/parser"
	"scopetree/internal/source"
	"scopetree/internal/trace"
)

// DefaultMaxDiagnostics is used when no positive limit is given.
const DefaultMaxDiagnostics = 100

func newBag(maxDiagnostics int) *diag.Bag {
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	return diag.NewBag(maxDiagnostics)
}

// ParseOptions are the parser settings shared by every driver entry point.
type ParseOptions struct {
	MaxDiagnostics int
	// Defines are the names that are true in `#if` conditions.
	Defines     map[string]bool
	DelayBodies bool
}

// traceReporter mirrors diagnostics into the trace as point events.
type traceReporter struct{ tracer trace.Tracer }

func (r traceReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, _ []diag.Note, _ []diag.Fix) {
	trace.Point(r.tracer, trace.ScopeFile, "diag "+code.ID(), fmt.Sprintf("%s %s: %s", sev.Label(), primary, msg))
}

func (o ParseOptions) parserOptions(bag *diag.Bag, tracer trace.Tracer) (parser.Options, error) {
	limit := o.MaxDiagnostics
	if limit < 0 {
		limit = 0
	}
	maxErrors, err := safecast.Conv[uint](limit)
	if err != nil {
		return parser.Options{}, fmt.Errorf("max diagnostics %d: %w", o.MaxDiagnostics, err)
	}
	var sink diag.Reporter = diag.BagReporter{Bag: bag}
	if tracer != nil && tracer.Enabled() {
		sink = diag.MultiReporter{sink, traceReporter{tracer: tracer}}
	}
	return parser.Options{
		// повторный разбор отложенного тела даёт те же ошибки
		Reporter:    diag.NewDedupReporter(sink),
		MaxErrors:   maxErrors,
		Defines:     o.Defines,
		DelayBodies: o.DelayBodies,
	}, nil
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag

	opts parser.Options
}

func Parse(filePath string, opts ParseOptions) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	res := &ParseResult{
		FileSet: fs,
		File:    fs.Get(fileID),
		Bag:     newBag(opts.MaxDiagnostics),
	}
	if err := res.parse(opts, nil, nil); err != nil {
		return nil, err
	}
	return res, nil
}

// parse fills Builder and FileID from File. strings may be shared between
// results parsed in parallel.
func (r *ParseResult) parse(opts ParseOptions, strings *source.Interner, tracer trace.Tracer) error {
	popts, err := opts.parserOptions(r.Bag, tracer)
	if err != nil {
		return err
	}
	r.Builder = ast.NewBuilder(ast.Hints{}, strings)
	res, err := parser.ParseFile(r.FileSet, r.File.ID, r.Builder, popts)
	if err != nil {
		return err
	}
	r.FileID = res.File
	r.opts = popts
	return nil
}
