package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"scopetree/internal/astscope"
	"scopetree/internal/parser"
	"scopetree/internal/snapshot"
	"scopetree/internal/trace"
)

// GrowStep reports one appended chunk of source.
type GrowStep struct {
	Path    string
	Decls   int
	Before  int // live scopes before the append
	After   int
	Elapsed time.Duration
	// Diffs compares the grown tree with a fresh build of the whole text.
	// Only filled when BuildOptions.Verify is set.
	Diffs []snapshot.Difference
}

// ErrNoTree is returned when a result has no tree to work on, e.g. after
// a cache hit.
var ErrNoTree = errors.New("driver: result has no scope tree")

// Grow builds base and then appends every extra file to it, extending the
// tree incrementally after each one.
func Grow(ctx context.Context, base string, extras []string, opts BuildOptions) (*BuildResult, []GrowStep, error) {
	opts.Cache = nil
	res, err := BuildFile(ctx, base, opts)
	if err != nil {
		return res, nil, err
	}
	steps := make([]GrowStep, 0, len(extras))
	for _, path := range extras {
		text, err := os.ReadFile(path) // #nosec G304 -- paths come from the command line
		if err != nil {
			return res, steps, fmt.Errorf("read %s: %w", path, err)
		}
		step, err := res.Append(ctx, text, opts)
		step.Path = path
		steps = append(steps, step)
		if err != nil {
			return res, steps, fmt.Errorf("append %s: %w", path, err)
		}
	}
	return res, steps, nil
}

// Append adds text to the end of the file, parses the new top-level
// elements and extends the tree with them.
func (r *BuildResult) Append(ctx context.Context, text []byte, opts BuildOptions) (step GrowStep, err error) {
	if r.Tree == nil {
		return step, ErrNoTree
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, PhaseGrow, trace.CurrentSpan(ctx).SpanID)
	start := time.Now()
	defer func() {
		step.Elapsed = time.Since(start)
		span.End(fmt.Sprintf("%d decls", step.Decls))
	}()

	step.Before = r.Tree.Live()
	off, err := r.FileSet.Extend(r.File.ID, text)
	if err != nil {
		return step, err
	}
	res, err := parser.ParseAppended(r.FileSet, r.FileID, off, r.Builder, r.opts)
	if err != nil {
		return step, err
	}
	step.Decls = len(res.Decls)
	if err := r.Tree.AppendTopLevelAndReexpand(); err != nil {
		return step, err
	}
	if opts.ExpandAll {
		r.Tree.ExpandAll()
	}
	step.After = r.Tree.Live()

	if opts.Verify {
		if verr := r.Tree.Verify(); verr != nil {
			reportInvariants(r.Bag, r.Tree, verr)
		}
		step.Diffs, err = r.compareFresh(opts)
		if err != nil {
			return step, err
		}
	}
	return step, nil
}

// compareFresh builds a second tree over the same AST and compares the two.
func (r *BuildResult) compareFresh(opts BuildOptions) ([]snapshot.Difference, error) {
	fresh, err := astscope.New(r.Builder, r.FileSet, r.FileID, astscope.Options{IncludeInactive: opts.IncludeInactive})
	if err != nil {
		return nil, err
	}
	fresh.Children(fresh.Root())
	if opts.ExpandAll {
		fresh.ExpandAll()
	}
	// на неполностью раскрытом дереве ленивость отличается законно
	return snapshot.Compare(snapshot.Take(fresh), snapshot.Take(r.Tree), snapshot.CompareOpts{IgnoreLaziness: !opts.ExpandAll}), nil
}

// ParseBodyAt parses the delayed body of the function enclosing off, if
// any, and re-expands the body scope. It reports whether a body was parsed.
func (r *BuildResult) ParseBodyAt(off uint32) (bool, error) {
	if r.Tree == nil {
		return false, ErrNoTree
	}
	for id := r.Tree.FindInnermost(off); id.IsValid(); id = r.Tree.Parent(id) {
		if r.Tree.Kind(id) != astscope.KindFunctionBody {
			continue
		}
		decl := r.Tree.Scope(id).Ref.Decl
		fn, ok := r.Builder.Decls.Func(decl)
		if !ok || !fn.BodyDelayed {
			return false, nil
		}
		if err := parser.ParseDelayedBody(r.FileSet, decl, r.Builder, r.opts); err != nil {
			return false, err
		}
		return true, r.Tree.Reexpand(id)
	}
	return false, nil
}
