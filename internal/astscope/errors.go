package astscope

import (
	"errors"
	"fmt"
)

var (
	// ErrRangeInvariant: a scope's range does not cover a child or its ignored range.
	ErrRangeInvariant = errors.New("range invariant violated")
	// ErrChildOrder: siblings overlap or are not sorted by start.
	ErrChildOrder = errors.New("children out of order")
	// ErrDuplicateReferent: two live scopes share a dedup key.
	ErrDuplicateReferent = errors.New("duplicate referent")
	// ErrTreeShrank: re-expansion lost descendants.
	ErrTreeShrank = errors.New("tree shrank on re-expansion")
	// ErrChildOutsideParent: a child's range escapes its parent's range.
	ErrChildOutsideParent = errors.New("child outside parent")
	// ErrBadParentLink: a child list and the child's parent disagree.
	ErrBadParentLink = errors.New("bad parent link")
)

// InvariantError describes an internal consistency failure of the tree.
// These never result from malformed source.
type InvariantError struct {
	Err    error // one of the Err* sentinels
	Scope  ScopeID
	Detail string
}

func (e *InvariantError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("scope %d: %v", e.Scope, e.Err)
	}
	return fmt.Sprintf("scope %d: %v: %s", e.Scope, e.Err, e.Detail)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func invariantf(err error, id ScopeID, format string, args ...any) *InvariantError {
	return &InvariantError{Err: err, Scope: id, Detail: fmt.Sprintf(format, args...)}
}

// violate panics when checks are enabled; otherwise the violation is left
// for Verify to report.
func (t *Tree) violate(err *InvariantError) {
	if t.checks {
		panic(err)
	}
}
