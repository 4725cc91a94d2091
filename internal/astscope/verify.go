package astscope

import (
	"errors"
)

// Verify checks the structural invariants of the scopes built so far:
// sibling order, containment, parent links, range caches and duplicate
// keys. It does not expand anything. All violations are joined.
func (t *Tree) Verify() error {
	var errs []error
	seen := make(map[Key]ScopeID)
	var walk func(ScopeID)
	walk = func(id ScopeID) {
		s := t.scopes.Get(id)
		if s.hasKey {
			if other, dup := seen[s.key]; dup {
				errs = append(errs, invariantf(ErrDuplicateReferent, id, "%s %s already scoped by %d", s.key.Kind, s.key.Referent, other))
			} else {
				seen[s.key] = id
			}
		}
		fresh := t.computeRange(id)
		r := t.SourceRange(id)
		if fresh != r {
			errs = append(errs, invariantf(ErrRangeInvariant, id, "cached range %v, actual %v", r, fresh))
			r = fresh
		}
		if ig, ok := t.scopes.Get(id).Ignored(); ok && !r.Contains(ig) {
			errs = append(errs, invariantf(ErrRangeInvariant, id, "ignored %v outside %v", ig, r))
		}
		prev := NoScopeID
		for _, c := range t.scopes.Get(id).children {
			cs := t.scopes.Get(c)
			switch {
			case cs.dead:
				errs = append(errs, invariantf(ErrBadParentLink, c, "discarded scope still linked from %d", id))
				continue
			case cs.parent != id:
				errs = append(errs, invariantf(ErrBadParentLink, c, "listed under %d but parent is %d", id, cs.parent))
			}
			cr := t.SourceRange(c)
			if cr.IsValid() && r.IsValid() && !r.Contains(cr) {
				errs = append(errs, invariantf(ErrChildOutsideParent, c, "%v outside parent %d %v", cr, id, r))
			}
			if prev.IsValid() {
				if pr := t.SourceRange(prev); pr.IsValid() && cr.IsValid() && pr.End > cr.Start {
					errs = append(errs, invariantf(ErrChildOrder, id, "child %d %v overlaps %d %v", c, cr, prev, pr))
				}
			}
			prev = c
			walk(c)
		}
	}
	walk(t.root)
	return errors.Join(errs...)
}
