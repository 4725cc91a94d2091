package astscope

import "scopetree/internal/ast"

// Key identifies a scope-eligible construct for duplicate suppression.
// Pattern entries use the pattern's referent, not the declaration's.
type Key struct {
	Kind     Kind
	Referent ast.Referent
}

// Registry records keys seen during one construction pass.
type Registry struct {
	seen map[Key]struct{}
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[Key]struct{})}
}

// TryReserve records key and reports true the first time it is seen.
func (r *Registry) TryReserve(key Key) bool {
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	return true
}

// Release forgets key so a rebuilt scope can reserve it again.
func (r *Registry) Release(key Key) {
	delete(r.seen, key)
}

// Reset clears the registry at the start of a new pass.
func (r *Registry) Reset() {
	clear(r.seen)
}

func (r *Registry) Len() int { return len(r.seen) }
