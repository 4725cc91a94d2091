package driver

import (
	"fmt"
	"strconv"
	"strings"

	"scopetree/internal/astscope"
	"scopetree/internal/source"
)

// QueryResult answers "where am I and what can I see" for one position.
type QueryResult struct {
	Pos       source.LineCol
	Offset    uint32
	Innermost astscope.ScopeID
	// Chain is the lookup chain, innermost first.
	Chain []astscope.ScopeID
	Names []astscope.VisibleName
	// BodyParsed is set when a delayed function body had to be parsed.
	BodyParsed bool
}

// ParseLineCol parses "LINE:COL" (both 1-based).
func ParseLineCol(s string) (source.LineCol, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return source.LineCol{}, fmt.Errorf("position %q: expected LINE:COL", s)
	}
	line, err := strconv.ParseUint(lineStr, 10, 32)
	if err != nil || line == 0 {
		return source.LineCol{}, fmt.Errorf("position %q: bad line", s)
	}
	col, err := strconv.ParseUint(colStr, 10, 32)
	if err != nil || col == 0 {
		return source.LineCol{}, fmt.Errorf("position %q: bad column", s)
	}
	return source.LineCol{Line: uint32(line), Col: uint32(col)}, nil
}

// Query locates pos in the result's tree. Scopes on the way are expanded
// on demand; a delayed body around pos is parsed first.
func (r *BuildResult) Query(pos source.LineCol) (*QueryResult, error) {
	if r.Tree == nil {
		return nil, ErrNoTree
	}
	off, ok := r.File.Offset(pos)
	if !ok {
		return nil, fmt.Errorf("%s: position %s is outside the file", r.File.Path, pos)
	}
	parsed, err := r.ParseBodyAt(off)
	if err != nil {
		return nil, err
	}
	inner := r.Tree.FindInnermost(off)
	return &QueryResult{
		Pos:        pos,
		Offset:     off,
		Innermost:  inner,
		Chain:      r.Tree.LookupChain(inner),
		Names:      r.Tree.VisibleNames(off),
		BodyParsed: parsed,
	}, nil
}
