package trace

import "time"

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // периодический сигнал «процесс жив»
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser; a Level
// admits every scope up to its own.
type Scope uint8

const (
	// ScopeDriver covers a whole file or directory run.
	ScopeDriver Scope = iota + 1
	// ScopePass is one pipeline phase: parse, build, expand, verify.
	ScopePass
	// ScopeFile is per-file bookkeeping such as cache hits and appends.
	ScopeFile
	// ScopeNode is one scope of the tree: expand, reexpand, body parse.
	ScopeNode
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeFile:   "file",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record handed to a Tracer. SpanID and ParentID are zero for
// point events outside any span.
type Event struct {
	Time     time.Time
	Seq      uint64 // монотонный номер в пределах процесса
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64
	Name     string
	Detail   string
	Extra    map[string]string
}
