package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	// KindHeartbeat is emitted by Heartbeat regardless of level filtering.
	KindHeartbeat
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

// Scope indicates the granularity of the event. Coarser scopes have lower
// values, so a level admits every scope up to a bound.
type Scope uint8

const (
	// ScopeDriver covers CLI commands and the file driver.
	ScopeDriver Scope = iota + 1
	// ScopePass covers one pass over a document (cleanup, copy injection,
	// dialects).
	ScopePass
	// ScopeDocument covers one source program.
	ScopeDocument
	ScopeCopybook
)

var scopeNames = [...]string{
	ScopeDriver:   "driver",
	ScopePass:     "pass",
	ScopeDocument: "document",
	ScopeCopybook: "copybook",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is one key/value pair attached to a span end.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64

	// Document is the program the event belongs to; empty for driver-wide
	// events. Programs are expanded in parallel, so this is what ties
	// interleaved lines together.
	Document string

	Name   string
	Detail string
	Attrs  []Attr
}
