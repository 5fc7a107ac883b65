package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64

	// spans begun and not yet ended, reported by heartbeats
	openSpans atomic.Int64
)

// NextSeq returns the next global sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// Span tracks one unit of work. The zero Span and a nil *Span are inert.
type Span struct {
	tracer   Tracer
	id       uint64
	parent   uint64
	scope    Scope
	document string
	name     string
	started  time.Time
	attrs    []Attr
}

// Start opens a span under the one carried by ctx and returns a context
// carrying the new span. Spans filtered out by the level are inert and leave
// ctx unchanged.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	a := activeFrom(ctx)
	if !a.tracer.Enabled() || !a.tracer.Level().ShouldEmit(scope) {
		return &Span{}, ctx
	}
	s := &Span{
		tracer:   a.tracer,
		id:       spanCounter.Add(1),
		parent:   a.span,
		scope:    scope,
		document: a.document,
		name:     name,
		started:  time.Now(),
	}
	openSpans.Add(1)
	s.emit(KindSpanBegin, s.started, "", nil)

	a.span = s.id
	return s, context.WithValue(ctx, ctxKey{}, a)
}

// Point emits an instant event under the span carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	a := activeFrom(ctx)
	if !a.tracer.Enabled() || !a.tracer.Level().ShouldEmit(scope) {
		return
	}
	a.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: a.span,
		Document: a.document,
		Name:     name,
		Detail:   detail,
	})
}

// With records an attribute reported when the span ends.
func (s *Span) With(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// End closes the span and returns its duration. Ending twice is a no-op.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.attrs)
	s.tracer = nil
	openSpans.Add(-1)
	return now.Sub(s.started)
}

// ID returns the span id, zero for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) emit(kind Kind, at time.Time, detail string, attrs []Attr) {
	s.tracer.Emit(&Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Document: s.document,
		Name:     s.name,
		Detail:   detail,
		Attrs:    attrs,
	})
}
