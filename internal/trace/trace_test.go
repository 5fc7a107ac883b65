package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeDocument, false},
		{LevelDetail, ScopeDocument, true},
		{LevelDetail, ScopeCopybook, false},
		{LevelDebug, ScopeCopybook, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode(both) = %v, %v", m, err)
	}
	if _, err := ParseMode(""); err == nil {
		t.Fatal("expected error for empty mode")
	}
}

type ndjsonLine struct {
	Kind     string            `json:"kind"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id"`
	Document string            `json:"doc"`
	Name     string            `json:"name"`
	Attrs    map[string]string `json:"attrs"`
}

func decode(t *testing.T, out string) []ndjsonLine {
	t.Helper()
	var lines []ndjsonLine
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		var ev ndjsonLine
		if err := json.Unmarshal([]byte(l), &ev); err != nil {
			t.Fatalf("bad NDJSON %q: %v", l, err)
		}
		lines = append(lines, ev)
	}
	return lines
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)
	ctx = WithDocument(ctx, "PROG.cbl")

	outer, ctx := Start(ctx, ScopePass, "copy-injection")
	inner, ctx := Start(ctx, ScopeCopybook, "copybook:ABC")
	Point(ctx, ScopeCopybook, "missing", "ABC")
	inner.End("")
	outer.With("sites", "1").End("done")

	events := decode(t, buf.String())
	if len(events) != 5 {
		t.Fatalf("got %d events:\n%s", len(events), buf.String())
	}
	if events[1].ParentID != outer.ID() || events[2].ParentID != inner.ID() {
		t.Fatalf("wrong parents: %+v", events)
	}
	for _, ev := range events {
		if ev.Document != "PROG.cbl" {
			t.Fatalf("document not propagated: %+v", ev)
		}
	}
	if events[4].Kind != "end" || events[4].Attrs["sites"] != "1" {
		t.Fatalf("attrs lost: %+v", events[4])
	}
}

func TestEndTwiceIsNoop(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelDebug, FormatText))
	span, _ := Start(ctx, ScopeDriver, "once")
	span.End("")
	span.End("")
	if got := strings.Count(buf.String(), "once"); got != 2 {
		t.Fatalf("expected begin and one end, got %d lines:\n%s", got, buf.String())
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	span, ctx := Start(ctx, ScopePass, "cleanup")
	Point(ctx, ScopeCopybook, "ignored", "")
	span.End("")

	out := buf.String()
	if strings.Contains(out, "ignored") || strings.Count(out, "cleanup") != 2 {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: name})
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("Snapshot = %+v", snap)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("Dump wrote:\n%s", buf.String())
	}
}

func TestNewBothFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	ring, ok := Ring(tr)
	if !ok {
		t.Fatal("both mode has no ring")
	}
	Point(WithTracer(context.Background(), tr), ScopeDriver, "hello", "")
	if !strings.Contains(buf.String(), "hello") || len(ring.Snapshot()) != 1 {
		t.Fatalf("event not fanned out: %q, %d", buf.String(), len(ring.Snapshot()))
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestHeartbeatReportsOpenSpans(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	span, _ := Start(ctx, ScopeDriver, "stuck")

	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for !hasHeartbeat(ring) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	span.End("")

	if !hasHeartbeat(ring) {
		t.Fatal("no heartbeat emitted")
	}
}

func hasHeartbeat(ring *RingTracer) bool {
	for _, ev := range ring.Snapshot() {
		if ev.Kind == KindHeartbeat && len(ev.Attrs) == 1 && ev.Attrs[0].Key == "open_spans" {
			return true
		}
	}
	return false
}

func TestNopWhenMissing(t *testing.T) {
	span, ctx := Start(context.Background(), ScopeDriver, "x")
	if span.ID() != 0 || FromContext(ctx).Enabled() {
		t.Fatal("expected nop tracer")
	}
	span.End("")
	if DocumentFrom(ctx) != "" {
		t.Fatal("unexpected document")
	}
	if StartHeartbeat(Nop, time.Second) != nil {
		t.Fatal("heartbeat on a disabled tracer")
	}
}
