// Package trace is the structured logging layer of cobolfront.
//
// Pipeline stages open spans around units of work (a driver run, one pass over
// a document, one copybook expansion) and emit point events for notable
// decisions such as a missing copybook or a dialect ordering. Events go to a
// stream (text or NDJSON), to an in-memory ring kept for crash dumps, or both.
//
// # Usage
//
//	cobolfront expand --trace=- --trace-level=detail PROG.cbl
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-document events
//   - LevelDebug: everything including per-copybook events
//
// # Scopes
//
//   - ScopeDriver: CLI and driver operations
//   - ScopePass: preprocessing passes (cleanup, copy injection, dialects)
//   - ScopeDocument: one source document
//   - ScopeCopybook: one copybook expansion
//
// # Context propagation
//
// Tracers travel through context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "copy-injection")
//	defer span.End("")
package trace
