// Package diag defines the diagnostic model shared by the expansion pipeline.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced while
//     copybooks are injected and dialects rewrite a document.
//   - Offer light-weight utilities (Reporter, Bag, Result) that let producers
//     emit diagnostics without coupling to storage or formatting.
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt.
//
// # Data model
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with stable string form (CPY, DIA,
//     MAP, IO, PRJ, OBS ranges).
//   - Message – short, actionable text.
//   - Primary – source.Location in original coordinates.
//   - Notes – secondary locations, e.g. the copybook chain of a recursion.
//
// # Stage results
//
// Pipeline stages return Result[T]: the value they produced (possibly a
// degraded one, such as an empty copybook body) and the diagnostics explaining
// it. Callers thread results through an accumulator with Unwrap; nothing in the
// pipeline aborts on a diagnostic.
//
// # Locations
//
// Diagnostics raised against expanded text are moved to original coordinates
// with Relocate. A failed mapping never drops the diagnostic: it is pinned to
// the document URI and carries a "location unavailable" note.
package diag
