// Package mapping holds the character-provenance text model used by the
// preprocessor.
//
// # Layers
//
//   - Cell – one character plus where it came from: an original coordinate in
//     its owning document, or the site of the edit that synthesised it.
//   - Line – ordered cells. Line breaks are structural and never stored.
//   - Text – ordered lines of one logical unit (a program or one copybook
//     instance) with line- and range-level edits and MapLocation.
//   - Document – a live Text plus an immutable committed Snapshot.
//
// # Commit discipline
//
// Edits only touch the live text. Location queries are answered from the last
// committed Snapshot, so every diagnostic produced during one phase maps
// through the same state even while later phases keep editing. Snapshots are
// versioned and never mutated after publication; holding an old one is safe.
//
// Ranges are inclusive at both ends, as produced by the COPY statement finder
// and the dialects. MapLocation additionally accepts an End column equal to the
// line length and maps it one past the last character.
package mapping
