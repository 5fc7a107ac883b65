package testkit

import (
	"fmt"

	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
)

// CheckMappingInvariants runs a minimal set of mapping invariants on a
// committed document:
// 1) every character maps to a location with a URI
// 2) a single character maps to a single-line range
// 3) a whole non-empty line maps without error
func CheckMappingInvariants(doc *mapping.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	snap := doc.Snapshot()
	for i := range snap.LineCount() {
		n := len([]rune(snap.Line(i)))
		for c := range n {
			loc, err := snap.MapLocation(source.NewRange(i, c, i, c))
			if err != nil {
				return fmt.Errorf("char %d:%d: %w", i, c, err)
			}
			if loc.URI == "" {
				return fmt.Errorf("char %d:%d maps to an empty uri", i, c)
			}
			if !loc.Range.SingleLine() {
				return fmt.Errorf("char %d:%d maps to %v", i, c, loc.Range)
			}
		}
		if n == 0 {
			continue
		}
		if _, err := snap.MapLocation(source.NewRange(i, 0, i, n-1)); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	return nil
}

// CheckIdentity verifies that an unedited document maps every character to
// itself.
func CheckIdentity(doc *mapping.Document) error {
	snap := doc.Snapshot()
	for i := range snap.LineCount() {
		for c := range len([]rune(snap.Line(i))) {
			r := source.NewRange(i, c, i, c)
			loc, err := snap.MapLocation(r)
			if err != nil {
				return fmt.Errorf("char %d:%d: %w", i, c, err)
			}
			if loc.URI != doc.URI() || loc.Range != r {
				return fmt.Errorf("char %d:%d maps to %v", i, c, loc)
			}
		}
	}
	return nil
}
