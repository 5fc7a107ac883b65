package source

import "fmt"

// Position is a zero-based (line, character) coordinate.
// Character counts runes, not bytes.
type Position struct {
	Line      int
	Character int
}

// Range is a pair of positions. The mapping layer treats End as the last
// character of the range (inclusive).
type Range struct {
	Start Position
	End   Position
}

// Location ties a range to the document it belongs to.
type Location struct {
	URI   string
	Range Range
}

// Pos is a shorthand constructor.
func Pos(line, character int) Position {
	return Position{Line: line, Character: character}
}

// NewRange builds a range from four coordinates.
func NewRange(startLine, startChar, endLine, endChar int) Range {
	return Range{Start: Pos(startLine, startChar), End: Pos(endLine, endChar)}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

func (l Location) String() string {
	return fmt.Sprintf("%s@%s", l.URI, l.Range)
}

// IsZero reports whether the location carries no information at all.
func (l Location) IsZero() bool {
	return l == Location{}
}
