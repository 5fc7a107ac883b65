package source

// ComparePositions returns -1, 0 or 1 in document order.
func ComparePositions(a, b Position) int {
	switch {
	case a.Line < b.Line:
		return -1
	case a.Line > b.Line:
		return 1
	case a.Character < b.Character:
		return -1
	case a.Character > b.Character:
		return 1
	}
	return 0
}

// Normalize returns r with Start <= End.
func (r Range) Normalize() Range {
	if ComparePositions(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

// SingleLine reports whether both ends are on the same line.
func (r Range) SingleLine() bool {
	return r.Start.Line == r.End.Line
}

// LineSpan returns the number of lines the range touches.
func (r Range) LineSpan() int {
	return r.End.Line - r.Start.Line + 1
}

// Contains reports whether p lies inside r, both ends included.
func (r Range) Contains(p Position) bool {
	return ComparePositions(r.Start, p) <= 0 && ComparePositions(p, r.End) <= 0
}

// OverlapsLines reports whether two ranges share at least one line.
func (r Range) OverlapsLines(other Range) bool {
	return r.Start.Line <= other.End.Line && other.Start.Line <= r.End.Line
}

// Cover returns the smallest range containing both.
func (r Range) Cover(other Range) Range {
	if ComparePositions(other.Start, r.Start) < 0 {
		r.Start = other.Start
	}
	if ComparePositions(other.End, r.End) > 0 {
		r.End = other.End
	}
	return r
}
