package mapping

import (
	"strings"

	"cobolfront/internal/source"
)

// Line is an ordered run of cells. End indexes passed to its helpers are
// inclusive, matching Range.
type Line struct {
	cells []Cell
	// owner and site answer queries that land on a line without characters,
	// e.g. the empty body substituted for a missing copybook.
	owner   string
	site    *source.Location
	home    source.Position
	hasHome bool
}

func newOriginalLine(text string, lineNumber int, owner string, site *source.Location) *Line {
	line := &Line{
		cells:   make([]Cell, 0, len(text)),
		owner:   owner,
		site:    site,
		home:    source.Pos(lineNumber, 0),
		hasHome: true,
	}
	col := 0
	for _, r := range text {
		if r == '\n' {
			panic("mapping: text line contains a line break")
		}
		line.cells = append(line.cells, originalCell(r, source.Pos(lineNumber, col), owner))
		col++
	}
	return line
}

func newSyntheticLine(text string, site *source.Location, owner string) *Line {
	line := &Line{cells: make([]Cell, 0, len(text)), owner: owner, site: site}
	for _, r := range text {
		if r == '\n' {
			panic("mapping: text line contains a line break")
		}
		line.cells = append(line.cells, syntheticCell(r, site, owner))
	}
	return line
}

// Len returns the number of characters.
func (l *Line) Len() int {
	return len(l.cells)
}

// Cell returns the i-th character.
func (l *Line) Cell(i int) Cell {
	return l.cells[i]
}

func (l *Line) String() string {
	var sb strings.Builder
	sb.Grow(len(l.cells))
	for _, c := range l.cells {
		sb.WriteRune(c.Value)
	}
	return sb.String()
}

// delete removes cells start..end.
func (l *Line) delete(start, end int) {
	start, end = l.clamp(start, end)
	if start > end {
		return
	}
	l.cells = append(l.cells[:start], l.cells[end+1:]...)
}

// trim drops everything from pos to the end of the line.
func (l *Line) trim(pos int) {
	if pos < len(l.cells) {
		l.cells = l.cells[:max(pos, 0)]
	}
}

// insert puts cells before pos.
func (l *Line) insert(pos int, cells []Cell) {
	pos = min(max(pos, 0), len(l.cells))
	out := make([]Cell, 0, len(l.cells)+len(cells))
	out = append(out, l.cells[:pos]...)
	out = append(out, cells...)
	out = append(out, l.cells[pos:]...)
	l.cells = out
}

// suffix returns an independent line holding cells from pos on.
func (l *Line) suffix(pos int) *Line {
	pos = min(max(pos, 0), len(l.cells))
	out := &Line{cells: make([]Cell, len(l.cells)-pos), owner: l.owner, site: l.site}
	copy(out.cells, l.cells[pos:])
	if len(out.cells) == 0 && l.hasHome {
		out.home, out.hasHome = l.home, true
	}
	return out
}

func (l *Line) appendCells(cells []Cell) {
	l.cells = append(l.cells, cells...)
}

// clear blanks cells start..end. Provenance is left untouched.
func (l *Line) clear(start, end int) {
	start, end = l.clamp(start, end)
	for i := start; i <= end; i++ {
		l.cells[i].Value = ' '
	}
}

func (l *Line) clearAll() {
	l.clear(0, len(l.cells)-1)
}

func (l *Line) clamp(start, end int) (int, int) {
	return max(start, 0), min(end, len(l.cells)-1)
}

func (l *Line) clone() *Line {
	out := *l
	out.cells = make([]Cell, len(l.cells))
	copy(out.cells, l.cells)
	return &out
}
