package mapping

import (
	"strings"

	"cobolfront/internal/source"
)

// Text is an ordered list of lines belonging to one logical unit.
type Text struct {
	uri   string
	eol   string
	lines []*Line
}

type textOptions struct {
	site *source.Location
}

// TextOption customises NewText.
type TextOption func(*textOptions)

// WithSite attaches a fallback location to every line of the new text. Used
// for copybook bodies so their lines still answer after every character was
// cleared away by a dialect.
func WithSite(loc source.Location) TextOption {
	return func(o *textOptions) {
		o.site = &loc
	}
}

// NewText splits content into lines. Every character maps to itself in uri.
func NewText(content, uri string, opts ...TextOption) *Text {
	var o textOptions
	for _, opt := range opts {
		opt(&o)
	}
	lines, eol := source.SplitLines(content)
	t := &Text{uri: uri, eol: eol, lines: make([]*Line, 0, len(lines))}
	for i, raw := range lines {
		t.lines = append(t.lines, newOriginalLine(raw, i, uri, o.site))
	}
	return t
}

// Placeholder is a single empty line standing in for content that could not
// be produced. Queries on it resolve to site.
func Placeholder(uri string, site source.Location) *Text {
	return &Text{
		uri:   uri,
		eol:   source.EOL,
		lines: []*Line{newSyntheticLine("", &site, uri)},
	}
}

// URI returns the owning document URI.
func (t *Text) URI() string {
	return t.uri
}

// EOL returns the line terminator used by String.
func (t *Text) EOL() string {
	return t.eol
}

// LineCount returns the number of lines.
func (t *Text) LineCount() int {
	return len(t.lines)
}

// Line returns the rendered i-th line.
func (t *Text) Line(i int) string {
	return t.lines[i].String()
}

// LineAt exposes the i-th line for read-only inspection.
func (t *Text) LineAt(i int) *Line {
	return t.lines[i]
}

// Lines renders all lines.
func (t *Text) Lines() []string {
	out := make([]string, len(t.lines))
	for i, l := range t.lines {
		out[i] = l.String()
	}
	return out
}

func (t *Text) String() string {
	return strings.Join(t.Lines(), t.eol)
}

// Clone returns a deep copy.
func (t *Text) Clone() *Text {
	out := &Text{uri: t.uri, eol: t.eol, lines: make([]*Line, len(t.lines))}
	for i, l := range t.lines {
		out.lines[i] = l.clone()
	}
	return out
}

// InsertAt splices other's lines before line index. index == LineCount appends.
// other is copied, the caller keeps ownership.
func (t *Text) InsertAt(index int, other *Text) error {
	if index < 0 || index > len(t.lines) {
		return rangeError(t.uri, source.NewRange(index, 0, index, 0), ErrOutOfRange)
	}
	added := make([]*Line, len(other.lines))
	for i, l := range other.lines {
		added[i] = l.clone()
	}
	t.lines = spliceLines(t.lines, index, 0, added)
	return nil
}

// Insert replaces the whole lines covered by r with other.
func (t *Text) Insert(r source.Range, other *Text) error {
	if err := t.DeleteLines(r); err != nil {
		return err
	}
	return t.InsertAt(r.Start.Line, other)
}

// DeleteLines removes lines r.Start.Line..r.End.Line.
func (t *Text) DeleteLines(r source.Range) error {
	if err := t.checkLines(r); err != nil {
		return err
	}
	t.lines = spliceLines(t.lines, r.Start.Line, r.LineSpan(), nil)
	return nil
}

// Delete removes characters r.Start..r.End. A multi-line range trims the
// start line, drops the head of the end line and removes the lines between;
// the remnants stay on separate lines.
func (t *Text) Delete(r source.Range) error {
	if err := t.checkLines(r); err != nil {
		return err
	}
	if r.SingleLine() {
		t.lines[r.Start.Line].delete(r.Start.Character, r.End.Character)
		return nil
	}
	t.lines[r.Start.Line].trim(r.Start.Character)
	t.lines[r.End.Line].delete(0, r.End.Character)
	t.lines = spliceLines(t.lines, r.Start.Line+1, r.LineSpan()-2, nil)
	return nil
}

// Clear blanks every character of r and keeps the shape of the text.
func (t *Text) Clear(r source.Range) error {
	if err := t.checkLines(r); err != nil {
		return err
	}
	if r.SingleLine() {
		t.lines[r.Start.Line].clear(r.Start.Character, r.End.Character)
		return nil
	}
	start := t.lines[r.Start.Line]
	start.clear(r.Start.Character, start.Len()-1)
	for i := r.Start.Line + 1; i < r.End.Line; i++ {
		t.lines[i].clearAll()
	}
	t.lines[r.End.Line].clear(0, r.End.Character)
	return nil
}

// AddLineBreak splits the line at p: characters from p on move to a new line.
func (t *Text) AddLineBreak(p source.Position) error {
	if p.Line < 0 || p.Line >= len(t.lines) || p.Character < 0 || p.Character > t.lines[p.Line].Len() {
		return rangeError(t.uri, source.Range{Start: p, End: p}, ErrOutOfRange)
	}
	line := t.lines[p.Line]
	rest := line.suffix(p.Character)
	line.trim(p.Character)
	t.lines = spliceLines(t.lines, p.Line+1, 0, []*Line{rest})
	return nil
}

// Replace substitutes r with newText. Inserted characters carry r as their
// site. An empty newText only deletes; a newText with k line breaks adds k
// lines after the join.
func (t *Text) Replace(r source.Range, newText string) error {
	if err := t.Delete(r); err != nil {
		return err
	}
	if !r.SingleLine() {
		// Delete keeps the two remnants apart, join them back.
		next := t.lines[r.Start.Line+1]
		t.lines[r.Start.Line].appendCells(next.cells)
		t.lines = spliceLines(t.lines, r.Start.Line+1, 1, nil)
	}
	if newText == "" {
		return nil
	}
	site := &source.Location{URI: t.uri, Range: r}
	parts := splitReplacement(newText)
	line := t.lines[r.Start.Line]
	pos := min(max(r.Start.Character, 0), line.Len())
	if len(parts) == 1 {
		line.insert(pos, newSyntheticLine(parts[0], site, t.uri).cells)
		return nil
	}
	if err := t.AddLineBreak(source.Pos(r.Start.Line, pos)); err != nil {
		return err
	}
	line.appendCells(newSyntheticLine(parts[0], site, t.uri).cells)
	last := len(parts) - 1
	t.lines[r.Start.Line+1].insert(0, newSyntheticLine(parts[last], site, t.uri).cells)
	middle := make([]*Line, 0, last-1)
	for _, p := range parts[1:last] {
		middle = append(middle, newSyntheticLine(p, site, t.uri))
	}
	t.lines = spliceLines(t.lines, r.Start.Line+1, 0, middle)
	return nil
}

// MapLocation resolves r to the location it came from.
//
// Both ends must belong to the same owner. An end without an original
// coordinate falls back to the site of the edit that produced it.
func (t *Text) MapLocation(r source.Range) (source.Location, error) {
	start, err := t.cellAt(r.Start)
	if err != nil {
		return source.Location{}, rangeError(t.uri, r, err)
	}
	end, err := t.cellAt(r.End)
	if err != nil {
		return source.Location{}, rangeError(t.uri, r, err)
	}
	if start.Owner != end.Owner {
		return source.Location{}, rangeError(t.uri, r, ErrInconsistentMapping)
	}
	if start.HasOriginal && end.HasOriginal {
		return source.Location{
			URI:   start.Owner,
			Range: source.Range{Start: start.Original, End: end.Original},
		}, nil
	}
	switch {
	case start.Site != nil:
		return *start.Site, nil
	case end.Site != nil:
		return *end.Site, nil
	}
	return source.Location{}, rangeError(t.uri, r, ErrUnmappable)
}

// cellAt returns the cell at p. A column equal to the line length maps one
// past the last character. An empty line answers with the coordinate it was
// read from, or else with its site.
func (t *Text) cellAt(p source.Position) (Cell, error) {
	if p.Line < 0 || p.Line >= len(t.lines) || p.Character < 0 {
		return Cell{}, ErrOutOfRange
	}
	line := t.lines[p.Line]
	n := line.Len()
	switch {
	case p.Character < n:
		return line.cells[p.Character], nil
	case p.Character == n && n > 0:
		c := line.cells[n-1]
		if c.HasOriginal {
			c.Original.Character++
		}
		return c, nil
	case n == 0 && line.hasHome:
		return originalCell(' ', line.home, line.owner), nil
	case n == 0 && line.site != nil:
		return Cell{Owner: line.owner, Site: line.site}, nil
	case n == 0 && p.Character == 0:
		return Cell{}, ErrUnmappable
	}
	return Cell{}, ErrOutOfRange
}

func (t *Text) checkLines(r source.Range) error {
	if r.Start.Line < 0 || r.End.Line >= len(t.lines) || r.Start.Line > r.End.Line {
		return rangeError(t.uri, r, ErrOutOfRange)
	}
	if r.Start.Character < 0 || r.End.Character < -1 {
		return rangeError(t.uri, r, ErrOutOfRange)
	}
	return nil
}

// spliceLines removes n lines at index and puts added in their place.
func spliceLines(lines []*Line, index, n int, added []*Line) []*Line {
	out := make([]*Line, 0, len(lines)-n+len(added))
	out = append(out, lines[:index]...)
	out = append(out, added...)
	out = append(out, lines[index+n:]...)
	return out
}

// splitReplacement keeps a trailing empty part so "X\n" opens a new line.
func splitReplacement(text string) []string {
	parts := strings.Split(text, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
