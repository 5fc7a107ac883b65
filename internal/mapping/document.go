package mapping

import (
	"sync/atomic"

	"cobolfront/internal/source"
)

// Snapshot is an immutable committed state of a Document.
type Snapshot struct {
	version uint64
	edits   uint64
	text    *Text
}

// Version increases by one on every commit that published new state.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// URI of the document the snapshot belongs to.
func (s *Snapshot) URI() string {
	return s.text.uri
}

// LineCount returns the number of committed lines.
func (s *Snapshot) LineCount() int {
	return s.text.LineCount()
}

// Line renders the i-th committed line.
func (s *Snapshot) Line(i int) string {
	return s.text.Line(i)
}

func (s *Snapshot) String() string {
	return s.text.String()
}

// MapLocation resolves r against the committed state.
func (s *Snapshot) MapLocation(r source.Range) (source.Location, error) {
	return s.text.MapLocation(r)
}

// Extended returns an editable copy of the committed text, ready to be
// spliced into a parent document.
func (s *Snapshot) Extended() *Text {
	return s.text.Clone()
}

// Document pairs an editable Text with its last committed Snapshot.
//
// Edits are not safe for concurrent use. Snapshot and MapLocation may be
// called from other goroutines while the owner keeps editing.
type Document struct {
	original string
	current  *Text
	edits    uint64
	base     atomic.Pointer[Snapshot]
}

// NewDocument builds a document over text and commits it once, so location
// queries work straight away.
func NewDocument(text, uri string, opts ...TextOption) *Document {
	d := &Document{original: text, current: NewText(text, uri, opts...)}
	d.Commit()
	return d
}

// NewDocumentFromText wraps an existing Text.
func NewDocumentFromText(t *Text) *Document {
	d := &Document{original: t.String(), current: t}
	d.Commit()
	return d
}

// URI returns the document URI.
func (d *Document) URI() string {
	return d.current.uri
}

// Original returns the text the document was created from.
func (d *Document) Original() string {
	return d.original
}

// Current renders the live text, uncommitted edits included.
func (d *Document) Current() string {
	return d.current.String()
}

// CurrentLines renders the live text line by line.
func (d *Document) CurrentLines() []string {
	return d.current.Lines()
}

// CurrentLine renders the i-th live line.
func (d *Document) CurrentLine(i int) string {
	return d.current.Line(i)
}

// CurrentLineCount returns the number of live lines.
func (d *Document) CurrentLineCount() int {
	return d.current.LineCount()
}

// String renders the committed text.
func (d *Document) String() string {
	return d.Snapshot().String()
}

// Snapshot returns the last committed state.
func (d *Document) Snapshot() *Snapshot {
	return d.base.Load()
}

// Version of the last committed state.
func (d *Document) Version() uint64 {
	return d.Snapshot().Version()
}

// Dirty reports whether the live text has edits that were not committed.
func (d *Document) Dirty() bool {
	return d.Snapshot().edits != d.edits
}

// Commit publishes the live text as the new snapshot. It reports false and
// does nothing when there is nothing to publish.
func (d *Document) Commit() bool {
	prev := d.base.Load()
	if prev != nil && prev.edits == d.edits {
		return false
	}
	next := &Snapshot{edits: d.edits, text: d.current.Clone()}
	if prev != nil {
		next.version = prev.version + 1
	} else {
		next.version = 1
	}
	d.base.Store(next)
	return true
}

// MapLocation resolves r against the committed state.
func (d *Document) MapLocation(r source.Range) (source.Location, error) {
	return d.Snapshot().MapLocation(r)
}

// InsertCopybook replaces the whole lines covered by r with copybook.
func (d *Document) InsertCopybook(r source.Range, copybook *Text) error {
	return d.edit(d.current.Insert(r, copybook))
}

// InsertCopybookAt puts copybook before line index without removing anything.
func (d *Document) InsertCopybookAt(index int, copybook *Text) error {
	return d.edit(d.current.InsertAt(index, copybook))
}

// Replace substitutes r with newText.
func (d *Document) Replace(r source.Range, newText string) error {
	return d.edit(d.current.Replace(r, newText))
}

// Clear blanks r.
func (d *Document) Clear(r source.Range) error {
	return d.edit(d.current.Clear(r))
}

// AddLineBreak splits the live line at p.
func (d *Document) AddLineBreak(p source.Position) error {
	return d.edit(d.current.AddLineBreak(p))
}

// Delete removes r.
func (d *Document) Delete(r source.Range) error {
	return d.edit(d.current.Delete(r))
}

func (d *Document) edit(err error) error {
	if err != nil {
		return err
	}
	d.edits++
	return nil
}
