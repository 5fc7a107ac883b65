package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"cobolfront/internal/source"
)

// goldenLine is one rendered entry: a primary location or one of its notes.
type goldenLine struct {
	sev  string
	code string
	path string
	pos  source.Position
	msg  string
}

func (l goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line+1, l.pos.Character+1, l.msg)
}

func compareGolden(a, b goldenLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		source.ComparePositions(a.pos, b.pos),
		cmp.Compare(a.sev, b.sev),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders diagnostics one per line for golden
// comparisons: 1-based positions, paths relative to baseDir, entries in
// implicit documents dropped, sorted by location. Notes become "note" lines
// carrying the code of their diagnostic when includeNotes is set.
func FormatGoldenDiagnostics(diags []Diagnostic, baseDir string, includeNotes bool) string {
	var lines []goldenLine
	add := func(sev string, code Code, loc source.Location, msg string) {
		if source.IsImplicitURI(loc.URI) {
			return
		}
		lines = append(lines, goldenLine{
			sev:  sev,
			code: code.ID(),
			path: DisplayPath(loc.URI, baseDir),
			pos:  loc.Range.Start,
			msg:  strings.Join(strings.Fields(msg), " "),
		})
	}
	for _, d := range diags {
		add(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			add("note", d.Code, n.Location, n.Msg)
		}
	}
	slices.SortStableFunc(lines, compareGolden)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// DisplayPath turns a file URI into a slash path relative to baseDir. Other
// URIs are returned unchanged.
func DisplayPath(uri, baseDir string) string {
	path := source.URIToPath(uri)
	if path == "" {
		return uri
	}
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	path = filepath.ToSlash(path)
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return path
}
