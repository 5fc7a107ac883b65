package dialect

import (
	"unicode/utf8"

	"cobolfront/internal/source"
)

// ObserveLine records statement evidence found on one source line.
func ObserveLine(e *Evidence, uri string, line int, text string) {
	if e == nil || text == "" {
		return
	}
	for _, sig := range statementSignals {
		for _, m := range sig.Pattern.FindAllStringIndex(text, -1) {
			start := utf8.RuneCountInString(text[:m[0]])
			end := start + utf8.RuneCountInString(text[m[0]:m[1]]) - 1
			e.Add(Hint{
				Dialect:  sig.Dialect,
				Score:    sig.Score,
				Reason:   sig.Reason,
				Location: source.Location{URI: uri, Range: source.NewRange(line, start, line, end)},
			})
		}
	}
}

// Collect scans a whole program.
func Collect(uri, text string) *Evidence {
	e := NewEvidence()
	lines, _ := source.SplitLines(text)
	for i, line := range lines {
		ObserveLine(e, uri, i, line)
	}
	return e
}
