// Package preprocess runs the whole preprocessing pipeline over one source:
// cleanup, COPY injection and the dialect passes.
package preprocess

import (
	"errors"
	"fmt"
	"strings"

	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
)

// Format is the reference format of a source.
type Format string

const (
	FormatFixed Format = "fixed"
	FormatFree  Format = "free"
)

// Fixed format columns, zero-based.
const (
	sequenceWidth  = 6
	indicatorCol   = 6
	identification = 72
)

// ParseFormat accepts "fixed", "free" and "" (fixed).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatFixed:
		return FormatFixed, nil
	case FormatFree:
		return FormatFree, nil
	}
	return FormatFixed, fmt.Errorf("invalid source format: %q (expected: fixed|free)", s)
}

// Clean blanks everything that is not code: the sequence and identification
// areas and comment lines in fixed format, floating comments in both. Cells
// are blanked, never removed, so columns do not move. The document is left
// uncommitted.
func Clean(doc *mapping.Document, format Format) error {
	var errs []error
	for i := range doc.CurrentLineCount() {
		for _, span := range masked([]rune(doc.CurrentLine(i)), format) {
			if err := doc.Clear(source.NewRange(i, span[0], i, span[1])); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// masked returns inclusive column spans to blank.
func masked(rs []rune, format Format) [][2]int {
	n := len(rs)
	if n == 0 {
		return nil
	}
	var out [][2]int
	lo, hi := 0, n
	if format != FormatFree {
		if n > indicatorCol && (rs[indicatorCol] == '*' || rs[indicatorCol] == '/') {
			return [][2]int{{0, n - 1}}
		}
		if seq := min(n, sequenceWidth); !blank(rs[:seq]) {
			out = append(out, [2]int{0, seq - 1})
		}
		if n > identification && !blank(rs[identification:]) {
			out = append(out, [2]int{identification, n - 1})
		}
		lo, hi = min(n, indicatorCol+1), min(n, identification)
	}
	if c := floatingComment(rs[lo:hi]); c >= 0 {
		out = append(out, [2]int{lo + c, hi - 1})
	}
	return out
}

// floatingComment finds a `*>` outside of literals.
func floatingComment(rs []rune) int {
	var quote rune
	for i, r := range rs {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '*' && i+1 < len(rs) && rs[i+1] == '>':
			return i
		}
	}
	return -1
}

func blank(rs []rune) bool {
	return strings.TrimSpace(string(rs)) == ""
}
