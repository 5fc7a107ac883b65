package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

const (
	EOL     = "\n"
	EOLCRLF = "\r\n"
)

// DetectEOL returns the first line terminator found in text, "\n" by default.
func DetectEOL(text string) string {
	idx := strings.IndexByte(text, '\n')
	if idx > 0 && text[idx-1] == '\r' {
		return EOLCRLF
	}
	return EOL
}

// SplitLines breaks text into lines without terminators.
// A single trailing terminator is dropped, so "a\nb\n" and "a\nb" both give
// two lines. Empty text is one empty line.
func SplitLines(text string) (lines []string, eol string) {
	eol = DetectEOL(text)
	lines = strings.Split(text, "\n")
	if eol == EOLCRLF {
		for i, line := range lines {
			lines[i] = strings.TrimSuffix(line, "\r")
		}
	}
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, eol
}

// JoinLines is the inverse of SplitLines for text without a trailing terminator.
func JoinLines(lines []string, eol string) string {
	if eol == "" {
		eol = EOL
	}
	return strings.Join(lines, eol)
}

// RemoveBOM strips a UTF-8 byte order mark.
func RemoveBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// LineIndex resolves byte offsets of a rendered text into rune positions.
type LineIndex struct {
	text   string
	starts []uint32 // смещение начала каждой строки
}

// NewLineIndex indexes text. Both "\n" and "\r\n" terminators are handled;
// a "\r" before "\n" is never counted as a column.
func NewLineIndex(text string) *LineIndex {
	starts := make([]uint32, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		starts = append(starts, off)
	}
	return &LineIndex{text: text, starts: starts}
}

// LineCount returns the number of indexed lines.
func (idx *LineIndex) LineCount() int {
	return len(idx.starts)
}

// Position converts a byte offset into a zero-based rune position.
func (idx *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.text) {
		offset = len(idx.text)
	}
	off, err := safecast.Conv[uint32](offset)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	// бинпоиск: наибольший starts[i] <= off
	lo, hi := 0, len(idx.starts)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if idx.starts[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := max(hi, 0)
	start := int(idx.starts[line])
	return Position{Line: line, Character: utf8.RuneCountInString(idx.text[start:offset])}
}

// Range converts a half-open byte interval [start, end) into an inclusive range.
func (idx *LineIndex) Range(start, end int) Range {
	last := end - 1
	if last < start {
		last = start
	}
	// последний байт может оказаться серединой руны, откатываемся к её началу
	for last > start && !utf8.RuneStart(idx.text[last]) {
		last--
	}
	return Range{Start: idx.Position(start), End: idx.Position(last)}
}
