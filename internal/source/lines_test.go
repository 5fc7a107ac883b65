package source

import (
	"testing"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		lines int
		eol   string
	}{
		{name: "lf", text: "a\nb\nc", lines: 3, eol: EOL},
		{name: "crlf", text: "     0 LINE\r\n     1 LINE", lines: 2, eol: EOLCRLF},
		{name: "single", text: "TEXT", lines: 1, eol: EOL},
		{name: "empty", text: "", lines: 1, eol: EOL},
		{name: "blank lines", text: "a\n\n\nb", lines: 4, eol: EOL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, eol := SplitLines(tt.text)
			if len(lines) != tt.lines {
				t.Fatalf("got %d lines, want %d (%q)", len(lines), tt.lines, lines)
			}
			if eol != tt.eol {
				t.Fatalf("eol = %q, want %q", eol, tt.eol)
			}
			if got := JoinLines(lines, eol); got != tt.text {
				t.Fatalf("round trip = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestSplitLinesDropsOneTrailingTerminator(t *testing.T) {
	lines, eol := SplitLines("A\r\nB\r\n")
	if len(lines) != 2 || lines[0] != "A" || lines[1] != "B" {
		t.Fatalf("unexpected lines %q", lines)
	}
	if eol != EOLCRLF {
		t.Fatalf("eol = %q", eol)
	}
}

func TestLineIndexPositions(t *testing.T) {
	text := "ab\nсде\r\nxyz"
	idx := NewLineIndex(text)
	if idx.LineCount() != 3 {
		t.Fatalf("LineCount = %d", idx.LineCount())
	}

	cases := []struct {
		offset int
		want   Position
	}{
		{0, Pos(0, 0)},
		{1, Pos(0, 1)},
		{3, Pos(1, 0)},
		{5, Pos(1, 1)}, // второй кириллический символ
		{len("ab\nсде\r\n"), Pos(2, 0)},
		{len(text), Pos(2, 3)},
	}
	for _, c := range cases {
		if got := idx.Position(c.offset); got != c.want {
			t.Errorf("Position(%d) = %v, want %v", c.offset, got, c.want)
		}
	}
}

func TestLineIndexRangeIsInclusive(t *testing.T) {
	text := "  COPY ABC.\n"
	idx := NewLineIndex(text)
	r := idx.Range(2, 11)
	want := NewRange(0, 2, 0, 10)
	if r != want {
		t.Fatalf("Range = %v, want %v", r, want)
	}
}

func TestImplicitURI(t *testing.T) {
	if !IsImplicitURI("implicit:/SPECIALREGISTERS") {
		t.Fatal("expected implicit uri")
	}
	if IsImplicitURI("file:///tmp/a.cbl") {
		t.Fatal("file uri reported as implicit")
	}
}
