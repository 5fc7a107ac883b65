package source

import "testing"

func TestComparePositions(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Pos(0, 0), Pos(0, 0), 0},
		{Pos(0, 1), Pos(0, 2), -1},
		{Pos(2, 0), Pos(1, 9), 1},
		{Pos(1, 5), Pos(1, 4), 1},
	}
	for _, tt := range tests {
		if got := ComparePositions(tt.a, tt.b); got != tt.want {
			t.Errorf("ComparePositions(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRangeHelpers(t *testing.T) {
	r := NewRange(3, 4, 1, 2).Normalize()
	if r.Start != Pos(1, 2) || r.End != Pos(3, 4) {
		t.Fatalf("Normalize = %v", r)
	}
	if r.SingleLine() {
		t.Fatal("range spans three lines")
	}
	if r.LineSpan() != 3 {
		t.Fatalf("LineSpan = %d", r.LineSpan())
	}
	if !r.Contains(Pos(2, 100)) || r.Contains(Pos(3, 5)) {
		t.Fatal("Contains gave wrong answer")
	}
	if !r.OverlapsLines(NewRange(3, 9, 4, 0)) || r.OverlapsLines(NewRange(4, 0, 4, 1)) {
		t.Fatal("OverlapsLines gave wrong answer")
	}
	if got := r.Cover(NewRange(0, 0, 0, 1)); got.Start != Pos(0, 0) || got.End != Pos(3, 4) {
		t.Fatalf("Cover = %v", got)
	}
}
