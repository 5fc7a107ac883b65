package main

import (
	"path/filepath"
	"testing"

	"cobolfront/internal/source"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    source.Range
		wantErr bool
	}{
		{in: "1:1", want: source.NewRange(0, 0, 0, 0)},
		{in: "3:8-3:15", want: source.NewRange(2, 7, 2, 14)},
		{in: " 2:1-4:72 ", want: source.NewRange(1, 0, 3, 71)},
		{in: "0:1", wantErr: true},
		{in: "1:x", wantErr: true},
		{in: "12", wantErr: true},
		{in: "3:5-2:1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseRange(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseRange(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseRange(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatRangeIsOneBased(t *testing.T) {
	if got := formatRange(source.NewRange(0, 7, 2, 0)); got != "1:8-3:1" {
		t.Fatalf("got %s", got)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(base, "abs")
	got := resolvePaths(base, []string{"copy", "", abs, "a/../b"})
	want := []string{filepath.Join(base, "copy"), abs, filepath.Join(base, "b")}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %d = %s, want %s", i, got[i], want[i])
		}
	}
}
