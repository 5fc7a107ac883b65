package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"cobolfront/internal/diag"
	"cobolfront/internal/source"
)

const progURI = "file:///home/user/project/src/PROG.cbl"

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	d := diag.NewError(
		diag.CopybookMissing,
		source.Location{URI: progURI, Range: source.NewRange(1, 16, 1, 21)},
		"ABCDEF: Copybook not found",
	).WithNote(source.Location{URI: progURI, Range: source.NewRange(0, 7, 0, 10)}, "included from here")
	bag.Add(d)
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag := sampleBag()
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/PROG.cbl:2:17"},
		{"Relative path", PathModeRelative, "src/PROG.cbl:2:17"},
		{"Basename only", PathModeBasename, "PROG.cbl:2:17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, nil, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR CPY1004") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettyContextAndCaret(t *testing.T) {
	src := MapSources{progURI: "       COPY X.\n           COPY ABCDEF.\n"}
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), src, PrettyOpts{
		PathMode:  PathModeBasename,
		Context:   1,
		ShowNotes: true,
	})
	want := "PROG.cbl:2:17: ERROR CPY1004: ABCDEF: Copybook not found\n" +
		" 1 | " + "       COPY X.\n" +
		" 2 | " + "           COPY ABCDEF.\n" +
		"   | " + strings.Repeat(" ", 16) + "^~~~~~\n" +
		"  = note: PROG.cbl:1:8: included from here\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), nil, PrettyOpts{Color: true, PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestClip(t *testing.T) {
	if got := clip("ABCDEFGHIJ", 5); got != "ABCD…" {
		t.Fatalf("clip = %q", got)
	}
	if got := clip("ABC", 0); got != "ABC" {
		t.Fatalf("clip = %q", got)
	}
}
