package preprocess

import (
	"strings"
	"testing"

	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
)

func TestCleanFixedFormat(t *testing.T) {
	code := " IDENTIFICATION DIVISION."
	line0 := "000100" + code + strings.Repeat(" ", 72-6-len(code)) + "PROG0001"
	text := line0 + "\n000200*A COMMENT\n       MOVE 1 TO X. *> note\n  "
	doc := mapping.NewDocument(text, "file:///p.cbl")
	if err := Clean(doc, FormatFixed); err != nil {
		t.Fatal(err)
	}
	doc.Commit()

	want := []string{
		"      " + code + strings.Repeat(" ", 72-6-len(code)) + "        ",
		strings.Repeat(" ", 16),
		"       MOVE 1 TO X.        ",
		"  ",
	}
	if got := doc.String(); got != strings.Join(want, "\n") {
		t.Fatalf("cleaned:\n%q\nwant:\n%q", got, strings.Join(want, "\n"))
	}
	loc, err := doc.MapLocation(source.NewRange(0, 7, 0, 20))
	if err != nil {
		t.Fatal(err)
	}
	if loc.URI != "file:///p.cbl" || loc.Range != source.NewRange(0, 7, 0, 20) {
		t.Fatalf("MapLocation = %v", loc)
	}
}

func TestCleanFreeFormat(t *testing.T) {
	doc := mapping.NewDocument("000100 MOVE '*>' TO X. *> c\n*> whole", "file:///p.cbl")
	if err := Clean(doc, FormatFree); err != nil {
		t.Fatal(err)
	}
	doc.Commit()
	if got := doc.String(); got != "000100 MOVE '*>' TO X.     \n        " {
		t.Fatalf("cleaned = %q", got)
	}
}

func TestCleanUntouchedDocumentStaysCommitted(t *testing.T) {
	doc := mapping.NewDocument("       MOVE 1 TO X.", "file:///p.cbl")
	if err := Clean(doc, FormatFixed); err != nil {
		t.Fatal(err)
	}
	if doc.Commit() {
		t.Fatal("clean source was edited")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatFixed, "FIXED": FormatFixed, " free ": FormatFree} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("variable"); err == nil {
		t.Error("expected error")
	}
}
