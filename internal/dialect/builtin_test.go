package dialect

import (
	"context"
	"testing"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
)

func newContext(text string, books map[string]string) *Context {
	const uri = "file:///p.cbl"
	return &Context{
		Document:   mapping.NewDocument(text, uri),
		ProgramURI: uri,
		Hierarchy:  copybook.NewHierarchy(uri),
		Copybooks:  copybook.NewRepository(),
		Injector:   &copybook.Injector{Provider: copybook.NewMapProvider(books)},
	}
}

func TestIDMSInjectsCopybooks(t *testing.T) {
	pc := newContext("       COPY IDMS REC1.\n       PROCEDURE DIVISION.", map[string]string{
		"REC1": "       01 REC1-FIELD PIC X.",
	})
	s := NewService(nil, Builtins()...)
	res := s.Process(context.Background(), []string{"IDMS"}, pc)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
	if got := pc.Document.String(); got != "       01 REC1-FIELD PIC X.\n       PROCEDURE DIVISION." {
		t.Fatalf("document = %q", got)
	}
	loc, err := pc.Document.MapLocation(source.NewRange(0, 10, 0, 19))
	if err != nil {
		t.Fatal(err)
	}
	if loc.URI != "mem:///REC1.cpy" {
		t.Fatalf("mapped to %v", loc)
	}

	var usage, stmt int
	for _, n := range res.Value {
		switch n.Kind {
		case syntax.KindCopybookUsage:
			usage++
			want := source.Location{URI: "file:///p.cbl", Range: source.NewRange(0, 17, 0, 20)}
			if n.Name != "REC1" || n.Dialect != IDMSName || n.Location != want {
				t.Errorf("usage node = %v", n)
			}
		case syntax.KindCopyStatement:
			stmt++
			if n.Location.Range != source.NewRange(0, 7, 0, 21) {
				t.Errorf("statement node = %v", n)
			}
		}
	}
	if usage != 1 || stmt != 1 {
		t.Fatalf("nodes = %v", res.Value)
	}
}

func TestIDMSMissingName(t *testing.T) {
	pc := newContext("       COPY IDMS .\n       MOVE 1 TO X.", nil)
	s := NewService(nil, Builtins()...)
	res := s.Process(context.Background(), []string{"IDMS"}, pc)
	if len(res.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Code != diag.DialectSyntax || d.Primary.Range != source.NewRange(0, 7, 0, 17) {
		t.Fatalf("diagnostic = %+v", d)
	}
	if pc.Document.String() != pc.Document.Original() {
		t.Fatal("document changed")
	}
}

func TestDaCoRunsBeforeIDMS(t *testing.T) {
	s := NewService(nil, Builtins()...)
	got, err := s.Order([]string{IDMSName, DaCoName})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name() != DaCoName || got[1].Name() != IDMSName {
		t.Fatalf("Order = %v", names(got))
	}
}

func TestMissingDialectCopybookIsReported(t *testing.T) {
	pc := newContext("       COPY MAID NOPE.", nil)
	s := NewService(nil, Builtins()...)
	res := s.Process(context.Background(), []string{DaCoName}, pc)
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != diag.CopybookMissing {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
	if got := res.Diagnostics[0].Primary.Range; got != source.NewRange(0, 17, 0, 20) {
		t.Fatalf("range = %v", got)
	}
}
