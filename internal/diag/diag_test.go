package diag

import (
	"errors"
	"testing"

	"cobolfront/internal/source"
)

func loc(uri string, line, char int) source.Location {
	return source.Location{URI: uri, Range: source.NewRange(line, char, line, char)}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewWarning(CopybookNameTooLong, loc("b", 0, 0), "w"))
	bag.Add(NewError(CopybookMissing, loc("a", 2, 0), "late"))
	bag.Add(NewError(CopybookMissing, loc("a", 1, 4), "early"))
	bag.Add(NewError(CopybookMissing, loc("a", 1, 4), "early again"))
	bag.Add(NewWarning(CopybookNameHyphen, loc("a", 1, 4), "same place"))

	bag.Sort()
	got := bag.Items()
	if got[0].Message != "early" || got[2].Message != "same place" || got[4].Primary.URI != "b" {
		t.Fatalf("unexpected order: %+v", got)
	}

	bag.Dedup()
	if bag.Len() != 4 {
		t.Fatalf("Len after Dedup = %d, want 4", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("expected errors and warnings")
	}

	bag.Filter(SevError)
	if bag.Len() != 2 {
		t.Fatalf("Len after Filter = %d, want 2", bag.Len())
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	n := bag.AddAll([]Diagnostic{
		NewError(CopybookMissing, loc("a", 0, 0), "1"),
		NewError(CopybookMissing, loc("a", 1, 0), "2"),
		NewError(CopybookMissing, loc("a", 2, 0), "3"),
	})
	if n != 2 || bag.Len() != 2 {
		t.Fatalf("added %d, len %d", n, bag.Len())
	}

	other := NewBag(5)
	other.Add(NewError(CopybookMissing, loc("b", 0, 0), "4"))
	bag.Merge(other)
	if bag.Len() != 3 || bag.Cap() != 3 {
		t.Fatalf("after Merge len=%d cap=%d", bag.Len(), bag.Cap())
	}
}

func TestResultUnwrap(t *testing.T) {
	var acc []Diagnostic
	r := With("body", NewWarning(CopybookNameTooLong, loc("a", 0, 0), "long"))
	if v := r.Unwrap(&acc); v != "body" || len(acc) != 1 {
		t.Fatalf("Unwrap = %q, acc = %v", v, acc)
	}
	if r.Failed() {
		t.Fatal("warning-only result reported as failed")
	}
	if !With(0, NewError(CopybookMissing, loc("a", 0, 0), "x")).Failed() {
		t.Fatal("error result not reported as failed")
	}
	if v := Ok(3).Unwrap(&acc); v != 3 || len(acc) != 1 {
		t.Fatalf("Ok.Unwrap = %d, acc = %v", v, acc)
	}
}

func TestRelocate(t *testing.T) {
	d := NewError(DialectSyntax, loc("expanded", 3, 1), "bad")
	moved := d.Relocate(func(source.Range) (source.Location, error) {
		return loc("orig", 1, 1), nil
	}, "doc")
	if moved.Primary != loc("orig", 1, 1) || len(moved.Notes) != 0 {
		t.Fatalf("Relocate = %+v", moved)
	}

	failed := d.Relocate(func(source.Range) (source.Location, error) {
		return source.Location{}, errors.New("boom")
	}, "doc")
	if failed.Primary != (source.Location{URI: "doc"}) || len(failed.Notes) != 1 {
		t.Fatalf("Relocate failure = %+v", failed)
	}
	if failed.Code != DialectSyntax {
		t.Fatalf("code changed to %v", failed.Code)
	}
}

func TestDedupReporter(t *testing.T) {
	var items []Diagnostic
	r := NewDedupReporter(SliceReporter{Items: &items})
	ReportError(r, CopybookMissing, loc("a", 0, 0), "missing").Emit()
	ReportError(r, CopybookMissing, loc("a", 0, 0), "missing").Emit()
	ReportWarning(r, CopybookNameTooLong, loc("a", 0, 0), "long").
		WithNote(loc("b", 1, 1), "declared here").
		Emit()
	if len(items) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(items))
	}
	if len(items[1].Notes) != 1 {
		t.Fatalf("note lost: %+v", items[1])
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"error": SevError, "Warn": SevWarning, "INFO": SevInfo} {
		got, ok := ParseSeverity(in)
		if !ok || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseSeverity("fatal"); ok {
		t.Error("unexpected success for fatal")
	}
}
