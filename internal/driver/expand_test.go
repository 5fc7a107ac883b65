package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/dialect"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func options(dir string) Options {
	return Options{
		Provider: copybook.NewFolderProvider([]string{filepath.Join(dir, "copy")}, nil),
		Dialects: dialect.NewService(nil, dialect.Builtins()...),
		Config:   copybook.Config{SourceFormat: "free"},
		Jobs:     2,
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestListPrograms(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.cbl"), "")
	writeFile(t, filepath.Join(dir, "sub", "a.COB"), "")
	writeFile(t, filepath.Join(dir, "copy", "x.cpy"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	files, err := ListPrograms(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "b.cbl"), filepath.Join(dir, "sub", "a.COB")}
	if strings.Join(files, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v, want %v", files, want)
	}
}

func TestExpandFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "copy", "ABC.cpy"), "01 ABC-FIELD PIC 9.")
	paths := []string{
		filepath.Join(dir, "one.cbl"),
		filepath.Join(dir, "missing.cbl"),
		filepath.Join(dir, "two.cbl"),
	}
	writeFile(t, paths[0], "DATA DIVISION.\nCOPY ABC.\n")
	writeFile(t, paths[2], "DATA DIVISION.\nCOPY NOPE.\n")

	sink := &recordingSink{}
	opts := options(dir)
	opts.Progress = sink
	results, err := ExpandFiles(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Fatalf("result %d is for %s", i, res.Path)
		}
	}

	if !strings.Contains(results[0].Expanded, "ABC-FIELD") {
		t.Errorf("copybook not expanded:\n%s", results[0].Expanded)
	}
	if results[0].Bag.HasErrors() {
		t.Errorf("unexpected errors: %v", results[0].Bag.Items())
	}
	if got := results[0].Copybooks.UsedNames(); len(got) != 1 || got[0] != "ABC" {
		t.Errorf("used copybooks: %v", got)
	}
	if !hasCode(results[1].Bag, diag.IOLoadFileError) {
		t.Errorf("missing file not reported: %v", results[1].Bag.Items())
	}
	if !hasCode(results[2].Bag, diag.CopybookMissing) {
		t.Errorf("missing copybook not reported: %v", results[2].Bag.Items())
	}

	finished := 0
	for _, evt := range sink.events {
		if evt.Status == StatusDone || evt.Status == StatusError {
			finished++
		}
	}
	if finished != 3 {
		t.Errorf("expected 3 finishing events, got %d", finished)
	}
}

func TestExpandFilesTimings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.cbl")
	writeFile(t, path, "DATA DIVISION.\n")

	opts := options(dir)
	opts.Timings = true
	opts.MaxDiagnostics = 1
	results, err := ExpandFiles(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hasCode(results[0].Bag, diag.ObsTimings) {
		t.Fatalf("no timings diagnostic: %v", results[0].Bag.Items())
	}
	if len(results[0].Timing.Phases) == 0 {
		t.Fatal("timer report is empty")
	}
}

func TestExpandFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.cbl")
	writeFile(t, path, "DATA DIVISION.\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExpandFiles(ctx, []string{path}, options(dir)); err == nil {
		t.Fatal("expected cancellation error")
	}
}
