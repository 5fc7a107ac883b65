package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
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

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newProject(t *testing.T) (dir, program string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, filepath.Join(dir, "cobol.toml"), `
[copybooks]
paths = ["copy"]

[source]
format = "free"
`)
	writeFile(t, filepath.Join(dir, "copy", "ABC.cpy"), "01 ABC-FIELD PIC 9.")
	program = filepath.Join(dir, "prog.cbl")
	writeFile(t, program, "DATA DIVISION.\nCOPY ABC.\nPROCEDURE DIVISION.\n")
	return dir, program
}

func TestExpandCommandJSON(t *testing.T) {
	_, program := newProject(t)

	stdout, stderr, err := execute(t, "expand", "--color", "off", "--format", "json", "--ui", "off", program)
	if err != nil {
		t.Fatalf("expand failed: %v\n%s", err, stderr)
	}
	var doc struct {
		Files []struct {
			Path      string   `json:"path"`
			Expanded  string   `json:"expanded"`
			Copybooks []string `json:"copybooks"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, stdout)
	}
	if len(doc.Files) != 1 {
		t.Fatalf("expected one file, got %d", len(doc.Files))
	}
	f := doc.Files[0]
	if !strings.Contains(f.Expanded, "ABC-FIELD") {
		t.Errorf("copybook not expanded:\n%s", f.Expanded)
	}
	if len(f.Copybooks) != 1 || f.Copybooks[0] != "ABC" {
		t.Errorf("copybooks = %v", f.Copybooks)
	}
}

func TestExpandCommandFailsOnMissingCopybook(t *testing.T) {
	dir, _ := newProject(t)
	broken := filepath.Join(dir, "broken.cbl")
	writeFile(t, broken, "DATA DIVISION.\nCOPY NOPE.\n")

	_, stderr, err := execute(t, "expand", "--color", "off", "--format", "text", "--ui", "off", "--diagnostics-only", broken)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(stderr, "NOPE") {
		t.Fatalf("diagnostic missing from stderr:\n%s", stderr)
	}
}

func TestMapCommand(t *testing.T) {
	dir, program := newProject(t)

	// строка 2 раскрытого текста пришла из ABC.cpy
	stdout, stderr, err := execute(t, "map", "--color", "off", "--format", "text", program, "2:4-2:12")
	if err != nil {
		t.Fatalf("map failed: %v\n%s", err, stderr)
	}
	want := filepath.Join(dir, "copy", "ABC.cpy") + ":1:4-1:12"
	if strings.TrimSpace(stdout) != want {
		t.Fatalf("got %q, want %q", strings.TrimSpace(stdout), want)
	}
}

func TestExpandWarningsAsErrors(t *testing.T) {
	_, program := newProject(t)

	_, stderr, err := execute(t, "expand", "--color", "off", "--format", "text", "--ui", "off",
		"--dialect", "NOSUCH", "--min-severity", "warning", "--warnings-as-errors", program)
	if err == nil {
		t.Fatal("expected failure on the unknown dialect warning")
	}
	if !strings.Contains(stderr, "NOSUCH") {
		t.Fatalf("warning missing from stderr:\n%s", stderr)
	}
}
