package copybook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFolderProviderExtensionOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "A.CPY", "A.COPY", "A.cpy", "A.copy", "A")

	tests := []struct {
		extensions []string
		want       string // found file, "" for none
	}{
		{[]string{".xyz", ".copy", ".COPY", ".cpy", ".CPY"}, "A.copy"},
		{[]string{".xyz", ".CPY", ".cpy", ".COPY", ".copy"}, "A.CPY"},
		{[]string{".xyz", ".acd"}, ""},
		{[]string{"", ".copy"}, "A"},
		{[]string{".COPY", ".copy"}, "A.COPY"},
		{[]string{"cpy"}, "A.cpy"},
	}
	for _, tt := range tests {
		p := NewFolderProvider([]string{dir}, tt.extensions)
		m, err := p.Read(context.Background(), Config{}, NewName("a"), "", "")
		if tt.want == "" {
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("%v: expected ErrNotFound, got %v", tt.extensions, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v: %v", tt.extensions, err)
			continue
		}
		if m.Content != tt.want || filepath.Base(m.URI) != tt.want {
			t.Errorf("%v: got %q from %s, want %s", tt.extensions, m.Content, m.URI, tt.want)
		}
		if m.Name.Display != "a" {
			t.Errorf("display name must be kept, got %q", m.Name.Display)
		}
	}
}

func TestFolderProviderFolderOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFiles(t, first, "A.cpy")
	writeFiles(t, second, "A.CPY", "B.cpy")

	p := NewFolderProvider([]string{filepath.Join(first, "missing"), first, second}, []string{".CPY", ".cpy"})
	m, err := p.Read(context.Background(), Config{}, NewName("A"), "", "")
	if err != nil || m.Content != "A.cpy" {
		t.Fatalf("got %q, %v", m.Content, err)
	}
	m, err = p.Read(context.Background(), Config{}, NewName("B"), "", "")
	if err != nil || m.Content != "B.cpy" || m.Name.Extension != "cpy" {
		t.Fatalf("got %+v, %v", m, err)
	}
}

func TestFolderProviderInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "A.cpy")
	p := NewFolderProvider([]string{dir}, nil)
	if _, err := p.Read(context.Background(), Config{}, NewName("A"), "", ""); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "A.cpy"), []byte("changed"), 0o600); err != nil {
		t.Fatal(err)
	}
	m, _ := p.Read(context.Background(), Config{}, NewName("A"), "", "")
	if m.Content != "A.cpy" {
		t.Fatalf("cached content expected, got %q", m.Content)
	}
	p.Invalidate("A")
	m, _ = p.Read(context.Background(), Config{}, NewName("A"), "", "")
	if m.Content != "changed" {
		t.Fatalf("Invalidate kept %q", m.Content)
	}
}

func TestNameOf(t *testing.T) {
	p := NewFolderProvider(nil, []string{".cpy", ""})
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/x/abc.cpy", "ABC", true},
		{"/x/ABC", "ABC", true},
		{"/x/abc.txt", "", false},
		{"/x/.cpy", "", false},
	}
	for _, tt := range tests {
		got, ok := p.NameOf(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NameOf(%q) = %q, %v", tt.path, got, ok)
		}
	}
}

func TestWatcherInvalidates(t *testing.T) {
	dir := t.TempDir()
	p := NewFolderProvider([]string{dir}, []string{".cpy"})
	if _, err := p.Read(context.Background(), Config{}, NewName("NEW"), "", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	w, err := NewWatcher(p)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFiles(t, dir, "new.cpy")
	select {
	case name := <-w.Changes():
		if name != "NEW" {
			t.Fatalf("change for %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	m, err := p.Read(context.Background(), Config{}, NewName("NEW"), "", "")
	if err != nil || m.Content != "new.cpy" {
		t.Fatalf("got %q, %v", m.Content, err)
	}
}
