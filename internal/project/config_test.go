package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[copybooks]
paths = ["copy", "/abs/books"]
extensions = [".cpy", ""]
max-name-length = 8

[source]
format = "free"

[dialects]
enabled = ["IDMS"]

[[dialects.registry]]
name = "EJECT"
path = "dialects/eject.lua"
`)
	nested := filepath.Join(root, "src", "batch")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	p, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if p.Root != root {
		t.Fatalf("Root = %q", p.Root)
	}
	folders := p.CopybookFolders()
	if !slices.Equal(folders, []string{filepath.Join(root, "copy"), filepath.Clean("/abs/books")}) {
		t.Fatalf("CopybookFolders = %v", folders)
	}
	items := p.RegistryItems()
	if len(items) != 1 || items[0].Name != "EJECT" || items[0].Path != filepath.Join(root, "dialects", "eject.lua") {
		t.Fatalf("RegistryItems = %+v", items)
	}
	cc := p.Config.CopybookConfig()
	if cc.MaxNameLength != 8 || cc.SourceFormat != "free" {
		t.Fatalf("CopybookConfig = %+v", cc)
	}
	if !slices.Equal(p.Config.Dialects.Enabled, []string{"IDMS"}) {
		t.Fatalf("Enabled = %v", p.Config.Dialects.Enabled)
	}
}

func TestLoadWithoutConfig(t *testing.T) {
	p, ok, err := Load(t.TempDir())
	if err != nil || ok || p != nil {
		t.Fatalf("Load = %v, %v, %v", p, ok, err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), "[dialects]\nenabled = []\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source.Format != "fixed" || !slices.Equal(cfg.Copybooks.Paths, []string{"."}) {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "format", content: "[source]\nformat = \"variable\"\n", want: ErrInvalidFormat},
		{name: "registry", content: "[[dialects.registry]]\nname = \"X\"\n", want: ErrRegistryEntry},
		{name: "unknown key", content: "[copybooks]\nfolders = [\"x\"]\n"},
		{name: "negative length", content: "[copybooks]\nmax-name-length = -1\n"},
		{name: "syntax", content: "[copybooks\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, t.TempDir(), tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadPrefersNearestConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[source]\nformat = \"fixed\"\n")
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(filepath.Join(sub, "deeper"), 0o755); err != nil {
		t.Fatal(err)
	}
	nearest := writeConfig(t, sub, "[source]\nformat = \"free\"\n")

	p, ok, err := Load(filepath.Join(sub, "deeper"))
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if p.Path != nearest || p.Root != sub {
		t.Fatalf("Path = %q, Root = %q", p.Path, p.Root)
	}
	if p.Config.CopybookConfig().SourceFormat != "free" {
		t.Fatalf("format = %q", p.Config.CopybookConfig().SourceFormat)
	}
}
