package project

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"cobolfront/internal/copybook"
	"cobolfront/internal/dialect"
)

// ConfigFileName is the project configuration file.
const ConfigFileName = "cobol.toml"

var (
	// ErrInvalidFormat indicates an unknown [source].format.
	ErrInvalidFormat = errors.New("invalid [source].format")
	// ErrRegistryEntry indicates a [[dialects.registry]] entry without name or path.
	ErrRegistryEntry = errors.New("[[dialects.registry]] needs name and path")
)

// Config is the content of cobol.toml.
type Config struct {
	Copybooks CopybooksConfig `toml:"copybooks"`
	Source    SourceConfig    `toml:"source"`
	Dialects  DialectsConfig  `toml:"dialects"`
}

type CopybooksConfig struct {
	Paths      []string `toml:"paths"`
	Extensions []string `toml:"extensions"`
	// MaxNameLength 0 disables the check.
	MaxNameLength int `toml:"max-name-length"`
}

type SourceConfig struct {
	Format string `toml:"format"` // fixed | free
}

type DialectsConfig struct {
	Enabled  []string        `toml:"enabled"`
	Registry []RegistryEntry `toml:"registry"`
}

type RegistryEntry struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Default is used when no cobol.toml is found.
func Default() Config {
	return Config{
		Copybooks: CopybooksConfig{Paths: []string{"."}},
		Source:    SourceConfig{Format: "fixed"},
	}
}

// Project is a loaded cobol.toml.
type Project struct {
	Path   string
	Root   string
	Config Config
}

// Load finds and parses the configuration above startDir. ok is false when
// there is none; the caller then uses Default.
func Load(startDir string) (*Project, bool, error) {
	configPath, ok, err := findConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, true, err
	}
	return &Project{Path: configPath, Root: filepath.Dir(configPath), Config: cfg}, true, nil
}

// findConfig returns the nearest cobol.toml in startDir or its ancestors.
func findConfig(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ConfigFileName)
		_, err := os.Stat(candidate)
		switch {
		case err == nil:
			return candidate, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		case filepath.Dir(dir) == dir:
			return "", false, nil
		}
	}
}

// LoadConfig parses one cobol.toml. Missing sections keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("source", "format") {
		switch strings.ToLower(strings.TrimSpace(cfg.Source.Format)) {
		case "fixed", "free":
		default:
			return Config{}, fmt.Errorf("%s: %w: %q", path, ErrInvalidFormat, cfg.Source.Format)
		}
	}
	if cfg.Copybooks.MaxNameLength < 0 {
		return Config{}, fmt.Errorf("%s: [copybooks].max-name-length must not be negative", path)
	}
	for i, e := range cfg.Dialects.Registry {
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Path) == "" {
			return Config{}, fmt.Errorf("%s: entry %d: %w", path, i+1, ErrRegistryEntry)
		}
	}
	return cfg, nil
}

// CopybookConfig is the per-run copybook settings.
func (c Config) CopybookConfig() copybook.Config {
	return copybook.Config{
		MaxNameLength: c.Copybooks.MaxNameLength,
		SourceFormat:  strings.ToLower(strings.TrimSpace(c.Source.Format)),
	}
}

// CopybookFolders resolves the copybook paths against the project root.
func (p *Project) CopybookFolders() []string {
	return resolve(p.Root, p.Config.Copybooks.Paths)
}

// RegistryItems resolves dialect script paths against the project root.
func (p *Project) RegistryItems() []dialect.RegistryItem {
	out := make([]dialect.RegistryItem, 0, len(p.Config.Dialects.Registry))
	for _, e := range p.Config.Dialects.Registry {
		out = append(out, dialect.RegistryItem{Name: e.Name, Path: resolve(p.Root, []string{e.Path})[0]})
	}
	return out
}

func resolve(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = filepath.FromSlash(strings.TrimSpace(p))
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}
