package copybook

import (
	"context"
	"errors"
	"fmt"

	"cobolfront/internal/source"
)

// ErrNotFound is returned by providers that do not know a copybook.
var ErrNotFound = errors.New("copybook not found")

// Config carries per-run copybook settings.
type Config struct {
	// MaxNameLength limits copybook names, 0 disables the check.
	MaxNameLength int
	// SourceFormat is handed to nested expansions ("fixed" or "free").
	SourceFormat string
}

// Model is a resolved copybook.
type Model struct {
	Name    Name
	URI     string
	Content string
}

// ContentProvider resolves copybook text. programURI is the root program,
// documentURI the document holding the COPY statement. Implementations must
// be safe for concurrent use; independent programs are expanded in parallel.
type ContentProvider interface {
	Read(ctx context.Context, cfg Config, name Name, programURI, documentURI string) (Model, error)
}

// MapProvider serves copybooks from memory, keyed by qualified name.
type MapProvider struct {
	Copybooks map[string]string
	// Scheme of the produced URIs, "mem" when empty. Use source.ImplicitScheme
	// for boilerplate that must not be reported as a definition.
	Scheme string
}

// NewMapProvider builds a provider over name -> content pairs.
func NewMapProvider(copybooks map[string]string) *MapProvider {
	m := &MapProvider{Copybooks: make(map[string]string, len(copybooks))}
	for name, content := range copybooks {
		m.Copybooks[NewName(name).Qualified()] = content
	}
	return m
}

func (m *MapProvider) Read(ctx context.Context, _ Config, name Name, _, _ string) (Model, error) {
	if err := ctx.Err(); err != nil {
		return Model{}, err
	}
	q := name.Qualified()
	content, ok := m.Copybooks[q]
	if !ok {
		return Model{}, fmt.Errorf("%s: %w", name.Display, ErrNotFound)
	}
	return Model{Name: name, URI: m.uri(q), Content: content}, nil
}

func (m *MapProvider) uri(qualified string) string {
	scheme := m.Scheme
	if scheme == "" {
		scheme = "mem"
	}
	if scheme == source.ImplicitScheme {
		return scheme + ":" + qualified
	}
	return scheme + ":///" + qualified + ".cpy"
}
