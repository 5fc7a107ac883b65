package copybook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"cobolfront/internal/source"
)

// DefaultExtensions are tried when a FolderProvider gets none.
var DefaultExtensions = []string{".cpy", ".CPY", ".cbl", ".CBL", ".cob", ".COB", ""}

// FolderProvider resolves copybooks against local folders.
//
// Folders are searched in order; within a folder the configured extensions
// are tried in order and the first file found wins. Extensions are matched
// exactly, "" means a file without extension. The file stem is compared by
// qualified name, so "abc.cpy" satisfies COPY ABC.
type FolderProvider struct {
	folders    []string
	extensions []string

	mu       sync.RWMutex
	listings map[string][]string // folder -> file names
	models   map[string]Model    // qualified name -> model

	group singleflight.Group
}

// NewFolderProvider creates a provider. Extensions without a leading dot get
// one.
func NewFolderProvider(folders, extensions []string) *FolderProvider {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return &FolderProvider{
		folders:    append([]string(nil), folders...),
		extensions: exts,
		listings:   make(map[string][]string),
		models:     make(map[string]Model),
	}
}

// Folders returns the searched folders.
func (p *FolderProvider) Folders() []string {
	return append([]string(nil), p.folders...)
}

// Extensions returns the normalised extension order.
func (p *FolderProvider) Extensions() []string {
	return append([]string(nil), p.extensions...)
}

func (p *FolderProvider) Read(ctx context.Context, _ Config, name Name, _, _ string) (Model, error) {
	if err := ctx.Err(); err != nil {
		return Model{}, err
	}
	q := name.Qualified()
	if q == "" {
		return Model{}, ErrNotFound
	}

	p.mu.RLock()
	m, ok := p.models[q]
	p.mu.RUnlock()
	if ok {
		m.Name.Display, m.Name.Dialect = name.Display, name.Dialect
		return m, nil
	}

	// параллельные файлы часто тянут одну и ту же копибуку
	v, err, _ := p.group.Do(q, func() (any, error) {
		return p.load(q)
	})
	if err != nil {
		return Model{}, fmt.Errorf("%s: %w", name.Display, err)
	}
	m = v.(Model)
	m.Name.Display, m.Name.Dialect = name.Display, name.Dialect
	return m, nil
}

func (p *FolderProvider) load(qualified string) (Model, error) {
	path, ext, ok := p.find(qualified)
	if !ok {
		return Model{}, ErrNotFound
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Model{}, ErrNotFound
		}
		return Model{}, err
	}
	data, _ = source.RemoveBOM(data)
	m := Model{
		Name:    Name{Display: qualified, Extension: strings.TrimPrefix(ext, ".")},
		URI:     source.PathToURI(path),
		Content: string(data),
	}
	p.mu.Lock()
	p.models[qualified] = m
	p.mu.Unlock()
	return m, nil
}

// find walks folders then extensions.
func (p *FolderProvider) find(qualified string) (path, ext string, ok bool) {
	for _, folder := range p.folders {
		files := p.listing(folder)
		for _, e := range p.extensions {
			for _, file := range files {
				if !strings.HasSuffix(file, e) || (e == "" && strings.Contains(file, ".")) {
					continue
				}
				if NewName(strings.TrimSuffix(file, e)).Qualified() == qualified {
					return filepath.Join(folder, file), e, true
				}
			}
		}
	}
	return "", "", false
}

func (p *FolderProvider) listing(folder string) []string {
	p.mu.RLock()
	files, ok := p.listings[folder]
	p.mu.RUnlock()
	if ok {
		return files
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		// отсутствующая папка просто ничего не даёт
		entries = nil
	}
	files = make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	p.mu.Lock()
	p.listings[folder] = files
	p.mu.Unlock()
	return files
}

// Invalidate forgets a cached copybook and every folder listing, so added,
// renamed and removed files are seen by the next Read.
func (p *FolderProvider) Invalidate(qualified string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.models, qualified)
	clear(p.listings)
}

// InvalidateAll drops every cached entry.
func (p *FolderProvider) InvalidateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.models)
	clear(p.listings)
}

// NameOf returns the qualified copybook name a file in one of the folders
// stands for, or false when its extension is not configured.
func (p *FolderProvider) NameOf(path string) (string, bool) {
	file := filepath.Base(path)
	for _, ext := range p.extensions {
		if ext == "" {
			if !strings.Contains(file, ".") {
				return NewName(file).Qualified(), true
			}
			continue
		}
		if strings.HasSuffix(file, ext) && len(file) > len(ext) {
			return NewName(strings.TrimSuffix(file, ext)).Qualified(), true
		}
	}
	return "", false
}
