package diagfmt

import (
	"os"
	"sync"

	"cobolfront/internal/source"
)

// Sources gives the formatter the original text of a document for context
// lines. Diagnostics point at original coordinates, so this is user text,
// never the expanded one.
type Sources interface {
	Lines(uri string) ([]string, bool)
}

// MapSources serves texts held in memory.
type MapSources map[string]string

func (m MapSources) Lines(uri string) ([]string, bool) {
	text, ok := m[uri]
	if !ok {
		return nil, false
	}
	lines, _ := source.SplitLines(text)
	return lines, true
}

// FileSources reads file:// documents lazily and remembers them.
type FileSources struct {
	mu    sync.Mutex
	cache map[string][]string
}

func NewFileSources() *FileSources {
	return &FileSources{cache: make(map[string][]string)}
}

func (f *FileSources) Lines(uri string) ([]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lines, ok := f.cache[uri]; ok {
		return lines, lines != nil
	}
	path := source.URIToPath(uri)
	if path == "" {
		f.cache[uri] = nil
		return nil, false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		f.cache[uri] = nil
		return nil, false
	}
	content, _ = source.RemoveBOM(content)
	lines, _ := source.SplitLines(string(content))
	f.cache[uri] = lines
	return lines, true
}
