package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/project"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты раскрытия программ по ключу содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedCopybook pins the content a cached expansion was built from.
type CachedCopybook struct {
	URI  string
	Hash project.Digest
}

// DiskPayload is everything an expansion produced except the mapping
// itself. A cached program can be printed and diagnosed, not remapped.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	Expanded    string
	Diagnostics []diag.Diagnostic
	Entries     []copybook.Entry
	Nodes       []syntax.Node

	// Copybook definitions with the hash of their content at expansion time.
	Copybooks []CachedCopybook
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "expansions", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// Lookup returns a payload only when it was written by this schema and
// every copybook it was expanded from still has the same content.
func (c *DiskCache) Lookup(key project.Digest) (*DiskPayload, bool) {
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok || payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	for _, cb := range payload.Copybooks {
		h, ok := hashURI(cb.URI)
		if !ok || h != cb.Hash {
			return nil, false
		}
	}
	return &payload, true
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheKey: H(content || settings). Settings cover everything that changes
// the expansion of identical text.
func cacheKey(content []byte, opts *Options) project.Digest {
	enabled := append([]string(nil), opts.Enabled...)
	sort.Strings(enabled)

	parts := []string{
		"dialects=" + strings.Join(enabled, ","),
		"format=" + opts.Config.SourceFormat,
		"max-name=" + strconv.Itoa(opts.Config.MaxNameLength),
	}
	if fp, ok := opts.Provider.(*copybook.FolderProvider); ok {
		parts = append(parts,
			"folders="+strings.Join(fp.Folders(), string(os.PathListSeparator)),
			"extensions="+strings.Join(fp.Extensions(), ","))
	}
	settings := project.Hash([]byte(strings.Join(parts, "\n")))
	return project.Combine(project.Hash(content), settings)
}

func toPayload(res *FileResult) (*DiskPayload, bool) {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        res.Path,
		Expanded:    res.Expanded,
		Diagnostics: res.Bag.Items(),
		Entries:     res.Copybooks.Entries(),
		Nodes:       res.Nodes,
	}
	for _, uri := range res.Copybooks.DefinitionURIs() {
		h, ok := hashURI(uri)
		if !ok {
			// определение без файла на диске (память, implicit) не проверить
			return nil, false
		}
		payload.Copybooks = append(payload.Copybooks, CachedCopybook{URI: uri, Hash: h})
	}
	return payload, true
}

func hashURI(uri string) (project.Digest, bool) {
	path := source.URIToPath(uri)
	if path == "" {
		return project.Digest{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return project.Digest{}, false
	}
	return project.Hash(data), true
}
