package copybook

import (
	"slices"

	"cobolfront/internal/source"
)

// Registry receives copybook facts discovered while expanding a program.
type Registry interface {
	Define(name, dialect string, loc source.Location)
	AddUsage(name, dialect string, loc source.Location)
	AddStatement(id, dialect string, loc source.Location)
	Merge(other *Repository)
}

// EntryKind tells what an Entry records.
type EntryKind uint8

const (
	EntryDefinition EntryKind = iota + 1
	EntryUsage
	EntryStatement
)

// Entry is one recorded fact. Name holds the qualified copybook name for
// definitions and usages, the usage id for statements.
type Entry struct {
	Kind     EntryKind       `msgpack:"k"`
	Name     string          `msgpack:"n"`
	Dialect  string          `msgpack:"d"`
	Location source.Location `msgpack:"l"`
}

// Repository is the in-memory Registry. It is owned by one expansion and is
// not safe for concurrent use.
type Repository struct {
	entries []Entry
	seen    map[Entry]struct{}
}

func NewRepository() *Repository {
	return &Repository{seen: make(map[Entry]struct{})}
}

// RepositoryFromEntries rebuilds a repository, e.g. from a cache.
func RepositoryFromEntries(entries []Entry) *Repository {
	r := NewRepository()
	for _, e := range entries {
		r.add(e)
	}
	return r
}

func (r *Repository) Define(name, dialect string, loc source.Location) {
	r.add(Entry{Kind: EntryDefinition, Name: name, Dialect: dialect, Location: loc})
}

func (r *Repository) AddUsage(name, dialect string, loc source.Location) {
	r.add(Entry{Kind: EntryUsage, Name: name, Dialect: dialect, Location: loc})
}

func (r *Repository) AddStatement(id, dialect string, loc source.Location) {
	r.add(Entry{Kind: EntryStatement, Name: id, Dialect: dialect, Location: loc})
}

// Merge copies every entry of other that is not recorded yet.
func (r *Repository) Merge(other *Repository) {
	if other == nil || other == r {
		return
	}
	for _, e := range other.entries {
		r.add(e)
	}
}

func (r *Repository) add(e Entry) {
	if r.seen == nil {
		r.seen = make(map[Entry]struct{})
	}
	if _, ok := r.seen[e]; ok {
		return
	}
	r.seen[e] = struct{}{}
	r.entries = append(r.entries, e)
}

// Entries returns every fact in recording order.
func (r *Repository) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Len returns the number of recorded facts.
func (r *Repository) Len() int {
	return len(r.entries)
}

// Definitions returns where the copybook name was defined.
func (r *Repository) Definitions(name string) []source.Location {
	return r.locations(EntryDefinition, name)
}

// Usages returns where the copybook name was referenced.
func (r *Repository) Usages(name string) []source.Location {
	return r.locations(EntryUsage, name)
}

// Statement returns the COPY statement recorded under a usage id.
func (r *Repository) Statement(id string) (source.Location, bool) {
	for _, e := range r.entries {
		if e.Kind == EntryStatement && e.Name == id {
			return e.Location, true
		}
	}
	return source.Location{}, false
}

// Statements returns the number of recorded COPY statements.
func (r *Repository) Statements() int {
	n := 0
	for _, e := range r.entries {
		if e.Kind == EntryStatement {
			n++
		}
	}
	return n
}

// UsedNames returns the qualified names of every used copybook, sorted.
func (r *Repository) UsedNames() []string {
	var out []string
	for _, e := range r.entries {
		if e.Kind == EntryUsage && !slices.Contains(out, e.Name) {
			out = append(out, e.Name)
		}
	}
	slices.Sort(out)
	return out
}

// DefinitionURIs returns the distinct URIs copybooks were read from, sorted.
func (r *Repository) DefinitionURIs() []string {
	var out []string
	for _, e := range r.entries {
		if e.Kind == EntryDefinition && !slices.Contains(out, e.Location.URI) {
			out = append(out, e.Location.URI)
		}
	}
	slices.Sort(out)
	return out
}

func (r *Repository) locations(kind EntryKind, name string) []source.Location {
	var out []source.Location
	for _, e := range r.entries {
		if e.Kind == kind && e.Name == name {
			out = append(out, e.Location)
		}
	}
	return out
}
