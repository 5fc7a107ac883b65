package dialect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"cobolfront/internal/diag"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
	"cobolfront/internal/trace"
)

// ErrUnknownDialect is returned by Update when a registry item does not
// provide the dialect it names.
var ErrUnknownDialect = errors.New("dialect not provided")

// Discovery loads dialects that are not built in.
type Discovery interface {
	Load(path string) ([]Dialect, error)
}

// RegistryItem names a dialect and where to load it from.
type RegistryItem struct {
	Name string
	Path string
}

// Service holds the known dialects. It is safe for concurrent use.
type Service struct {
	mu        sync.RWMutex
	dialects  map[string]Dialect
	discovery Discovery
}

func NewService(discovery Discovery, builtins ...Dialect) *Service {
	s := &Service{
		dialects:  make(map[string]Dialect, len(builtins)+1),
		discovery: discovery,
	}
	s.Register(Default)
	for _, d := range builtins {
		s.Register(d)
	}
	return s
}

// Register adds d, replacing a dialect of the same name.
func (s *Service) Register(d Dialect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialects[key(d.Name())] = d
}

func (s *Service) Lookup(name string) (Dialect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dialects[key(name)]
	return d, ok
}

// Names returns the registered dialect names, sorted.
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.dialects))
	for _, d := range s.dialects {
		out = append(out, d.Name())
	}
	sort.Strings(out)
	return out
}

// get resolves a name, falling back to Default. Callers hold mu.
func (s *Service) get(name string) Dialect {
	if d, ok := s.dialects[key(name)]; ok {
		return d
	}
	return Default
}

// Update loads every registry item that is not registered yet. Failures do
// not stop the other items; they are joined into the returned error.
func (s *Service) Update(items []RegistryItem) error {
	var errs []error
	for _, item := range items {
		if _, ok := s.Lookup(item.Name); ok {
			continue
		}
		if s.discovery == nil {
			errs = append(errs, fmt.Errorf("dialect %s: no discovery configured", item.Name))
			continue
		}
		loaded, err := s.discovery.Load(item.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("dialect %s: %w", item.Name, err))
			continue
		}
		found := false
		for _, d := range loaded {
			if key(d.Name()) == key(item.Name) {
				s.Register(d)
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("dialect %s from %s: %w", item.Name, item.Path, ErrUnknownDialect))
		}
	}
	return errors.Join(errs...)
}

// SettingsSections collects the settings sections of all registered dialects.
func (s *Service) SettingsSections() []string {
	return s.collect(Dialect.SettingsSections)
}

// WatchingFolderSettings collects the folder settings of all registered
// dialects.
func (s *Service) WatchingFolderSettings() []string {
	return s.collect(Dialect.WatchingFolderSettings)
}

func (s *Service) collect(get func(Dialect) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range s.Names() {
		d, _ := s.Lookup(name)
		for _, v := range get(d) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Process runs the named dialects over pc.Document: Extend for each of them
// in run order, then ProcessText for each of them. The document is committed
// after every pass. Everything returned is in original coordinates.
func (s *Service) Process(ctx context.Context, names []string, pc *Context) diag.Result[[]syntax.Node] {
	span, ctx := trace.Start(ctx, trace.ScopePass, "dialects")
	uri := pc.Document.URI()

	ordered, err := s.Order(names)
	if err != nil {
		d := diag.NewError(diag.DialectOrderCycle, source.Location{URI: uri}, err.Error())
		span.End("cycle")
		return diag.With[[]syntax.Node](nil, d)
	}

	var (
		diags []diag.Diagnostic
		nodes []syntax.Node
	)
	prev := pc.Report
	pc.Report = diag.SliceReporter{Items: &diags}
	defer func() { pc.Report = prev }()

	pc.Document.Commit()
	for _, d := range ordered {
		if ctx.Err() != nil {
			break
		}
		snap := pc.Document.Snapshot()
		ps, pctx := trace.Start(ctx, trace.ScopePass, "extend:"+d.Name())
		for _, dg := range d.Extend(pctx, pc) {
			diags = append(diags, dg.Relocate(snap.MapLocation, uri))
		}
		pc.Document.Commit()
		ps.End("")
	}
	for _, d := range ordered {
		if ctx.Err() != nil {
			break
		}
		ps, pctx := trace.Start(ctx, trace.ScopePass, "process:"+d.Name())
		nodes = append(nodes, d.ProcessText(pctx, pc).Unwrap(&diags)...)
		pc.Document.Commit()
		ps.End("")
	}

	span.With("dialects", strconv.Itoa(len(ordered))).
		With("nodes", strconv.Itoa(len(nodes))).
		End(uri)
	return diag.With(nodes, diags...)
}

// Suggest reports dialects the program appears to use without enabling them.
// Only registered dialects are suggested.
func (s *Service) Suggest(uri, text string, enabled []string) []diag.Diagnostic {
	ev := Collect(uri, text)
	c := Classifier{}.Classify(ev)
	if c.Dialect == "" {
		return nil
	}
	for _, name := range enabled {
		if key(name) == key(c.Dialect) {
			return nil
		}
	}
	d, ok := s.Lookup(c.Dialect)
	if !ok {
		return nil
	}
	h, _ := ev.First(c.Dialect)
	msg := fmt.Sprintf("Program looks like %s code (%s); enable the %s dialect", d.Name(), h.Reason, d.Name())
	return []diag.Diagnostic{diag.New(diag.SevInfo, diag.DiaInfo, h.Location, msg)}
}
