package preprocess

import (
	"context"
	"strconv"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/dialect"
	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
	"cobolfront/internal/trace"
)

// Preprocessor expands programs and, through the injector, every copybook
// they include. It holds no per-document state and may be shared by
// goroutines when its provider and dialect service are.
type Preprocessor struct {
	Provider copybook.ContentProvider
	Dialects *dialect.Service
	// Enabled dialects, in any order. Empty runs no dialect passes.
	Enabled []string
}

func New(provider copybook.ContentProvider, dialects *dialect.Service, enabled []string) *Preprocessor {
	return &Preprocessor{Provider: provider, Dialects: dialects, Enabled: enabled}
}

// Result is a fully preprocessed program. Diagnostics and nodes are in
// original coordinates.
type Result struct {
	Document    *mapping.Document
	Copybooks   *copybook.Repository
	Diagnostics []diag.Diagnostic
	Nodes       []syntax.Node
}

// Analyze preprocesses a top-level program.
func (p *Preprocessor) Analyze(ctx context.Context, uri, text string, cfg copybook.Config) *Result {
	span, ctx := trace.Start(ctx, trace.ScopeDocument, "analyze")
	h := copybook.NewHierarchy(uri)
	exp := p.run(ctx, mapping.NewDocument(text, uri), cfg, h)

	res := &Result{
		Document:    exp.Document,
		Copybooks:   exp.Copybooks,
		Diagnostics: exp.Diagnostics,
		Nodes:       dedupNodes(append(copyNodes(exp.Copybooks), exp.Nodes...)),
	}
	if p.Dialects != nil {
		res.Diagnostics = append(res.Diagnostics, p.Dialects.Suggest(uri, text, p.Enabled)...)
	}
	span.With("copybooks", strconv.Itoa(len(exp.Copybooks.UsedNames()))).
		With("diagnostics", strconv.Itoa(len(res.Diagnostics))).
		End(uri)
	return res
}

// Expand implements copybook.Expander.
func (p *Preprocessor) Expand(ctx context.Context, src copybook.Source, cfg copybook.Config, h *copybook.Hierarchy) *copybook.Expansion {
	var opts []mapping.TextOption
	if src.Site != nil {
		opts = append(opts, mapping.WithSite(*src.Site))
	}
	return p.run(ctx, mapping.NewDocument(src.Text, src.URI, opts...), cfg, h)
}

func (p *Preprocessor) run(ctx context.Context, doc *mapping.Document, cfg copybook.Config, h *copybook.Hierarchy) *copybook.Expansion {
	exp := &copybook.Expansion{Document: doc, Copybooks: copybook.NewRepository()}

	format, err := ParseFormat(cfg.SourceFormat)
	if err != nil {
		exp.Diagnostics = append(exp.Diagnostics, diag.NewWarning(diag.ProjInvalidConfig, source.Location{URI: doc.URI()}, err.Error()))
	}
	if err := Clean(doc, format); err != nil {
		exp.Diagnostics = append(exp.Diagnostics, diag.NewError(diag.MapLocationUnavailable, source.Location{URI: doc.URI()}, err.Error()))
	}
	doc.Commit()
	if ctx.Err() != nil {
		return exp
	}

	injector := &copybook.Injector{Provider: p.Provider, Expander: p}
	sites := FindCopyStatements(doc.Current())
	exp.Nodes = append(exp.Nodes, injector.Inject(ctx, doc, sites, cfg, h, exp.Copybooks).Unwrap(&exp.Diagnostics)...)
	if ctx.Err() != nil || p.Dialects == nil || len(p.Enabled) == 0 {
		return exp
	}

	pc := &dialect.Context{
		Document:   doc,
		ProgramURI: h.Root(),
		Config:     cfg,
		Hierarchy:  h,
		Copybooks:  exp.Copybooks,
		Injector:   injector,
	}
	exp.Nodes = append(exp.Nodes, p.Dialects.Process(ctx, p.Enabled, pc).Unwrap(&exp.Diagnostics)...)
	return exp
}

// copyNodes describes the plain COPY statements of every inclusion level.
func copyNodes(repo *copybook.Repository) []syntax.Node {
	var out []syntax.Node
	for _, e := range repo.Entries() {
		if e.Dialect != copybook.DefaultDialect {
			continue
		}
		switch e.Kind {
		case copybook.EntryUsage:
			out = append(out, syntax.Node{Kind: syntax.KindCopybookUsage, Name: e.Name, Dialect: e.Dialect, Location: e.Location})
		case copybook.EntryStatement:
			out = append(out, syntax.Node{Kind: syntax.KindCopyStatement, Name: e.Name, Dialect: e.Dialect, Location: e.Location})
		}
	}
	return out
}

// dedupNodes drops repeats; nested levels report what their parents report
// again after merging repositories.
func dedupNodes(nodes []syntax.Node) []syntax.Node {
	seen := make(map[syntax.Node]struct{}, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
