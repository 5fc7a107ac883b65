package copybook

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"cobolfront/internal/diag"
	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
	"cobolfront/internal/trace"
)

// Injector substitutes COPY statements with the expanded copybook bodies.
type Injector struct {
	Provider ContentProvider
	// Expander preprocesses copybook bodies. Without one bodies are spliced
	// as read.
	Expander Expander
}

// Inject expands every site of doc. Sites are handled from the bottom of the
// document up, so the current coordinates of the remaining sites stay valid,
// and the document is committed after each of them. Nothing here aborts:
// a copybook that cannot be used is replaced by an empty body and reported.
//
// The returned value holds the nodes produced inside the copybooks.
func (in *Injector) Inject(ctx context.Context, doc *mapping.Document, sites []Site, cfg Config, h *Hierarchy, repo Registry) diag.Result[[]syntax.Node] {
	span, ctx := trace.Start(ctx, trace.ScopePass, "copy-injection")
	var (
		diags []diag.Diagnostic
		nodes []syntax.Node
	)
	doc.Commit()

	ordered := slices.Clone(sites)
	slices.SortStableFunc(ordered, func(a, b Site) int {
		return source.ComparePositions(b.Statement.Start, a.Statement.Start)
	})
	done := 0
	for _, site := range ordered {
		nodes = append(nodes, in.injectSite(ctx, doc, site, cfg, h, repo).Unwrap(&diags)...)
		doc.Commit()
		done++
		if ctx.Err() != nil {
			break
		}
	}

	span.With("sites", strconv.Itoa(done)).
		With("diagnostics", strconv.Itoa(len(diags))).
		End(doc.URI())
	return diag.With(nodes, diags...)
}

func (in *Injector) injectSite(ctx context.Context, doc *mapping.Document, site Site, cfg Config, h *Hierarchy, repo Registry) diag.Result[[]syntax.Node] {
	span, ctx := trace.Start(ctx, trace.ScopeCopybook, "copybook:"+site.Name.Display)
	defer span.End("")

	var diags []diag.Diagnostic
	// оба адреса считаем до вставки, пока снимок ещё описывает сайт
	nameLoc := locate(ctx, doc, site.NameRange)
	stmtLoc := locate(ctx, doc, site.Statement)
	usage := Usage{ID: uuid.NewString(), Name: site.Name, Location: nameLoc}

	name := ValidateName(site.Name, nameLoc, cfg.MaxNameLength).Unwrap(&diags)
	model := in.resolve(ctx, cfg, name, nameLoc, doc.URI(), h).Unwrap(&diags)
	model = checkRecursion(ctx, model, name, nameLoc, h).Unwrap(&diags)
	nested := in.expand(ctx, model, usage, stmtLoc, cfg, h).Unwrap(&diags)

	if err := splice(doc, site.Statement, bodyText(nested, doc.URI(), stmtLoc)); err != nil {
		diags = append(diags, diag.NewError(diag.MapLocationUnavailable, stmtLoc,
			fmt.Sprintf("Cannot substitute copybook %s: %v", name.Display, err)))
	}
	register(repo, name, usage, model, nested, stmtLoc)

	if nested == nil {
		return diag.With[[]syntax.Node](nil, diags...)
	}
	return diag.With(nested.Nodes, diags...)
}

// resolve asks the provider for the copybook. nil means there is nothing to
// expand; empty names are skipped silently.
func (in *Injector) resolve(ctx context.Context, cfg Config, name Name, nameLoc source.Location, documentURI string, h *Hierarchy) diag.Result[*Model] {
	if name.Display == "" || in.Provider == nil {
		return diag.Ok[*Model](nil)
	}
	program := h.Root()
	if program == "" {
		program = documentURI
	}
	m, err := in.Provider.Read(ctx, cfg, name, program, documentURI)
	switch {
	case err == nil:
		if m.URI == "" {
			m.URI = source.ImplicitScheme + ":" + name.Qualified()
		}
		return diag.Ok(&m)
	case errors.Is(err, ErrNotFound):
		trace.Point(ctx, trace.ScopeCopybook, "missing", name.Display)
		return diag.With[*Model](nil, diag.NewError(diag.CopybookMissing, nameLoc,
			fmt.Sprintf("%s: Copybook not found", name.Display)))
	default:
		return diag.With[*Model](nil, diag.NewError(diag.CopybookReadError, nameLoc,
			fmt.Sprintf("Cannot read copybook %s: %v", name.Display, err)))
	}
}

// checkRecursion drops the model when name is already being expanded. The
// inclusion chain goes into the notes.
func checkRecursion(ctx context.Context, m *Model, name Name, nameLoc source.Location, h *Hierarchy) diag.Result[*Model] {
	if m == nil || !h.HasRecursion(name) {
		return diag.Ok(m)
	}
	trace.Point(ctx, trace.ScopeCopybook, "recursion", name.Display)
	d := diag.NewError(diag.CopybookRecursive, nameLoc,
		fmt.Sprintf("Recursive copybook declaration for: %s", name.Display))
	for _, u := range h.Chain() {
		d = d.WithNote(u.Location, fmt.Sprintf("%s is copied here", u.Name.Display))
	}
	return diag.With[*Model](nil, d)
}

func (in *Injector) expand(ctx context.Context, m *Model, usage Usage, stmtLoc source.Location, cfg Config, h *Hierarchy) diag.Result[*Expansion] {
	if m == nil {
		return diag.Ok[*Expansion](nil)
	}
	if in.Expander == nil {
		return diag.Ok(&Expansion{
			Document:  mapping.NewDocument(m.Content, m.URI, mapping.WithSite(stmtLoc)),
			Copybooks: NewRepository(),
		})
	}
	h.Push(usage)
	defer h.Pop()
	exp := in.Expander.Expand(ctx, Source{URI: m.URI, Text: m.Content, Site: &stmtLoc}, cfg, h)
	if exp == nil {
		return diag.Ok[*Expansion](nil)
	}
	return diag.With(exp, exp.Diagnostics...)
}

func bodyText(exp *Expansion, parentURI string, stmtLoc source.Location) *mapping.Text {
	if exp == nil || exp.Document == nil {
		return mapping.Placeholder(parentURI, stmtLoc)
	}
	return exp.Document.Snapshot().Extended()
}

func splice(doc *mapping.Document, stmt source.Range, body *mapping.Text) error {
	lines, err := isolate(doc, stmt)
	if err != nil {
		return err
	}
	return doc.InsertCopybook(lines, body)
}

// isolate moves code sharing lines with the statement onto lines of its own,
// so replacing whole lines removes only the statement. It returns the lines
// the statement occupies afterwards.
func isolate(doc *mapping.Document, stmt source.Range) (source.Range, error) {
	if stmt.Start.Line < 0 || stmt.End.Line >= doc.CurrentLineCount() || stmt.Start.Line > stmt.End.Line {
		return stmt, fmt.Errorf("statement %s: %w", stmt, mapping.ErrOutOfRange)
	}
	end := []rune(doc.CurrentLine(stmt.End.Line))
	if after := stmt.End.Character + 1; after > 0 && after < len(end) && !blank(end[after:]) {
		if err := doc.AddLineBreak(source.Pos(stmt.End.Line, after)); err != nil {
			return stmt, err
		}
	}
	start := []rune(doc.CurrentLine(stmt.Start.Line))
	if before := min(stmt.Start.Character, len(start)); before > 0 && !blank(start[:before]) {
		if err := doc.AddLineBreak(source.Pos(stmt.Start.Line, before)); err != nil {
			return stmt, err
		}
		stmt.Start.Line++
		stmt.End.Line++
	}
	return stmt, nil
}

func blank(rs []rune) bool {
	return strings.TrimSpace(string(rs)) == ""
}

func register(repo Registry, name Name, usage Usage, m *Model, nested *Expansion, stmtLoc source.Location) {
	if repo == nil || name.Display == "" {
		return
	}
	q, dialect := name.Qualified(), name.DialectOrDefault()
	repo.AddUsage(q, dialect, usage.Location)
	if m != nil && m.URI != "" && !source.IsImplicitURI(m.URI) {
		repo.Define(q, dialect, source.Location{URI: m.URI})
	}
	repo.AddStatement(usage.ID, dialect, stmtLoc)
	if nested != nil && nested.Copybooks != nil {
		repo.Merge(nested.Copybooks)
	}
}

// locate maps r through the committed snapshot. When that fails the current
// coordinates are kept, they are the best available.
func locate(ctx context.Context, doc *mapping.Document, r source.Range) source.Location {
	loc, err := doc.MapLocation(r)
	if err != nil {
		trace.Point(ctx, trace.ScopeCopybook, "unmapped", err.Error())
		return source.Location{URI: doc.URI(), Range: r}
	}
	return loc
}
