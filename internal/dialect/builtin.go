package dialect

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
)

const (
	IDMSName = "IDMS"
	DaCoName = "DaCo"
)

// Builtins returns the dialects shipped with the engine.
func Builtins() []Dialect {
	return []Dialect{NewIDMS(), NewDaCo()}
}

// NewIDMS handles `COPY IDMS name.` statements.
func NewIDMS() Dialect {
	return newCopyDialect(Base{
		ID:       IDMSName,
		Sections: []string{"dialects.idms"},
		Folders:  []string{"dialects.idms.copybook-paths"},
	}, "IDMS")
}

// NewDaCo handles `COPY MAID name.` statements. It runs before IDMS.
func NewDaCo() Dialect {
	return newCopyDialect(Base{
		ID:       DaCoName,
		Before:   []string{IDMSName},
		Sections: []string{"dialects.daco"},
		Folders:  []string{"dialects.daco.copybook-paths"},
	}, "MAID")
}

// copyDialect injects copybooks named by a keyword COPY statement.
type copyDialect struct {
	Base
	keyword string
	re      *regexp.Regexp
}

func newCopyDialect(b Base, keyword string) *copyDialect {
	return &copyDialect{
		Base:    b,
		keyword: keyword,
		re:      regexp.MustCompile(`(?i)\bCOPY\s+` + keyword + `\b(?:\s+([A-Za-z0-9][A-Za-z0-9_-]*))?(\s*\.)?`),
	}
}

func (d *copyDialect) Extend(ctx context.Context, pc *Context) []diag.Diagnostic {
	sites, errs := d.findSites(pc.Document)
	if len(sites) == 0 || pc.Injector == nil {
		return errs
	}
	var repo copybook.Registry
	if pc.Copybooks != nil {
		repo = pc.Copybooks
	}
	res := pc.Injector.Inject(ctx, pc.Document, sites, pc.Config, pc.Hierarchy, repo)
	for _, dg := range res.Diagnostics {
		diag.Emit(pc.Report, dg)
	}
	return errs
}

// ProcessText turns the copybooks this dialect registered into nodes.
func (d *copyDialect) ProcessText(_ context.Context, pc *Context) diag.Result[[]syntax.Node] {
	if pc.Copybooks == nil {
		return diag.Ok[[]syntax.Node](nil)
	}
	var nodes []syntax.Node
	for _, e := range pc.Copybooks.Entries() {
		if key(e.Dialect) != key(d.Name()) {
			continue
		}
		switch e.Kind {
		case copybook.EntryUsage:
			nodes = append(nodes, syntax.Node{Kind: syntax.KindCopybookUsage, Name: e.Name, Dialect: e.Dialect, Location: e.Location})
		case copybook.EntryStatement:
			nodes = append(nodes, syntax.Node{Kind: syntax.KindCopyStatement, Name: e.Name, Dialect: e.Dialect, Location: e.Location})
		}
	}
	return diag.Ok(nodes)
}

// findSites scans the current text. Statements must fit on one line.
func (d *copyDialect) findSites(doc *mapping.Document) ([]copybook.Site, []diag.Diagnostic) {
	var (
		sites []copybook.Site
		errs  []diag.Diagnostic
	)
	uri := doc.URI()
	for i := range doc.CurrentLineCount() {
		line := doc.CurrentLine(i)
		for _, m := range d.re.FindAllStringSubmatchIndex(line, -1) {
			col := func(b int) int { return utf8.RuneCountInString(line[:b]) }
			start := col(m[0])
			if m[2] < 0 {
				end := col(m[1]) - 1
				errs = append(errs, diag.NewError(diag.DialectSyntax,
					source.Location{URI: uri, Range: source.NewRange(i, start, i, end)},
					fmt.Sprintf("Missing copybook name after COPY %s", d.keyword)))
				continue
			}
			nameRange := source.NewRange(i, col(m[2]), i, col(m[3])-1)
			stmtEnd := col(m[1]) - 1
			if m[4] < 0 {
				errs = append(errs, diag.NewError(diag.DialectSyntax,
					source.Location{URI: uri, Range: nameRange},
					fmt.Sprintf("Missing period after COPY %s %s", d.keyword, line[m[2]:m[3]])))
			}
			sites = append(sites, copybook.Site{
				Name:      copybook.Name{Display: line[m[2]:m[3]], Dialect: d.Name()},
				NameRange: nameRange,
				Statement: source.NewRange(i, start, i, stmtEnd),
			})
		}
	}
	return sites, errs
}
