package dialect

import (
	"context"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/mapping"
	"cobolfront/internal/syntax"
)

// Dialect is one COBOL variant. Implementations are shared by documents
// processed in parallel and must not keep per-document state.
type Dialect interface {
	Name() string
	// RunBefore names the dialects this one must precede.
	RunBefore() []string
	// Extend rewrites the current text of pc.Document. Returned diagnostics
	// are in current coordinates; the service maps them back.
	Extend(ctx context.Context, pc *Context) []diag.Diagnostic
	// ProcessText reads the committed document. Nodes and diagnostics are in
	// original coordinates.
	ProcessText(ctx context.Context, pc *Context) diag.Result[[]syntax.Node]
	SettingsSections() []string
	WatchingFolderSettings() []string
}

// Context is the shared state of one dialect run.
type Context struct {
	Document   *mapping.Document
	ProgramURI string
	Config     copybook.Config
	Hierarchy  *copybook.Hierarchy
	Copybooks  *copybook.Repository
	Injector   *copybook.Injector
	// Report takes diagnostics that are already in original coordinates,
	// e.g. those of copybooks a dialect injected.
	Report diag.Reporter
}

// Base is a dialect that does nothing. Embed it to get the no-op methods.
type Base struct {
	ID       string
	Before   []string
	Sections []string
	Folders  []string
}

func (b Base) Name() string {
	return b.ID
}

func (b Base) RunBefore() []string {
	return b.Before
}

func (Base) Extend(context.Context, *Context) []diag.Diagnostic {
	return nil
}

func (Base) ProcessText(context.Context, *Context) diag.Result[[]syntax.Node] {
	return diag.Ok[[]syntax.Node](nil)
}

func (b Base) SettingsSections() []string {
	return b.Sections
}

func (b Base) WatchingFolderSettings() []string {
	return b.Folders
}

// Default is what unknown dialect names resolve to.
var Default Dialect = Base{ID: copybook.DefaultDialect}
