package copybook

import (
	"context"

	"cobolfront/internal/diag"
	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
)

// Source is text handed to an Expander.
type Source struct {
	URI  string
	Text string
	// Site is the COPY statement the text is included from, nil for programs.
	Site *source.Location
}

// Expansion is a fully preprocessed document with everything found on the
// way. Diagnostics and nodes are in original coordinates.
type Expansion struct {
	Document    *mapping.Document
	Copybooks   *Repository
	Diagnostics []diag.Diagnostic
	Nodes       []syntax.Node
}

// Expander runs the whole preprocessing pipeline over one source. The
// injector calls it for every copybook body, so nested COPY statements are
// expanded with the same hierarchy.
type Expander interface {
	Expand(ctx context.Context, src Source, cfg Config, h *Hierarchy) *Expansion
}

// Site is a COPY statement in the current text of a document. Both ranges
// are inclusive.
type Site struct {
	Name      Name
	NameRange source.Range
	Statement source.Range
}
