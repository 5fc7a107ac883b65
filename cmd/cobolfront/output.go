package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cobolfront/internal/diag"
	"cobolfront/internal/diagfmt"
	"cobolfront/internal/driver"
	"cobolfront/internal/syntax"
)

// printer writes expansion results: text and JSON documents to out,
// human-readable diagnostics to diagOut.
type printer struct {
	out     io.Writer
	diagOut io.Writer
	flags   expandFlags
	setup   *diag.Bag
	sources diagfmt.Sources
	pretty  diagfmt.PrettyOpts
	json    diagfmt.JSONOpts
}

func newPrinter(cmd *cobra.Command, flags expandFlags, sess *session) *printer {
	pathMode := diagfmt.PathModeAuto
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	return &printer{
		out:     cmd.OutOrStdout(),
		diagOut: cmd.ErrOrStderr(),
		flags:   flags,
		setup:   sess.setup,
		sources: diagfmt.NewFileSources(),
		pretty: diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   1,
			PathMode:  pathMode,
			BaseDir:   sess.project.Root,
			ShowNotes: true,
		},
		json: diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          sess.project.Root,
			IncludeNotes:     true,
		},
	}
}

// print reports whether any file had errors, or warnings with
// --warnings-as-errors. Bags are deduplicated, filtered by --min-severity and
// sorted before printing.
func (p *printer) print(results []driver.FileResult) bool {
	failed := p.failing(p.setup)
	for i := range results {
		bag := results[i].Bag
		if p.failing(bag) {
			failed = true
		}
		bag.Dedup()
		bag.Filter(p.flags.minSeverity)
		bag.Sort()
	}
	var err error
	if p.flags.format == "json" {
		err = p.printJSON(results)
	} else {
		p.printText(results)
	}
	if err != nil {
		fmt.Fprintf(p.diagOut, "cobolfront: %v\n", err)
		return true
	}
	return failed
}

func (p *printer) printText(results []driver.FileResult) {
	if p.setup.Len() > 0 {
		diagfmt.Pretty(p.diagOut, p.setup, p.sources, p.pretty)
		fmt.Fprintln(p.diagOut)
	}
	for _, res := range results {
		if !p.flags.diagnosticsOnly && res.Expanded != "" {
			if len(results) > 1 {
				fmt.Fprintf(p.out, "==> %s <==\n", res.Path)
			}
			fmt.Fprint(p.out, res.Expanded)
			if res.Expanded[len(res.Expanded)-1] != '\n' {
				fmt.Fprintln(p.out)
			}
		}
		if res.Bag.Len() == 0 {
			continue
		}
		diagfmt.Pretty(p.diagOut, res.Bag, p.sources, p.pretty)
		fmt.Fprintln(p.diagOut)
	}
}

func (p *printer) failing(bag *diag.Bag) bool {
	return bag.HasErrors() || (p.flags.warnErrors && bag.HasWarnings())
}

type nodeJSON struct {
	Kind     string               `json:"kind"`
	Name     string               `json:"name"`
	Dialect  string               `json:"dialect"`
	Location diagfmt.LocationJSON `json:"location"`
}

type fileJSON struct {
	Path        string                    `json:"path"`
	URI         string                    `json:"uri"`
	Cached      bool                      `json:"cached,omitempty"`
	Expanded    *string                   `json:"expanded,omitempty"`
	Copybooks   []string                  `json:"copybooks"`
	Nodes       []nodeJSON                `json:"nodes"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type expandJSON struct {
	Setup diagfmt.DiagnosticsOutput `json:"setup"`
	Files []fileJSON                `json:"files"`
}

func (p *printer) printJSON(results []driver.FileResult) error {
	setup, err := diagfmt.BuildDiagnosticsOutput(p.setup, p.json)
	if err != nil {
		return err
	}
	doc := expandJSON{Setup: setup, Files: make([]fileJSON, 0, len(results))}
	for _, res := range results {
		diags, err := diagfmt.BuildDiagnosticsOutput(res.Bag, p.json)
		if err != nil {
			return err
		}
		nodes, err := p.nodes(res.Nodes)
		if err != nil {
			return err
		}
		f := fileJSON{
			Path:        res.Path,
			URI:         res.URI,
			Cached:      res.Cached,
			Copybooks:   res.Copybooks.UsedNames(),
			Nodes:       nodes,
			Diagnostics: diags,
		}
		if f.Copybooks == nil {
			f.Copybooks = []string{}
		}
		if !p.flags.diagnosticsOnly {
			expanded := res.Expanded
			f.Expanded = &expanded
		}
		doc.Files = append(doc.Files, f)
	}

	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (p *printer) nodes(nodes []syntax.Node) ([]nodeJSON, error) {
	out := make([]nodeJSON, 0, len(nodes))
	for _, n := range nodes {
		loc, err := diagfmt.Location(n.Location, p.json)
		if err != nil {
			return nil, err
		}
		out = append(out, nodeJSON{Kind: n.Kind.String(), Name: n.Name, Dialect: n.Dialect, Location: loc})
	}
	return out, nil
}
