package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cobolfront/internal/diag"
	"cobolfront/internal/driver"
	"cobolfront/internal/source"
)

var mapCmd = &cobra.Command{
	Use:   "map [flags] <program> <line:col[-line:col]>",
	Short: "Map a range of the expanded program back to its original file",
	Long:  "Map expands the program and translates a range in expanded coordinates (1-based, end inclusive) into the file and range it came from.",
	Args:  cobra.ExactArgs(2),
	RunE:  runMap,
}

func init() {
	addSessionFlags(mapCmd)
	mapCmd.Flags().String("format", "text", "output format (text|json)")
}

type mapJSON struct {
	Expanded string `json:"expanded"`
	URI      string `json:"uri"`
	Path     string `json:"path,omitempty"`
	Range    string `json:"range"`
}

func runMap(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	r, err := parseRange(args[1])
	if err != nil {
		return err
	}

	sess, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	results, err := driver.ExpandFiles(cmd.Context(), []string{args[0]}, driver.Options{
		Provider: sess.provider,
		Dialects: sess.dialects,
		Enabled:  sess.enabled,
		Config:   sess.config,
		Jobs:     1,
	})
	if err != nil {
		return err
	}
	res := results[0]
	if res.Document == nil {
		for _, d := range res.Bag.Items() {
			if d.Severity >= diag.SevError {
				return fmt.Errorf("%s: %s", args[0], d.Message)
			}
		}
		return fmt.Errorf("%s: no expansion", args[0])
	}

	loc, err := res.Document.MapLocation(r)
	if err != nil {
		return fmt.Errorf("cannot map %s: %w", args[1], err)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(mapJSON{
			Expanded: formatRange(r),
			URI:      loc.URI,
			Path:     source.URIToPath(loc.URI),
			Range:    formatRange(loc.Range),
		})
	}
	where := source.URIToPath(loc.URI)
	if where == "" {
		where = loc.URI
	}
	fmt.Fprintf(out, "%s:%s\n", where, formatRange(loc.Range))
	return nil
}

// parseRange reads "l:c" or "l:c-l:c", 1-based, into a zero-based range.
func parseRange(s string) (source.Range, error) {
	startStr, endStr, hasEnd := strings.Cut(strings.TrimSpace(s), "-")
	start, err := parsePosition(startStr)
	if err != nil {
		return source.Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	end := start
	if hasEnd {
		if end, err = parsePosition(endStr); err != nil {
			return source.Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
	}
	if source.ComparePositions(start, end) > 0 {
		return source.Range{}, fmt.Errorf("invalid range %q: end before start", s)
	}
	return source.Range{Start: start, End: end}, nil
}

func parsePosition(s string) (source.Position, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return source.Position{}, fmt.Errorf("expected line:col, got %q", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return source.Position{}, fmt.Errorf("bad line %q", lineStr)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return source.Position{}, fmt.Errorf("bad column %q", colStr)
	}
	return source.Pos(line-1, col-1), nil
}

func formatRange(r source.Range) string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line+1, r.Start.Character+1, r.End.Line+1, r.End.Character+1)
}
