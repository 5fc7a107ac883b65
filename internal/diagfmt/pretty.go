package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cobolfront/internal/diag"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Range, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, src Sources, opts PrettyOpts) {
	p := newPainter(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, &d, src, opts, p)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, src Sources, opts PrettyOpts, p painter) {
	start := d.Primary.Range.Start
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(d.Primary.URI, opts.PathMode, opts.BaseDir),
		start.Line+1, start.Character+1,
		p.severity(d.Severity),
		p.code(d.Code.ID()),
		d.Message,
	)
	if src != nil {
		if lines, ok := src.Lines(d.Primary.URI); ok {
			writeContext(w, lines, d, opts, p)
		}
	}
	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		ns := note.Location.Range.Start
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			p.note("= note:"),
			formatPath(note.Location.URI, opts.PathMode, opts.BaseDir),
			ns.Line+1, ns.Character+1,
			note.Msg,
		)
	}
}

func writeContext(w io.Writer, lines []string, d *diag.Diagnostic, opts PrettyOpts, p painter) {
	r := d.Primary.Range
	if r.Start.Line < 0 || r.Start.Line >= len(lines) {
		return
	}
	from := max(r.Start.Line-int(max(opts.Context, 0)), 0)
	gutter := len(fmt.Sprint(r.Start.Line + 1))
	for i := from; i <= r.Start.Line; i++ {
		fmt.Fprintf(w, " %*d | %s\n", gutter, i+1, clip(lines[i], opts.Width))
	}

	line := []rune(lines[r.Start.Line])
	startCol := min(max(r.Start.Character, 0), len(line))
	endCol := len(line) - 1
	if r.SingleLine() {
		endCol = min(r.End.Character, endCol)
	}
	pad := runewidth.StringWidth(string(line[:startCol]))
	width := 1
	if endCol >= startCol {
		width = max(runewidth.StringWidth(string(line[startCol:endCol+1])), 1)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %*s | %s%s\n", gutter, "", strings.Repeat(" ", pad), p.marker(d.Severity, marker))
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}

type painter struct {
	enabled bool
}

func newPainter(enabled bool) painter {
	return painter{enabled: enabled}
}

func (p painter) paint(s string, attrs ...color.Attribute) string {
	if !p.enabled {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (p painter) severity(sev diag.Severity) string {
	return p.paint(sev.String(), severityAttrs(sev)...)
}

func (p painter) marker(sev diag.Severity, s string) string {
	return p.paint(s, severityAttrs(sev)...)
}

func (p painter) code(s string) string {
	return p.paint(s, color.Bold)
}

func (p painter) note(s string) string {
	return p.paint(s, color.FgCyan)
}

func severityAttrs(sev diag.Severity) []color.Attribute {
	switch sev {
	case diag.SevError:
		return []color.Attribute{color.FgRed, color.Bold}
	case diag.SevWarning:
		return []color.Attribute{color.FgYellow, color.Bold}
	default:
		return []color.Attribute{color.FgBlue}
	}
}
