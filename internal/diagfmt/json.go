package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"fortio.org/safecast"

	"cobolfront/internal/diag"
	"cobolfront/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	URI       string `json:"uri"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// makeLocation создаёт LocationJSON из Location; строки и колонки 1-based.
func makeLocation(loc source.Location, opts JSONOpts) (LocationJSON, error) {
	out := LocationJSON{
		File: formatPath(loc.URI, opts.PathMode, opts.BaseDir),
		URI:  loc.URI,
	}
	if !opts.IncludePositions {
		return out, nil
	}
	coords := [4]int{
		loc.Range.Start.Line, loc.Range.Start.Character,
		loc.Range.End.Line, loc.Range.End.Character,
	}
	var conv [4]uint32
	for i, c := range coords {
		v, err := safecast.Conv[uint32](c + 1)
		if err != nil {
			return LocationJSON{}, fmt.Errorf("location %s: %w", loc, err)
		}
		conv[i] = v
	}
	out.StartLine, out.StartCol, out.EndLine, out.EndCol = conv[0], conv[1], conv[2], conv[3]
	return out, nil
}

// Location exposes the JSON form of a location for outputs that carry
// locations besides diagnostics.
func Location(loc source.Location, opts JSONOpts) (LocationJSON, error) {
	return makeLocation(loc, opts)
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) (DiagnosticsOutput, error) {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := items[i]
		loc, err := makeLocation(d.Primary, opts)
		if err != nil {
			return DiagnosticsOutput{}, err
		}
		diagJSON := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: loc,
		}

		includeNotes := opts.IncludeNotes || d.Code == diag.ObsTimings
		if includeNotes && len(d.Notes) > 0 {
			diagJSON.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				nloc, err := makeLocation(note.Location, opts)
				if err != nil {
					return DiagnosticsOutput{}, err
				}
				diagJSON.Notes[j] = NoteJSON{Message: note.Msg, Location: nloc}
			}
		}
		diagnostics = append(diagnostics, diagJSON)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}, nil
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	output, err := BuildDiagnosticsOutput(bag, opts)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
