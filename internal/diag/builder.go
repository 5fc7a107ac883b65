package diag

import (
	"fmt"

	"cobolfront/internal/source"
)

func New(sev Severity, code Code, primary source.Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
		Notes:    nil,
	}
}

func NewError(code Code, primary source.Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Location, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(loc source.Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Location: loc, Msg: msg})
	return d
}

// Relocate moves a diagnostic produced in expanded coordinates to original
// ones. When mapping fails the diagnostic is kept, pinned to fallbackURI, and
// the failure is attached as a note.
func (d Diagnostic) Relocate(mapLoc func(source.Range) (source.Location, error), fallbackURI string) Diagnostic {
	loc, err := mapLoc(d.Primary.Range)
	if err == nil {
		d.Primary = loc
		return d
	}
	return LocationUnavailable(d, fallbackURI, err)
}

// LocationUnavailable demotes d to the whole document uri.
func LocationUnavailable(d Diagnostic, uri string, cause error) Diagnostic {
	d.Primary = source.Location{URI: uri}
	return d.WithNote(source.Location{URI: uri}, fmt.Sprintf("%s: %v", MapLocationUnavailable.Title(), cause))
}
