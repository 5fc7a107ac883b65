package diag

import (
	"cobolfront/internal/source"
)

type Note struct {
	Location source.Location
	Msg      string
}

// Diagnostic is one finding. Primary is in original coordinates once the
// producing pass has remapped it.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Location
	Notes    []Note
}
