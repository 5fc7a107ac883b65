package copybook

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"cobolfront/internal/diag"
	"cobolfront/internal/source"
)

// DefaultDialect is the dialect of plain COPY statements.
const DefaultDialect = "COBOL"

// Name identifies a copybook as written in a COPY statement.
type Name struct {
	Display   string // as written
	Dialect   string // dialect whose statement referenced it
	Extension string // set by providers once the file is known, without the dot
}

// NewName builds a name for the default dialect.
func NewName(display string) Name {
	return Name{Display: display, Dialect: DefaultDialect}
}

// Qualified is the key copybooks are compared by. COBOL names are case
// insensitive, so the display name is NFC-normalised and upper-cased.
func (n Name) Qualified() string {
	return strings.ToUpper(norm.NFC.String(n.Display))
}

// DialectOrDefault returns the dialect, COBOL when unset.
func (n Name) DialectOrDefault() string {
	if n.Dialect == "" {
		return DefaultDialect
	}
	return n.Dialect
}

func (n Name) String() string {
	if n.Extension == "" {
		return n.Display
	}
	return n.Display + "." + n.Extension
}

// ValidateName checks the shape of a copybook name. Every problem is
// reported, none of them stops processing. Oversized names are tolerated in
// implicit documents.
func ValidateName(name Name, loc source.Location, maxLen int) diag.Result[Name] {
	var out []diag.Diagnostic
	display := name.Display
	if maxLen > 0 && utf8.RuneCountInString(display) > maxLen && !source.IsImplicitURI(loc.URI) {
		out = append(out, diag.NewWarning(diag.CopybookNameTooLong, loc,
			fmt.Sprintf("Copybook name %s exceeds %d characters", display, maxLen)))
	}
	if strings.HasPrefix(display, "-") || strings.HasSuffix(display, "-") {
		out = append(out, diag.NewError(diag.CopybookNameHyphen, loc,
			fmt.Sprintf("Copybook name %s must not start or end with a hyphen", display)))
	}
	if strings.Contains(display, "_") {
		out = append(out, diag.NewError(diag.CopybookNameUnderscore, loc,
			fmt.Sprintf("Copybook name %s must not contain an underscore", display)))
	}
	return diag.With(name, out...)
}
