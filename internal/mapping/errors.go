package mapping

import (
	"errors"
	"fmt"

	"cobolfront/internal/source"
)

var (
	// ErrOutOfRange is returned when a position does not exist in the text.
	ErrOutOfRange = errors.New("position out of range")
	// ErrInconsistentMapping is returned when a range starts and ends in
	// characters owned by different documents.
	ErrInconsistentMapping = errors.New("range spans two owning documents")
	// ErrUnmappable is returned when neither end of a range has provenance.
	ErrUnmappable = errors.New("cannot find original position")
)

// MappingError describes a failed location query or edit.
type MappingError struct {
	URI   string
	Range source.Range
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s@%s: %v", e.URI, e.Range, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

func rangeError(uri string, r source.Range, err error) error {
	return &MappingError{URI: uri, Range: r, Err: err}
}
