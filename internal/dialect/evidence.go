package dialect

import "cobolfront/internal/source"

// Hint is a small piece of evidence suggesting a particular dialect.
// It is not itself a diagnostic; Service.Suggest turns a strong enough
// classification into one.
type Hint struct {
	Dialect  string
	Score    int
	Reason   string
	Location source.Location
}

// Evidence aggregates per-program hints collected while scanning the source.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 8),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// First returns the earliest hint for a dialect.
func (e *Evidence) First(dialect string) (Hint, bool) {
	k := key(dialect)
	for _, h := range e.Hints() {
		if key(h.Dialect) == k {
			return h, true
		}
	}
	return Hint{}, false
}
