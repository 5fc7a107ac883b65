package diag

// Result is the outcome of one pipeline stage: a value plus whatever the stage
// had to say about it. Stages never fail hard; a degraded value is still a
// value.
type Result[T any] struct {
	Value       T
	Diagnostics []Diagnostic
}

// Ok wraps a value without diagnostics.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// With wraps a value together with diagnostics.
func With[T any](v T, ds ...Diagnostic) Result[T] {
	return Result[T]{Value: v, Diagnostics: ds}
}

// Unwrap appends the diagnostics to acc and returns the value.
func (r Result[T]) Unwrap(acc *[]Diagnostic) T {
	if acc != nil {
		*acc = append(*acc, r.Diagnostics...)
	}
	return r.Value
}

// Failed reports whether any diagnostic is an error.
func (r Result[T]) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}
