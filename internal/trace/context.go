package trace

import "context"

type ctxKey struct{}

// active is what a context carries: the tracer, the innermost open span and
// the program being processed.
type active struct {
	tracer   Tracer
	span     uint64
	document string
}

func activeFrom(ctx context.Context) active {
	if ctx != nil {
		if a, ok := ctx.Value(ctxKey{}).(active); ok {
			return a
		}
	}
	return active{tracer: Nop}
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return activeFrom(ctx).tracer
}

// WithTracer attaches t to ctx. A nil t disables tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	a := activeFrom(ctx)
	a.tracer = t
	return context.WithValue(ctx, ctxKey{}, a)
}

// WithDocument tags every event emitted under ctx with document.
func WithDocument(ctx context.Context, document string) context.Context {
	a := activeFrom(ctx)
	a.document = document
	return context.WithValue(ctx, ctxKey{}, a)
}

// DocumentFrom returns the program ctx was tagged with.
func DocumentFrom(ctx context.Context) string {
	return activeFrom(ctx).document
}
