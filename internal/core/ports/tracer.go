package ports

import "context"

// Tracer starts spans around units of work.
type Tracer interface {
	// Start opens a span named name as a child of any span in ctx.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span is a single traced unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError marks the span as failed.
	RecordError(err error)
	// SetAttribute attaches a key-value pair to the span.
	SetAttribute(key string, value any)
}
