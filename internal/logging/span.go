package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span measures one logical operation and logs its duration on End.
type Span struct {
	logger *slog.Logger
	began  time.Time
}

// StartSpan opens a span with the given name. The returned context carries a
// logger annotated with trace and span IDs so nested log lines correlate.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := FromContext(ctx)

	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
		ctx = WithTraceID(ctx, traceID)
		logger = logger.With("trace_id", traceID)
	}

	if parent := SpanIDFromContext(ctx); parent != "" {
		logger = logger.With("parent_span_id", parent)
	}

	spanID := uuid.NewString()
	logger = logger.With("span_id", spanID, "span_name", name)

	ctx = WithSpanID(ctx, spanID)
	ctx = WithLogger(ctx, logger)

	return ctx, &Span{logger: logger, began: time.Now()}
}

// End emits a completion log entry with the span's elapsed time.
func (s *Span) End() {
	if s == nil {
		return
	}
	s.logger.Info("span completed", "duration", time.Since(s.began))
}
