package analytics

import (
	"context"

	"go.uber.org/zap"
)

// Sink receives consumed link events. The consumer binary picks the
// implementation; nothing upstream depends on what happens to the events.
type Sink interface {
	LinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	LinkVisited(ctx context.Context, event *LinkVisitedEvent) error
}

// LogSink writes events to the structured log. It stands in until a real
// warehouse destination exists.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a logging sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) LinkCreated(_ context.Context, event *LinkCreatedEvent) error {
	s.logger.Info("link created",
		zap.String("code", event.Code),
		zap.String("target_url", event.TargetURL),
		zap.Bool("custom", event.Custom),
		zap.Time("created_at", event.CreatedAt),
	)

	return nil
}

func (s *LogSink) LinkVisited(_ context.Context, event *LinkVisitedEvent) error {
	s.logger.Info("link visited",
		zap.String("code", event.Code),
		zap.Time("visited_at", event.VisitedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// Compile-time check.
var _ Sink = (*LogSink)(nil)
