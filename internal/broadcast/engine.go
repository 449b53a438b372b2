package broadcast

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/registry"
	"github.com/Johndevils/Url-shorter-bot/internal/telegram"
)

const reportFormat = "Broadcast complete.\n✅ Sent successfully to %d users.\n❌ Failed for %d users."

// Engine delivers one message to every registered recipient in parallel and
// reports a success/failure tally to the admin afterwards. Partial failure is
// the expected steady state: per-recipient errors are counted, never
// escalated, and the engine itself never fails as a whole.
type Engine struct {
	registry registry.Registry
	gateway  telegram.Gateway
	runner   *Runner
	logger   *zap.Logger
}

// NewEngine creates a broadcast engine.
func NewEngine(reg registry.Registry, gw telegram.Gateway, runner *Runner, logger *zap.Logger) *Engine {
	return &Engine{
		registry: reg,
		gateway:  gw,
		runner:   runner,
		logger:   logger,
	}
}

// Launch snapshots the recipient set and hands delivery to a detached task,
// returning the snapshot size immediately. Recipients registered after this
// point are not part of the job. The only error path is the snapshot read;
// once the task is launched there is no cancellation and no retry state.
func (e *Engine) Launch(ctx context.Context, text string, adminChatID int64) (int, error) {
	recipients, err := e.registry.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot recipients: %w", err)
	}

	jobID := uuid.NewString()

	e.logger.Info("broadcast launched",
		zap.String("job", jobID),
		zap.Int("recipients", len(recipients)),
	)

	e.runner.Go(func(ctx context.Context) {
		e.deliver(ctx, jobID, text, adminChatID, recipients)
	})

	return len(recipients), nil
}

// deliver fans out one attempt per recipient, waits for all of them, then
// sends exactly one report. sent + failed always equals len(recipients).
func (e *Engine) deliver(ctx context.Context, jobID, text string, adminChatID int64, recipients []int64) {
	start := time.Now()

	var sent, failed atomic.Int64

	var wg sync.WaitGroup
	for _, chatID := range recipients {
		wg.Add(1)

		go func(chatID int64) {
			defer wg.Done()

			if err := e.gateway.SendText(ctx, chatID, text, nil); err != nil {
				failed.Add(1)
				e.logger.Debug("broadcast delivery failed",
					zap.String("job", jobID),
					zap.Int64("chat_id", chatID),
					zap.Error(err),
				)

				return
			}

			sent.Add(1)
		}(chatID)
	}

	wg.Wait()

	report := fmt.Sprintf(reportFormat, sent.Load(), failed.Load())
	if err := e.gateway.SendText(ctx, adminChatID, report, nil); err != nil {
		e.logger.Error("broadcast report delivery failed",
			zap.String("job", jobID),
			zap.Error(err),
		)
	}

	e.logger.Info("broadcast finished",
		zap.String("job", jobID),
		zap.Int64("sent", sent.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("took", time.Since(start)),
	)
}
