package broadcast

import (
	"context"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// Runner executes detached tasks: work that must keep running after the HTTP
// request that triggered it has already been answered. Tasks get a context
// derived from the process, not the request, so they survive the request
// lifecycle; Shutdown joins them during process stop so the guarantee of
// running to completion holds across a graceful exit.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewRunner creates a runner rooted in the background context.
func NewRunner(logger *zap.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Go starts fn as a detached task. Panics are recovered and logged; a
// panicking task never takes the process down.
func (r *Runner) Go(fn func(ctx context.Context)) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("panic in detached task",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
			}
		}()

		fn(r.ctx)
	}()
}

// Shutdown waits for in-flight tasks to finish. Tasks are not cancelled while
// the deadline holds — a started broadcast is not abortable — but if ctx
// expires first the remaining tasks are cancelled and the error returned.
func (r *Runner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		r.cancel()

		return ctx.Err()
	}
}
