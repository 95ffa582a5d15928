package workers

import (
	"context"
	"sync"
	"time"

	"github.com/agrotrace/cropboard/internal/logger"
)

// RefreshJob calls a refresh function on a ticker, keeping the stores (and
// through them the local snapshot) warm even when the user never asks for a
// manual refresh. The job is idle until Run is called.
type RefreshJob struct {
	ctx      context.Context
	refresh  func(context.Context)
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Worker = (*RefreshJob)(nil)

// NewRefreshJob constructs the job. ctx bounds the lifetime of the background
// goroutine. If interval is zero or negative it defaults to 5 minutes.
func NewRefreshJob(ctx context.Context, refresh func(context.Context), interval time.Duration, log *logger.Logger) *RefreshJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RefreshJob{ctx: ctx, refresh: refresh, interval: interval, logger: log}
}

// Run stops any previously running job, then launches a goroutine that calls
// the refresh function every interval. It returns immediately; the goroutine
// exits when the job's context is cancelled or Stop is called.
func (j *RefreshJob) Run() {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(j.ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.refresh(jobCtx)
			}
		}
	}()

	j.logger.Debug().Dur("interval", j.interval).Msg("background refresh started")
}

// Stop cancels the background goroutine and blocks until it has exited. Safe
// to call when the job is not running.
func (j *RefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
