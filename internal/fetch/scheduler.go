package fetch

import (
	"context"
	"time"

	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

// Scheduler fires a callback at a fixed interval for auto-refresh. Ticks that
// arrive while the callback is still running are dropped, never queued, so a
// slow backend cannot build up a backlog of refreshes.
type Scheduler struct {
	interval time.Duration
	logger   logger.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(interval time.Duration, log logger.Logger) *Scheduler {
	return &Scheduler{interval: interval, logger: log}
}

// Start begins firing fn every interval. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start(fn func()) {
	if s.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	s.logger.Info("auto-refresh scheduler started", "interval", s.interval)
}

// Stop cancels the ticker loop and waits for it to exit. Safe to call on a
// scheduler that never started, and idempotent.
func (s *Scheduler) Stop() {
	if s.done == nil {
		return
	}
	s.cancel()
	<-s.done
	s.done = nil
	s.logger.Info("auto-refresh scheduler stopped")
}
