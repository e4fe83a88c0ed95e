// Package scheduler drives the pipeline: one batch immediately at startup,
// then one per interval, plus ad-hoc batches on demand. A daily cleanup sweep
// piggybacks on the same loop so there is never a second timer. All batches
// run on the loop goroutine, which is what serializes them.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// BatchRunner is the pipeline surface the scheduler drives.
type BatchRunner interface {
	RunBatch(ctx context.Context) error
	CleanupExpired(ctx context.Context) (int, error)
}

const defaultCleanupEvery = 24 * time.Hour

type Scheduler struct {
	runner   BatchRunner
	interval time.Duration

	// cleanupEvery is fixed at 24h in production; a field so tests can
	// shrink it.
	cleanupEvery time.Duration

	trigger chan struct{}

	// mu guards the bookkeeping timestamps only and is never held across a
	// batch or a store call.
	mu          sync.Mutex
	lastRun     time.Time
	lastCleanup time.Time
}

func New(runner BatchRunner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:       runner,
		interval:     interval,
		cleanupEvery: defaultCleanupEvery,
		trigger:      make(chan struct{}, 1),
	}
}

// TriggerNow requests an ad-hoc batch. It never blocks; if a trigger is
// already pending the request coalesces into it.
func (s *Scheduler) TriggerNow() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// LastRun reports when the most recent batch started. Zero before the first.
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// Run blocks until ctx is cancelled. Failures of either activity are logged
// and the loop continues on the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("Scheduler starting", "interval", s.interval.String())

	s.mu.Lock()
	s.lastCleanup = time.Now()
	s.mu.Unlock()

	s.runBatch(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			s.runBatch(ctx)
			s.maybeCleanup(ctx)
		case <-s.trigger:
			slog.Info("Running ad-hoc batch")
			s.runBatch(ctx)
		}
	}
}

func (s *Scheduler) runBatch(ctx context.Context) {
	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()

	if err := s.runner.RunBatch(ctx); err != nil {
		slog.Error("Batch failed", "error", err)
	}
}

func (s *Scheduler) maybeCleanup(ctx context.Context) {
	s.mu.Lock()
	due := time.Since(s.lastCleanup) >= s.cleanupEvery
	s.mu.Unlock()
	if !due {
		return
	}

	// The timestamp resets even on failure; a broken store gets one attempt
	// per period, not one per tick.
	if count, err := s.runner.CleanupExpired(ctx); err != nil {
		slog.Error("Cleanup sweep failed", "error", err)
	} else {
		slog.Info("Cleanup sweep finished", "deleted", count)
	}

	s.mu.Lock()
	s.lastCleanup = time.Now()
	s.mu.Unlock()
}
