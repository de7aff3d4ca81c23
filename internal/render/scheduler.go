package render

import (
	"context"
	"sync"
	"time"
)

// frameDropThreshold bounds how many in-flight repaints a newer request may
// cancel in a row before one is allowed to finish.
const frameDropThreshold = 10

// Task is one repaint. It should return early once ctx is done.
type Task func(ctx context.Context)

// Scheduler holds at most one pending repaint. Scheduling replaces whatever
// has not run yet, so bursts of pointer events collapse into a single frame
// per tick.
type Scheduler struct {
	slot chan Task

	mu        sync.Mutex
	cancel    context.CancelFunc
	dropCount int
}

// NewScheduler returns an idle Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{slot: make(chan Task, 1)}
}

// Schedule makes t the pending task, discarding any earlier unexecuted one.
// A task that is currently running is asked to stop unless too many frames
// have already been dropped.
func (s *Scheduler) Schedule(t Task) {
	s.mu.Lock()
	if s.cancel != nil && s.dropCount < frameDropThreshold {
		s.cancel()
		s.dropCount++
	}
	s.mu.Unlock()
	for {
		select {
		case s.slot <- t:
			return
		default:
		}
		select {
		case <-s.slot:
		default:
		}
	}
}

// Pending reports whether a task is waiting for the next tick.
func (s *Scheduler) Pending() bool { return len(s.slot) > 0 }

// Tick runs the pending task, if any, on the calling goroutine.
func (s *Scheduler) Tick(ctx context.Context) bool {
	var t Task
	select {
	case t = <-s.slot:
	default:
		return false
	}
	tctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	t(tctx)
	s.mu.Lock()
	s.cancel = nil
	if tctx.Err() == nil {
		s.dropCount = 0
	}
	s.mu.Unlock()
	cancel()
	return true
}

// Cancel drops the pending task and stops a running one.
func (s *Scheduler) Cancel() {
	select {
	case <-s.slot:
	default:
	}
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

// Run ticks every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Cancel()
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}
