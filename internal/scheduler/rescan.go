package scheduler

import (
	"context"
	"sync"
	"time"

	"estatematch_backend/platform/logger"
)

// Rescanner invokes a batch match pass on a fixed interval. Start and Stop
// are idempotent; ticks never overlap because the loop runs one pass at a
// time and the staleness guard downstream skips freshly scanned demands.
type Rescanner struct {
	interval time.Duration
	rescan   func(ctx context.Context) (succeeded, failed int)
	log      *logger.Logger

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
}

// NewRescanner creates a rescanner around the given batch function.
func NewRescanner(interval time.Duration, rescan func(ctx context.Context) (int, int), log *logger.Logger) *Rescanner {
	return &Rescanner{
		interval: interval,
		rescan:   rescan,
		log:      log,
	}
}

// Start launches the periodic loop. Calling Start on a running rescanner is
// a no-op, so double starts never produce overlapping timers.
func (r *Rescanner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		r.log.Warn("rescanner already started, ignoring")
		return
	}
	r.started = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.loop(ctx, r.stop, r.done)
	r.log.Info("rescanner started", "interval", r.interval)
}

// Stop halts the loop and waits for an in-flight pass to finish. Safe to
// call at any time, including before Start or twice in a row.
func (r *Rescanner) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	stop, done := r.stop, r.done
	r.mu.Unlock()

	close(stop)
	<-done
	r.log.Info("rescanner stopped")
}

func (r *Rescanner) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			succeeded, failed := r.rescan(ctx)
			if failed > 0 {
				r.log.Warn("rescan pass had failures", "succeeded", succeeded, "failed", failed)
			}
		}
	}
}
