package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"estatematch_backend/platform/logger"
)

func TestRescannerRunsPasses(t *testing.T) {
	var passes atomic.Int32
	r := NewRescanner(10*time.Millisecond, func(context.Context) (int, int) {
		passes.Add(1)
		return 1, 0
	}, logger.New("test"))

	r.Start(context.Background())
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for passes.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 passes, got %d", passes.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRescannerDoubleStartIsNoop(t *testing.T) {
	var passes atomic.Int32
	r := NewRescanner(10*time.Millisecond, func(context.Context) (int, int) {
		passes.Add(1)
		// A slow pass makes overlap observable if two loops existed.
		time.Sleep(20 * time.Millisecond)
		return 0, 0
	}, logger.New("test"))

	r.Start(context.Background())
	r.Start(context.Background())
	defer r.Stop()

	time.Sleep(100 * time.Millisecond)
	got := passes.Load()
	// A single loop with a 10ms ticker and 20ms passes can complete at most
	// ~4 passes in 100ms. Two loops would roughly double that.
	if got > 6 {
		t.Fatalf("double start appears to have created two loops: %d passes", got)
	}
}

func TestRescannerStopIsIdempotent(t *testing.T) {
	r := NewRescanner(10*time.Millisecond, func(context.Context) (int, int) {
		return 0, 0
	}, logger.New("test"))

	// Stop before start must not block or panic.
	r.Stop()

	r.Start(context.Background())
	r.Stop()
	r.Stop()

	// Restart after stop works.
	var passes atomic.Int32
	r2 := NewRescanner(10*time.Millisecond, func(context.Context) (int, int) {
		passes.Add(1)
		return 0, 0
	}, logger.New("test"))
	r2.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	r2.Stop()

	after := passes.Load()
	time.Sleep(50 * time.Millisecond)
	if passes.Load() != after {
		t.Fatal("passes continued after Stop returned")
	}
}
