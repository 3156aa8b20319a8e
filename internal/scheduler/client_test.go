package scheduler

import (
	"context"
	"testing"
	"time"

	"estatematch_backend/platform/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewClient(&config.Config{
		RedisURL:       "redis://" + mr.Addr(),
		AsynqQueueName: "test",
	})
	if err != nil {
		t.Fatalf("failed to create scheduler client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestEnqueueDemandMatchSchedulesTask(t *testing.T) {
	client, mr := newTestClient(t)
	demandID := uuid.New()

	if err := client.EnqueueDemandMatch(context.Background(), demandID, time.Minute); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("failed to list scheduled tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskDemandMatch {
		t.Fatalf("unexpected task type %s", tasks[0].Type)
	}

	payload, err := ParseDemandMatchPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if payload.DemandID != demandID.String() {
		t.Fatalf("payload carries wrong demand id %s", payload.DemandID)
	}
}

func TestEnqueueDemandMatchDebounces(t *testing.T) {
	client, mr := newTestClient(t)
	demandID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := client.EnqueueDemandMatch(context.Background(), demandID, time.Minute); err != nil {
			t.Fatalf("enqueue %d failed: %v", i, err)
		}
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("failed to list scheduled tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("repeated enqueues within the debounce window must collapse to 1, got %d", len(tasks))
	}

	// A different demand is not affected by the first demand's debounce key.
	if err := client.EnqueueDemandMatch(context.Background(), uuid.New(), time.Minute); err != nil {
		t.Fatalf("enqueue for second demand failed: %v", err)
	}
	tasks, err = inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("failed to list scheduled tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 scheduled tasks after second demand, got %d", len(tasks))
	}
}

func TestEnqueueDemandMatchAfterDebounceExpiry(t *testing.T) {
	client, mr := newTestClient(t)
	demandID := uuid.New()

	if err := client.EnqueueDemandMatch(context.Background(), demandID, time.Minute); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}

	mr.FastForward(debounceTTL + time.Second)

	if err := client.EnqueueDemandMatch(context.Background(), demandID, time.Minute); err != nil {
		t.Fatalf("second enqueue failed: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("failed to list scheduled tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks after the debounce window expired, got %d", len(tasks))
	}
}
