package scheduler

import (
	"context"
	"fmt"

	"estatematch_backend/internal/demands/repository"
	"estatematch_backend/platform/config"
	"estatematch_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// DemandMatcher is the slice of the matching orchestrator the worker needs.
type DemandMatcher interface {
	MatchDemand(ctx context.Context, demandID uuid.UUID, force bool) (repository.Demand, error)
}

// Worker consumes deferred match tasks from the asynq queue.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	matcher DemandMatcher
	log     *logger.Logger
}

// NewWorker creates a scheduler worker bound to the matching orchestrator.
func NewWorker(cfg config.SchedulerConfig, matcher DemandMatcher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		matcher: matcher,
		log:     log,
	}

	mux.HandleFunc(TaskDemandMatch, w.handleDemandMatch)

	return w, nil
}

func (w *Worker) handleDemandMatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDemandMatchPayload(task)
	if err != nil {
		return err
	}

	demandID, err := uuid.Parse(payload.DemandID)
	if err != nil {
		return err
	}

	_, err = w.matcher.MatchDemand(ctx, demandID, false)
	return err
}

// Run serves the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
