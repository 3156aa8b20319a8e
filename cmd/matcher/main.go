// The matcher binary runs the matching workload out of process: it consumes
// deferred match tasks from the asynq queue and drives the periodic rescan
// of open demands.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estatematch_backend/internal/adapters"
	catalogrepo "estatematch_backend/internal/catalog/repository"
	demandsrepo "estatematch_backend/internal/demands/repository"
	"estatematch_backend/internal/email"
	"estatematch_backend/internal/events"
	"estatematch_backend/internal/matching"
	"estatematch_backend/internal/notification"
	"estatematch_backend/internal/scheduler"
	"estatematch_backend/internal/search"
	"estatematch_backend/platform/ai/embeddings"
	"estatematch_backend/platform/config"
	"estatematch_backend/platform/db"
	"estatematch_backend/platform/logger"
	"estatematch_backend/platform/qdrant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting matcher worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	// Side-effect subscribers run in this process too, so matches found by
	// the worker still produce notifications and mail.
	notificationModule := notification.NewModule(pool, log)
	notificationModule.RegisterHandlers(eventBus)

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		)
	}
	emailModule := email.NewModule(sender, cfg.GetAgencyInboxAddress(), log)
	emailModule.RegisterHandlers(eventBus)

	var semantic matching.SemanticSearcher
	if cfg.IsQdrantEnabled() && cfg.IsEmbeddingEnabled() {
		searchSvc := search.New(
			embeddings.NewClient(embeddings.Config{
				BaseURL: cfg.GetEmbeddingAPIURL(),
				APIKey:  cfg.GetEmbeddingAPIKey(),
			}),
			qdrant.NewClient(qdrant.Config{
				BaseURL:    cfg.GetQdrantURL(),
				APIKey:     cfg.GetQdrantAPIKey(),
				Collection: cfg.GetQdrantCollection(),
			}),
			log,
		)
		semantic = adapters.NewSemanticSearcher(searchSvc)
	}

	orchestrator := matching.New(
		demandsrepo.New(pool),
		adapters.NewCatalogSource(catalogrepo.New(pool)),
		semantic,
		eventBus,
		cfg,
		log,
	)

	rescanner := scheduler.NewRescanner(cfg.GetMatchInterval(), orchestrator.RescanOpenDemands, log)
	rescanner.Start(ctx)
	defer rescanner.Stop()

	worker, err := scheduler.NewWorker(cfg, orchestrator, log)
	if err != nil {
		log.Warn("queue worker disabled, running rescans only", "error", err)
		<-ctx.Done()
		log.Info("shutdown signal received")
		return
	}

	worker.Run(ctx)

	// Give in-flight event handlers a moment to finish.
	time.Sleep(time.Second)
	log.Info("matcher worker stopped")
}
