package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estatematch_backend/internal/adapters"
	"estatematch_backend/internal/agents"
	"estatematch_backend/internal/catalog"
	"estatematch_backend/internal/demands"
	"estatematch_backend/internal/email"
	"estatematch_backend/internal/events"
	apphttp "estatematch_backend/internal/http"
	"estatematch_backend/internal/http/router"
	"estatematch_backend/internal/leads"
	"estatematch_backend/internal/matching"
	"estatematch_backend/internal/notification"
	"estatematch_backend/internal/scheduler"
	"estatematch_backend/internal/search"
	"estatematch_backend/platform/ai/embeddings"
	"estatematch_backend/platform/config"
	"estatematch_backend/platform/db"
	"estatematch_backend/platform/logger"
	"estatematch_backend/platform/qdrant"
	"estatematch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	agentsModule := agents.NewModule(pool, val)
	catalogModule := catalog.NewModule(pool, val, log)
	demandsModule := demands.NewModule(pool, eventBus, cfg, val, log)
	notificationModule := notification.NewModule(pool, log)
	notificationModule.RegisterHandlers(eventBus)

	// Anti-corruption adapter: leads depend only on their own agent gateway
	agentsDirectory := adapters.NewAgentsDirectory(agentsModule.Repository())
	leadsModule := leads.NewModule(pool, agentsDirectory, eventBus, val, log)

	// Semantic search is optional; the orchestrator falls back to the catalog
	// listing when it is absent.
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
		catalogModule.Service().SetIndexer(adapters.NewSearchIndexer(searchSvc))
		semantic = adapters.NewSemanticSearcher(searchSvc)
		log.Info("semantic search enabled", "collection", cfg.GetQdrantCollection())
	} else {
		log.Warn("semantic search disabled; matching uses catalog listings only")
	}

	orchestrator := matching.New(
		demandsModule.Repository(),
		adapters.NewCatalogSource(catalogModule.Repository()),
		semantic,
		eventBus,
		cfg,
		log,
	)
	demandsModule.Service().SetMatcher(orchestrator)

	if cfg.GetRedisURL() != "" {
		matchScheduler, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize match scheduler client", "error", err)
		} else {
			defer matchScheduler.Close()
			demandsModule.Service().SetScheduler(matchScheduler)
			log.Info("deferred match scheduling enabled")
		}
	} else {
		log.Warn("REDIS_URL not configured; deferred match scheduling disabled")
	}

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

	// Periodic rescan keeps open demands fresh even when redis is down.
	rescanner := scheduler.NewRescanner(cfg.GetMatchInterval(), orchestrator.RescanOpenDemands, log)
	rescanner.Start(ctx)
	defer rescanner.Stop()

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			agentsModule,
			leadsModule,
			catalogModule,
			demandsModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
