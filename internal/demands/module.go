// Package demands provides the demands bounded context module.
package demands

import (
	"estatematch_backend/internal/demands/handler"
	"estatematch_backend/internal/demands/repository"
	"estatematch_backend/internal/demands/service"
	"estatematch_backend/internal/events"
	apphttp "estatematch_backend/internal/http"
	"estatematch_backend/platform/config"
	"estatematch_backend/platform/logger"
	"estatematch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the demands bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the demands module. The matcher and
// scheduler are attached afterwards through the service setters, since the
// orchestrator itself depends on this module's repository.
func NewModule(pool *pgxpool.Pool, bus events.Bus, cfg config.MatchingConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "demands"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts demand routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/demands")
	group.POST("", m.handler.CreateDemand)
	group.GET("", m.handler.ListDemands)
	group.GET("/:id", m.handler.GetDemand)
	group.POST("/:id/status", m.handler.ChangeDemandStatus)
	group.GET("/:id/matches", m.handler.GetDemandMatches)
	group.GET("/:id/cross-matches", m.handler.GetDemandCrossMatches)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
