// Package agents provides the agents bounded context module.
package agents

import (
	"estatematch_backend/internal/agents/handler"
	"estatematch_backend/internal/agents/repository"
	"estatematch_backend/internal/agents/service"
	apphttp "estatematch_backend/internal/http"
	"estatematch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the agents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the agents module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agents"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts agent routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/agents")
	group.POST("", m.handler.CreateAgent)
	group.GET("", m.handler.ListAgents)
	group.GET("/:id", m.handler.GetAgent)
	group.PATCH("/:id/active", m.handler.SetAgentActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
