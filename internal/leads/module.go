// Package leads provides the leads bounded context module.
package leads

import (
	"estatematch_backend/internal/events"
	apphttp "estatematch_backend/internal/http"
	"estatematch_backend/internal/leads/handler"
	"estatematch_backend/internal/leads/repository"
	"estatematch_backend/internal/leads/service"
	"estatematch_backend/platform/logger"
	"estatematch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module. The agent gateway is an
// anti-corruption adapter over the agents module (see internal/adapters).
func NewModule(pool *pgxpool.Pool, agents service.AgentGateway, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, agents, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/leads")
	group.POST("", m.handler.CreateLead)
	group.GET("", m.handler.ListLeads)
	group.GET("/:id", m.handler.GetLead)
	group.PATCH("/:id", m.handler.UpdateLead)
	group.POST("/:id/status", m.handler.ChangeLeadStatus)
	group.POST("/:id/assign", m.handler.AssignLead)
	group.GET("/:id/activities", m.handler.ListLeadActivities)
	group.DELETE("/:id", m.handler.DeleteLead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
