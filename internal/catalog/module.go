// Package catalog provides the property catalog bounded context module.
package catalog

import (
	"estatematch_backend/internal/catalog/handler"
	"estatematch_backend/internal/catalog/repository"
	"estatematch_backend/internal/catalog/service"
	apphttp "estatematch_backend/internal/http"
	"estatematch_backend/platform/logger"
	"estatematch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/properties")
	group.POST("", m.handler.CreateProperty)
	group.GET("", m.handler.ListProperties)
	group.GET("/:id", m.handler.GetProperty)
	group.DELETE("/:id", m.handler.DeleteProperty)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
