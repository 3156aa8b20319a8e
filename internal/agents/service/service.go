// Package service implements the agents business logic.
package service

import (
	"context"

	"estatematch_backend/internal/agents/repository"
	"estatematch_backend/internal/agents/transport"

	"github.com/google/uuid"
)

const defaultMaxLeads = 20

// Service coordinates agent persistence.
type Service struct {
	repo *repository.Repository
}

// New creates a new agents service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new agent.
func (s *Service) Create(ctx context.Context, req transport.CreateAgentRequest) (repository.Agent, error) {
	maxLeads := req.MaxLeads
	if maxLeads == 0 {
		maxLeads = defaultMaxLeads
	}

	return s.repo.Create(ctx, repository.CreateParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		MaxLeads: maxLeads,
	})
}

// GetByID fetches a single agent.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Agent, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all agents.
func (s *Service) List(ctx context.Context) ([]repository.Agent, error) {
	return s.repo.List(ctx)
}

// SetActive toggles an agent's availability.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}
