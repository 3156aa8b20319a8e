// Package adapters contains anti-corruption adapters between bounded contexts,
// so each module depends only on its own interfaces.
package adapters

import (
	"context"

	agentsrepo "estatematch_backend/internal/agents/repository"
	"estatematch_backend/internal/leads/assignment"

	"github.com/google/uuid"
)

// AgentsDirectory adapts the agents repository to the leads assignment
// interfaces (assignment.Directory plus agent lookup).
type AgentsDirectory struct {
	repo *agentsrepo.Repository
}

// NewAgentsDirectory creates the adapter.
func NewAgentsDirectory(repo *agentsrepo.Repository) *AgentsDirectory {
	return &AgentsDirectory{repo: repo}
}

// ListEligible returns active agents below capacity, least loaded first.
func (d *AgentsDirectory) ListEligible(ctx context.Context) ([]assignment.Candidate, error) {
	agents, err := d.repo.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]assignment.Candidate, 0, len(agents))
	for _, a := range agents {
		candidates = append(candidates, toCandidate(a))
	}
	return candidates, nil
}

// Reserve increments an agent's load if capacity remains.
func (d *AgentsDirectory) Reserve(ctx context.Context, agentID uuid.UUID) (bool, error) {
	return d.repo.Reserve(ctx, agentID)
}

// Release decrements an agent's load.
func (d *AgentsDirectory) Release(ctx context.Context, agentID uuid.UUID) error {
	return d.repo.Release(ctx, agentID)
}

// Get fetches a single agent as an assignment candidate.
func (d *AgentsDirectory) Get(ctx context.Context, agentID uuid.UUID) (assignment.Candidate, error) {
	agent, err := d.repo.GetByID(ctx, agentID)
	if err != nil {
		return assignment.Candidate{}, err
	}
	return toCandidate(agent), nil
}

func toCandidate(a agentsrepo.Agent) assignment.Candidate {
	return assignment.Candidate{
		ID:           a.ID,
		Name:         a.Name,
		CurrentLeads: a.CurrentLeads,
		MaxLeads:     a.MaxLeads,
	}
}
