// Package assignment distributes leads across agents with spare capacity.
package assignment

import (
	"context"

	"estatematch_backend/platform/apperr"

	"github.com/google/uuid"
)

const opAssign = "leads.assignment.assign"

// Candidate is an agent eligible to receive a lead.
type Candidate struct {
	ID           uuid.UUID
	Name         string
	CurrentLeads int
	MaxLeads     int
}

// Directory lists agents and adjusts their load. ListEligible returns only
// active agents below capacity, least loaded first. Reserve must be guarded so
// concurrent callers never push an agent past max_leads.
type Directory interface {
	ListEligible(ctx context.Context) ([]Candidate, error)
	Reserve(ctx context.Context, agentID uuid.UUID) (bool, error)
	Release(ctx context.Context, agentID uuid.UUID) error
}

// Assigner picks the least-loaded agent for each new lead.
type Assigner struct {
	dir Directory
}

// New creates a new assigner.
func New(dir Directory) *Assigner {
	return &Assigner{dir: dir}
}

// Assign reserves the least-loaded eligible agent and returns it.
// With zero eligible agents the lead stays unassigned; that is not an error.
func (a *Assigner) Assign(ctx context.Context) (*Candidate, error) {
	candidates, err := a.dir.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	// The reserve may lose a race to a concurrent assignment; fall through
	// to the next candidate when that happens.
	for i := range candidates {
		reserved, err := a.dir.Reserve(ctx, candidates[i].ID)
		if err != nil {
			return nil, err
		}
		if reserved {
			candidates[i].CurrentLeads++
			return &candidates[i], nil
		}
	}

	return nil, nil
}

// Reassign moves a lead's reservation from one agent to another. The new
// agent is reserved first so a full target never strands the lead unowned.
func (a *Assigner) Reassign(ctx context.Context, oldAgentID *uuid.UUID, newAgentID uuid.UUID) error {
	reserved, err := a.dir.Reserve(ctx, newAgentID)
	if err != nil {
		return err
	}
	if !reserved {
		return apperr.Conflict("agent is inactive or at capacity").WithOp(opAssign)
	}

	if oldAgentID != nil && *oldAgentID != newAgentID {
		if err := a.dir.Release(ctx, *oldAgentID); err != nil {
			return err
		}
	}

	return nil
}

// Release frees a slot when a lead leaves an agent's book.
func (a *Assigner) Release(ctx context.Context, agentID uuid.UUID) error {
	return a.dir.Release(ctx, agentID)
}
