// Package repository provides PostgreSQL persistence for agents.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estatematch_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate       = "agents.repository.create"
	opGetByID      = "agents.repository.get_by_id"
	opList         = "agents.repository.list"
	opListEligible = "agents.repository.list_eligible"
	opReserve      = "agents.repository.reserve"
	opRelease      = "agents.repository.release"
	opSetActive    = "agents.repository.set_active"

	errRepoNotConfigured = "agents repository not configured"
)

// Agent is a sales agent that leads can be assigned to.
type Agent struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	MaxLeads     int       `json:"maxLeads"`
	CurrentLeads int       `json:"currentLeads"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateParams carries the fields needed to insert an agent.
type CreateParams struct {
	Name     string
	Email    string
	Phone    string
	MaxLeads int
}

// Repository is the PostgreSQL-backed agent store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new agents repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const agentColumns = `id, name, email, phone, max_leads, current_leads, is_active, created_at, updated_at`

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.MaxLeads, &a.CurrentLeads,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create inserts a new agent.
func (r *Repository) Create(ctx context.Context, params CreateParams) (Agent, error) {
	if r == nil || r.pool == nil {
		return Agent{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO agents (name, email, phone, max_leads)
		VALUES ($1, $2, $3, $4)
		RETURNING `+agentColumns,
		params.Name, params.Email, params.Phone, params.MaxLeads,
	)

	a, err := scanAgent(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Agent{}, apperr.Conflict("an agent with this email already exists").WithOp(opCreate)
		}
		return Agent{}, apperr.Internal(fmt.Sprintf("create agent failed: %v", err)).WithOp(opCreate)
	}

	return a, nil
}

// GetByID fetches a single agent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	if r == nil || r.pool == nil {
		return Agent{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetByID)
	}

	row := r.pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
	a, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound("agent not found").WithOp(opGetByID)
		}
		return Agent{}, apperr.Internal(fmt.Sprintf("get agent failed: %v", err)).WithOp(opGetByID)
	}

	return a, nil
}

// List returns all agents.
func (r *Repository) List(ctx context.Context) ([]Agent, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY name`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list agents query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	return collectAgents(rows, opList)
}

// ListEligible returns active agents with spare capacity, least loaded first.
// Ties break on creation time so assignment stays deterministic.
func (r *Repository) ListEligible(ctx context.Context) ([]Agent, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListEligible)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+agentColumns+`
		FROM agents
		WHERE is_active = TRUE AND current_leads < max_leads
		ORDER BY current_leads ASC, created_at ASC
	`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list eligible agents query failed: %v", err)).WithOp(opListEligible)
	}
	defer rows.Close()

	return collectAgents(rows, opListEligible)
}

// Reserve increments an agent's load if capacity remains. The guard in the
// UPDATE keeps concurrent assignments from exceeding max_leads.
// Returns false when the agent was full or inactive.
func (r *Repository) Reserve(ctx context.Context, id uuid.UUID) (bool, error) {
	if r == nil || r.pool == nil {
		return false, apperr.Internal(errRepoNotConfigured).WithOp(opReserve)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE agents
		SET current_leads = current_leads + 1, updated_at = now()
		WHERE id = $1 AND is_active = TRUE AND current_leads < max_leads
	`, id)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("reserve agent capacity failed: %v", err)).WithOp(opReserve)
	}

	return tag.RowsAffected() > 0, nil
}

// Release decrements an agent's load, flooring at zero.
func (r *Repository) Release(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opRelease)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE agents
		SET current_leads = GREATEST(current_leads - 1, 0), updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("release agent capacity failed: %v", err)).WithOp(opRelease)
	}

	return nil
}

// SetActive toggles an agent's availability.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opSetActive)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE agents SET is_active = $2, updated_at = now() WHERE id = $1
	`, id, active)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("set agent active failed: %v", err)).WithOp(opSetActive)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("agent not found").WithOp(opSetActive)
	}

	return nil
}

func collectAgents(rows pgx.Rows, op string) ([]Agent, error) {
	items := make([]Agent, 0)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan agent failed: %v", err)).WithOp(op)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate agents failed: %v", err)).WithOp(op)
	}

	return items, nil
}
