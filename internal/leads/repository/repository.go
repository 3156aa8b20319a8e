// Package repository provides PostgreSQL persistence for leads and their activity log.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"estatematch_backend/internal/leads/domain"
	"estatematch_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate         = "leads.repository.create"
	opGetByID        = "leads.repository.get_by_id"
	opList           = "leads.repository.list"
	opUpdateProfile  = "leads.repository.update_profile"
	opUpdateStatus   = "leads.repository.update_status"
	opSetScore       = "leads.repository.set_score"
	opSetAgent       = "leads.repository.set_agent"
	opSoftDelete     = "leads.repository.soft_delete"
	opHardDelete     = "leads.repository.hard_delete"
	opAddActivity    = "leads.repository.add_activity"
	opListActivities = "leads.repository.list_activities"

	errRepoNotConfigured = "leads repository not configured"
)

// Lead is a qualified sales-pipeline contact.
type Lead struct {
	ID                 uuid.UUID      `json:"id"`
	FirstName          string         `json:"firstName"`
	LastName           string         `json:"lastName"`
	Email              string         `json:"email"`
	Phone              string         `json:"phone"`
	Status             domain.Status  `json:"status"`
	Urgency            domain.Urgency `json:"urgency"`
	UrgencyExplicit    bool           `json:"urgencyExplicit"`
	Score              int            `json:"score"`
	Source             domain.Source  `json:"source"`
	TransactionType    *string        `json:"transactionType,omitempty"`
	BudgetMin          *float64       `json:"budgetMin,omitempty"`
	BudgetMax          *float64       `json:"budgetMax,omitempty"`
	PropertyInterest   *string        `json:"propertyInterest,omitempty"`
	PreferredLocations []string       `json:"preferredLocations"`
	ChatMessageCount   int            `json:"chatMessageCount"`
	AssignedAgentID    *uuid.UUID     `json:"assignedAgentId,omitempty"`
	Notes              string         `json:"notes"`
	ConvertedAt        *time.Time     `json:"convertedAt,omitempty"`
	LostAt             *time.Time     `json:"lostAt,omitempty"`
	DeletedAt          *time.Time     `json:"deletedAt,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Activity is one entry in a lead's ordered activity log.
type Activity struct {
	ID        uuid.UUID       `json:"id"`
	LeadID    uuid.UUID       `json:"leadId"`
	Type      string          `json:"type"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CreateParams carries the fields needed to insert a lead.
type CreateParams struct {
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	Urgency            domain.Urgency
	UrgencyExplicit    bool
	Score              int
	Source             domain.Source
	TransactionType    *string
	BudgetMin          *float64
	BudgetMax          *float64
	PropertyInterest   *string
	PreferredLocations []string
	ChatMessageCount   int
	AssignedAgentID    *uuid.UUID
	Notes              string
}

// ProfileParams carries the mutable scoring-input fields of a lead.
type ProfileParams struct {
	Source             domain.Source
	Urgency            domain.Urgency
	UrgencyExplicit    bool
	Score              int
	TransactionType    *string
	BudgetMin          *float64
	BudgetMax          *float64
	PropertyInterest   *string
	PreferredLocations []string
	ChatMessageCount   int
	Notes              string
}

// Filter narrows lead listings. Soft-deleted leads are excluded unless
// IncludeDeleted is set.
type Filter struct {
	Status          domain.Status
	AssignedAgentID *uuid.UUID
	IncludeDeleted  bool
}

// Repository is the PostgreSQL-backed lead store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, first_name, last_name, email, phone, status, urgency, urgency_explicit,
	score, source, transaction_type, budget_min, budget_max, property_interest,
	preferred_locations, chat_message_count, assigned_agent_id, notes,
	converted_at, lost_at, deleted_at, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Status, &l.Urgency,
		&l.UrgencyExplicit, &l.Score, &l.Source, &l.TransactionType, &l.BudgetMin,
		&l.BudgetMax, &l.PropertyInterest, &l.PreferredLocations, &l.ChatMessageCount,
		&l.AssignedAgentID, &l.Notes, &l.ConvertedAt, &l.LostAt, &l.DeletedAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Create inserts a new lead.
func (r *Repository) Create(ctx context.Context, p CreateParams) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}

	locations := p.PreferredLocations
	if locations == nil {
		locations = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads
		(first_name, last_name, email, phone, urgency, urgency_explicit, score, source,
		 transaction_type, budget_min, budget_max, property_interest, preferred_locations,
		 chat_message_count, assigned_agent_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+leadColumns,
		p.FirstName, p.LastName, p.Email, p.Phone, p.Urgency, p.UrgencyExplicit, p.Score,
		p.Source, p.TransactionType, p.BudgetMin, p.BudgetMax, p.PropertyInterest,
		locations, p.ChatMessageCount, p.AssignedAgentID, p.Notes,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, apperr.Internal(fmt.Sprintf("create lead failed: %v", err)).WithOp(opCreate)
	}

	return lead, nil
}

// GetByID fetches a single lead, soft-deleted included.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetByID)
	}

	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found").WithOp(opGetByID)
		}
		return Lead{}, apperr.Internal(fmt.Sprintf("get lead failed: %v", err)).WithOp(opGetByID)
	}

	return lead, nil
}

// List returns leads matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Lead, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if !filter.IncludeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.AssignedAgentID != nil {
		args = append(args, *filter.AssignedAgentID)
		query += fmt.Sprintf(" AND assigned_agent_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list leads query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, scanErr := scanLead(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan lead failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, lead)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate leads failed: %v", rowsErr)).WithOp(opList)
	}

	return items, nil
}

// UpdateProfile overwrites a lead's scoring-input fields together with the
// recomputed score and urgency, keeping the stored score consistent.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfileParams) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Internal(errRepoNotConfigured).WithOp(opUpdateProfile)
	}

	locations := p.PreferredLocations
	if locations == nil {
		locations = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			source = $2, urgency = $3, urgency_explicit = $4, score = $5,
			transaction_type = $6, budget_min = $7, budget_max = $8,
			property_interest = $9, preferred_locations = $10,
			chat_message_count = $11, notes = $12, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+leadColumns,
		id, p.Source, p.Urgency, p.UrgencyExplicit, p.Score, p.TransactionType,
		p.BudgetMin, p.BudgetMax, p.PropertyInterest, locations,
		p.ChatMessageCount, p.Notes,
	)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found").WithOp(opUpdateProfile)
		}
		return Lead{}, apperr.Internal(fmt.Sprintf("update lead profile failed: %v", err)).WithOp(opUpdateProfile)
	}

	return lead, nil
}

// UpdateStatus moves a lead to a new status, stamping converted_at or lost_at
// on the terminal transitions.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Internal(errRepoNotConfigured).WithOp(opUpdateStatus)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			status = $2,
			converted_at = CASE WHEN $2 = 'won' THEN now() ELSE converted_at END,
			lost_at = CASE WHEN $2 = 'lost' THEN now() ELSE lost_at END,
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+leadColumns,
		id, status,
	)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found").WithOp(opUpdateStatus)
		}
		return Lead{}, apperr.Internal(fmt.Sprintf("update lead status failed: %v", err)).WithOp(opUpdateStatus)
	}

	return lead, nil
}

// SetAssignedAgent points the lead at an agent (or clears it with nil).
func (r *Repository) SetAssignedAgent(ctx context.Context, id uuid.UUID, agentID *uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opSetAgent)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET assigned_agent_id = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, agentID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("set lead agent failed: %v", err)).WithOp(opSetAgent)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found").WithOp(opSetAgent)
	}

	return nil
}

// SoftDelete flags a lead as deleted without erasing it.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opSoftDelete)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("soft delete lead failed: %v", err)).WithOp(opSoftDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found").WithOp(opSoftDelete)
	}

	return nil
}

// HardDelete erases a lead and its activity log. Explicit callers only.
func (r *Repository) HardDelete(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opHardDelete)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("hard delete lead failed: %v", err)).WithOp(opHardDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found").WithOp(opHardDelete)
	}

	return nil
}

// AddActivity appends one entry to the lead's activity log.
func (r *Repository) AddActivity(ctx context.Context, leadID uuid.UUID, activityType string, metadata map[string]interface{}) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opAddActivity)
	}

	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("marshal activity metadata failed: %v", err)).WithOp(opAddActivity)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO lead_activities (lead_id, type, metadata) VALUES ($1, $2, $3)
	`, leadID, activityType, metadataJSON)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("add lead activity failed: %v", err)).WithOp(opAddActivity)
	}

	return nil
}

// ListActivities returns a lead's activity log, newest first.
func (r *Repository) ListActivities(ctx context.Context, leadID uuid.UUID) ([]Activity, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListActivities)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, type, metadata, created_at
		FROM lead_activities
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list lead activities failed: %v", err)).WithOp(opListActivities)
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		if scanErr := rows.Scan(&a.ID, &a.LeadID, &a.Type, &a.Metadata, &a.CreatedAt); scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan lead activity failed: %v", scanErr)).WithOp(opListActivities)
		}
		items = append(items, a)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate lead activities failed: %v", rowsErr)).WithOp(opListActivities)
	}

	return items, nil
}
