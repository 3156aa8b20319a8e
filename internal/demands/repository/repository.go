// Package repository provides PostgreSQL persistence for demands and their matches.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"estatematch_backend/internal/demands/domain"
	"estatematch_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate       = "demands.repository.create"
	opGetByID      = "demands.repository.get_by_id"
	opList         = "demands.repository.list"
	opListOpen     = "demands.repository.list_open"
	opUpdateStatus = "demands.repository.update_status"
	opSaveMatches  = "demands.repository.save_matches"

	errRepoNotConfigured = "demands repository not configured"
)

// Demand is a structured property request: a buyer search or a seller offer.
type Demand struct {
	ID                 uuid.UUID               `json:"id"`
	Type               domain.Type             `json:"type"`
	Status             domain.Status           `json:"status"`
	LeadID             *uuid.UUID              `json:"leadId,omitempty"`
	ContactName        string                  `json:"contactName"`
	ContactPhone       string                  `json:"contactPhone"`
	ContactEmail       string                  `json:"contactEmail"`
	Urgency            string                  `json:"urgency"`
	Source             string                  `json:"source"`
	Criteria           *domain.Criteria        `json:"criteria,omitempty"`
	PropertyDetails    *domain.PropertyDetails `json:"propertyDetails,omitempty"`
	Matches            []domain.PropertyMatch  `json:"matches"`
	MatchedPropertyIDs []string                `json:"matchedPropertyIds"`
	BestMatchScore     int                     `json:"bestMatchScore"`
	LastMatchCheck     *time.Time              `json:"lastMatchCheck,omitempty"`
	Version            int                     `json:"version"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

// CreateParams carries the fields needed to insert a demand.
type CreateParams struct {
	Type            domain.Type
	LeadID          *uuid.UUID
	ContactName     string
	ContactPhone    string
	ContactEmail    string
	Urgency         string
	Source          string
	Criteria        *domain.Criteria
	PropertyDetails *domain.PropertyDetails
}

// MatchResults is the orchestrator's persisted output for one scan.
type MatchResults struct {
	Matches            []domain.PropertyMatch
	MatchedPropertyIDs []string
	BestMatchScore     int
	CheckedAt          time.Time
}

// Filter narrows demand listings.
type Filter struct {
	Status domain.Status
	Type   domain.Type
}

// Repository is the PostgreSQL-backed demand store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new demands repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const demandColumns = `id, type, status, lead_id, contact_name, contact_phone, contact_email,
	urgency, source, criteria, property_details, matches, matched_property_ids,
	best_match_score, last_match_check, version, created_at, updated_at`

func scanDemand(row pgx.Row) (Demand, error) {
	var d Demand
	var criteriaJSON, detailsJSON, matchesJSON []byte
	err := row.Scan(
		&d.ID, &d.Type, &d.Status, &d.LeadID, &d.ContactName, &d.ContactPhone,
		&d.ContactEmail, &d.Urgency, &d.Source, &criteriaJSON, &detailsJSON,
		&matchesJSON, &d.MatchedPropertyIDs, &d.BestMatchScore, &d.LastMatchCheck,
		&d.Version, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return Demand{}, err
	}

	if len(criteriaJSON) > 0 {
		var criteria domain.Criteria
		if err := json.Unmarshal(criteriaJSON, &criteria); err != nil {
			return Demand{}, fmt.Errorf("decode criteria: %w", err)
		}
		d.Criteria = &criteria
	}
	if len(detailsJSON) > 0 {
		var details domain.PropertyDetails
		if err := json.Unmarshal(detailsJSON, &details); err != nil {
			return Demand{}, fmt.Errorf("decode property details: %w", err)
		}
		d.PropertyDetails = &details
	}
	d.Matches = []domain.PropertyMatch{}
	if len(matchesJSON) > 0 {
		if err := json.Unmarshal(matchesJSON, &d.Matches); err != nil {
			return Demand{}, fmt.Errorf("decode matches: %w", err)
		}
	}
	if d.MatchedPropertyIDs == nil {
		d.MatchedPropertyIDs = []string{}
	}

	return d, nil
}

// Create inserts a new demand.
func (r *Repository) Create(ctx context.Context, p CreateParams) (Demand, error) {
	if r == nil || r.pool == nil {
		return Demand{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}

	var criteriaJSON, detailsJSON []byte
	var err error
	if p.Criteria != nil {
		if criteriaJSON, err = json.Marshal(p.Criteria); err != nil {
			return Demand{}, apperr.Internal(fmt.Sprintf("encode criteria failed: %v", err)).WithOp(opCreate)
		}
	}
	if p.PropertyDetails != nil {
		if detailsJSON, err = json.Marshal(p.PropertyDetails); err != nil {
			return Demand{}, apperr.Internal(fmt.Sprintf("encode property details failed: %v", err)).WithOp(opCreate)
		}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO demands
		(type, lead_id, contact_name, contact_phone, contact_email, urgency, source, criteria, property_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+demandColumns,
		p.Type, p.LeadID, p.ContactName, p.ContactPhone, p.ContactEmail,
		p.Urgency, p.Source, criteriaJSON, detailsJSON,
	)

	demand, err := scanDemand(row)
	if err != nil {
		return Demand{}, apperr.Internal(fmt.Sprintf("create demand failed: %v", err)).WithOp(opCreate)
	}

	return demand, nil
}

// GetByID fetches a single demand.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Demand, error) {
	if r == nil || r.pool == nil {
		return Demand{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetByID)
	}

	row := r.pool.QueryRow(ctx, `SELECT `+demandColumns+` FROM demands WHERE id = $1`, id)
	demand, err := scanDemand(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Demand{}, apperr.NotFound("demand not found").WithOp(opGetByID)
		}
		return Demand{}, apperr.Internal(fmt.Sprintf("get demand failed: %v", err)).WithOp(opGetByID)
	}

	return demand, nil
}

// List returns demands matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Demand, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}

	query := `SELECT ` + demandColumns + ` FROM demands WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list demands query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	return collectDemands(rows, opList)
}

// ListOpen returns every demand still eligible for rescans (new or processing).
func (r *Repository) ListOpen(ctx context.Context) ([]Demand, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListOpen)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+demandColumns+`
		FROM demands
		WHERE status IN ('new', 'processing')
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list open demands query failed: %v", err)).WithOp(opListOpen)
	}
	defer rows.Close()

	return collectDemands(rows, opListOpen)
}

// ListOpenSearches returns open property_search demands, used by the
// seller cross-match path.
func (r *Repository) ListOpenSearches(ctx context.Context) ([]Demand, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListOpen)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+demandColumns+`
		FROM demands
		WHERE type = 'property_search' AND status IN ('new', 'processing', 'matched')
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list open searches query failed: %v", err)).WithOp(opListOpen)
	}
	defer rows.Close()

	return collectDemands(rows, opListOpen)
}

// UpdateStatus moves a demand to a new status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Demand, error) {
	if r == nil || r.pool == nil {
		return Demand{}, apperr.Internal(errRepoNotConfigured).WithOp(opUpdateStatus)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE demands SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+demandColumns,
		id, status,
	)

	demand, err := scanDemand(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Demand{}, apperr.NotFound("demand not found").WithOp(opUpdateStatus)
		}
		return Demand{}, apperr.Internal(fmt.Sprintf("update demand status failed: %v", err)).WithOp(opUpdateStatus)
	}

	return demand, nil
}

// SaveMatchResults persists one scan's output behind an optimistic version
// check. A stale expectedVersion returns a Conflict so concurrent scans
// cannot clobber each other's appended matches.
func (r *Repository) SaveMatchResults(ctx context.Context, id uuid.UUID, expectedVersion int, results MatchResults) (Demand, error) {
	if r == nil || r.pool == nil {
		return Demand{}, apperr.Internal(errRepoNotConfigured).WithOp(opSaveMatches)
	}

	matches := results.Matches
	if matches == nil {
		matches = []domain.PropertyMatch{}
	}
	matchesJSON, err := json.Marshal(matches)
	if err != nil {
		return Demand{}, apperr.Internal(fmt.Sprintf("encode matches failed: %v", err)).WithOp(opSaveMatches)
	}

	matchedIDs := results.MatchedPropertyIDs
	if matchedIDs == nil {
		matchedIDs = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE demands SET
			matches = $3, matched_property_ids = $4, best_match_score = $5,
			last_match_check = $6, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING `+demandColumns,
		id, expectedVersion, matchesJSON, matchedIDs, results.BestMatchScore, results.CheckedAt,
	)

	demand, err := scanDemand(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Demand{}, apperr.Conflict("demand was modified concurrently").WithOp(opSaveMatches)
		}
		return Demand{}, apperr.Internal(fmt.Sprintf("save match results failed: %v", err)).WithOp(opSaveMatches)
	}

	return demand, nil
}

func collectDemands(rows pgx.Rows, op string) ([]Demand, error) {
	items := make([]Demand, 0)
	for rows.Next() {
		d, err := scanDemand(rows)
		if err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan demand failed: %v", err)).WithOp(op)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate demands failed: %v", err)).WithOp(op)
	}

	return items, nil
}
