// Package repository provides PostgreSQL persistence for the property catalog.
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
	opCreate  = "catalog.repository.create"
	opGetByID = "catalog.repository.get_by_id"
	opList    = "catalog.repository.list"
	opDelete  = "catalog.repository.delete"

	errRepoNotConfigured = "catalog repository not configured"
)

// Property is a listed property available for matching.
type Property struct {
	ID           uuid.UUID `json:"id"`
	Reference    string    `json:"reference"`
	Title        string    `json:"title"`
	City         string    `json:"city"`
	Neighborhood string    `json:"neighborhood"`
	Category     string    `json:"category"`
	PropertyType string    `json:"propertyType"`
	Price        float64   `json:"price"`
	Beds         int       `json:"beds"`
	Baths        int       `json:"baths"`
	Area         float64   `json:"area"`
	Features     []string  `json:"features"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateParams carries the fields needed to insert a property.
type CreateParams struct {
	Reference    string
	Title        string
	City         string
	Neighborhood string
	Category     string
	PropertyType string
	Price        float64
	Beds         int
	Baths        int
	Area         float64
	Features     []string
}

// Filter narrows property listings.
type Filter struct {
	Category string
	City     string
}

// Repository is the PostgreSQL-backed property catalog.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const propertyColumns = `id, reference, title, city, neighborhood, category, property_type, price, beds, baths, area, features, created_at`

func scanProperty(row pgx.Row) (Property, error) {
	var p Property
	err := row.Scan(
		&p.ID, &p.Reference, &p.Title, &p.City, &p.Neighborhood, &p.Category,
		&p.PropertyType, &p.Price, &p.Beds, &p.Baths, &p.Area, &p.Features, &p.CreatedAt,
	)
	return p, err
}

// Create inserts a new property.
func (r *Repository) Create(ctx context.Context, params CreateParams) (Property, error) {
	if r == nil || r.pool == nil {
		return Property{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}

	features := params.Features
	if features == nil {
		features = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO properties
		(reference, title, city, neighborhood, category, property_type, price, beds, baths, area, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+propertyColumns,
		params.Reference, params.Title, params.City, params.Neighborhood, params.Category,
		params.PropertyType, params.Price, params.Beds, params.Baths, params.Area, features,
	)

	p, err := scanProperty(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Property{}, apperr.Conflict("a property with this reference already exists").WithOp(opCreate)
		}
		return Property{}, apperr.Internal(fmt.Sprintf("create property failed: %v", err)).WithOp(opCreate)
	}

	return p, nil
}

// GetByID fetches a single property.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Property, error) {
	if r == nil || r.pool == nil {
		return Property{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetByID)
	}

	row := r.pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound("property not found").WithOp(opGetByID)
		}
		return Property{}, apperr.Internal(fmt.Sprintf("get property failed: %v", err)).WithOp(opGetByID)
	}

	return p, nil
}

// List returns properties matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Property, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		query += fmt.Sprintf(" AND city ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list properties query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Property, 0)
	for rows.Next() {
		p, scanErr := scanProperty(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan property failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, p)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate properties failed: %v", rowsErr)).WithOp(opList)
	}

	return items, nil
}

// Delete removes a property.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opDelete)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("delete property failed: %v", err)).WithOp(opDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("property not found").WithOp(opDelete)
	}

	return nil
}
