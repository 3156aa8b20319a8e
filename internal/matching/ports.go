package matching

import (
	"context"

	"estatematch_backend/internal/demands/domain"
	"estatematch_backend/internal/demands/repository"

	"github.com/google/uuid"
)

// DemandStore is the slice of demand persistence the orchestrator needs.
type DemandStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Demand, error)
	ListOpen(ctx context.Context) ([]repository.Demand, error)
	ListOpenSearches(ctx context.Context) ([]repository.Demand, error)
	SaveMatchResults(ctx context.Context, id uuid.UUID, expectedVersion int, results repository.MatchResults) (repository.Demand, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (repository.Demand, error)
}

// CatalogSource supplies candidate properties, optionally narrowed by
// transaction category (SALE or RENT).
type CatalogSource interface {
	ListByCategory(ctx context.Context, category string) ([]Candidate, error)
}

// SemanticSearcher augments the candidate pool with vector-search results.
// It is optional; any error makes the orchestrator fall back to the catalog
// listing alone.
type SemanticSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}
