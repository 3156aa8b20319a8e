package adapters

import (
	"context"

	catalogrepo "estatematch_backend/internal/catalog/repository"
	"estatematch_backend/internal/matching"
	"estatematch_backend/internal/search"

	"github.com/google/uuid"
)

// SearchIndexer adapts the search service to the catalog's indexer port, so
// catalog writes are mirrored into the vector index.
type SearchIndexer struct {
	search *search.Service
}

// NewSearchIndexer creates the adapter.
func NewSearchIndexer(svc *search.Service) *SearchIndexer {
	return &SearchIndexer{search: svc}
}

// IndexProperty mirrors a catalog property into the search index.
func (a *SearchIndexer) IndexProperty(ctx context.Context, property catalogrepo.Property) error {
	return a.search.Index(ctx, search.Document{
		ID:           property.ID.String(),
		Title:        property.Title,
		City:         property.City,
		Neighborhood: property.Neighborhood,
		Category:     property.Category,
		PropertyType: property.PropertyType,
		Price:        property.Price,
		Beds:         property.Beds,
		Baths:        property.Baths,
		Area:         property.Area,
		Features:     property.Features,
	})
}

// RemoveProperty drops a property from the search index.
func (a *SearchIndexer) RemoveProperty(ctx context.Context, id uuid.UUID) error {
	return a.search.Remove(ctx, id.String())
}

// SemanticSearcher adapts the search service to the matching engine's
// semantic port.
type SemanticSearcher struct {
	search *search.Service
}

// NewSemanticSearcher creates the adapter.
func NewSemanticSearcher(svc *search.Service) *SemanticSearcher {
	return &SemanticSearcher{search: svc}
}

// Search returns vector-search hits as matching candidates.
func (a *SemanticSearcher) Search(ctx context.Context, query string, limit int) ([]matching.Candidate, error) {
	hits, err := a.search.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]matching.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, matching.Candidate{
			ID:           hit.ID,
			Title:        hit.Title,
			City:         hit.City,
			Neighborhood: hit.Neighborhood,
			Category:     hit.Category,
			PropertyType: hit.PropertyType,
			Price:        hit.Price,
			Beds:         hit.Beds,
			Baths:        hit.Baths,
			Area:         hit.Area,
			Features:     hit.Features,
		})
	}
	return candidates, nil
}
