package adapters

import (
	"context"

	catalogrepo "estatematch_backend/internal/catalog/repository"
	"estatematch_backend/internal/matching"
)

// CatalogSource adapts the catalog repository to the matching engine's
// candidate port.
type CatalogSource struct {
	repo *catalogrepo.Repository
}

// NewCatalogSource creates the adapter.
func NewCatalogSource(repo *catalogrepo.Repository) *CatalogSource {
	return &CatalogSource{repo: repo}
}

// ListByCategory returns catalog properties as matching candidates,
// optionally narrowed to SALE or RENT.
func (a *CatalogSource) ListByCategory(ctx context.Context, category string) ([]matching.Candidate, error) {
	properties, err := a.repo.List(ctx, catalogrepo.Filter{Category: category})
	if err != nil {
		return nil, err
	}

	candidates := make([]matching.Candidate, 0, len(properties))
	for _, p := range properties {
		candidates = append(candidates, matching.Candidate{
			ID:           p.ID.String(),
			Title:        p.Title,
			City:         p.City,
			Neighborhood: p.Neighborhood,
			Category:     p.Category,
			PropertyType: p.PropertyType,
			Price:        p.Price,
			Beds:         p.Beds,
			Baths:        p.Baths,
			Area:         p.Area,
			Features:     p.Features,
		})
	}
	return candidates, nil
}
