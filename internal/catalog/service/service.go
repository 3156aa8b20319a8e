// Package service implements the catalog business logic.
package service

import (
	"context"

	"estatematch_backend/internal/catalog/repository"
	"estatematch_backend/internal/catalog/transport"
	"estatematch_backend/platform/logger"

	"github.com/google/uuid"
)

// PropertyIndexer mirrors catalog writes into an external search index.
// Indexing failures are logged and never block the write path.
type PropertyIndexer interface {
	IndexProperty(ctx context.Context, property repository.Property) error
	RemoveProperty(ctx context.Context, id uuid.UUID) error
}

// Service coordinates catalog persistence and search indexing.
type Service struct {
	repo    *repository.Repository
	indexer PropertyIndexer
	log     *logger.Logger
}

// New creates a new catalog service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetIndexer wires the optional search indexer.
func (s *Service) SetIndexer(indexer PropertyIndexer) {
	s.indexer = indexer
}

// Create registers a new property and mirrors it into the search index.
func (s *Service) Create(ctx context.Context, req transport.CreatePropertyRequest) (repository.Property, error) {
	property, err := s.repo.Create(ctx, repository.CreateParams{
		Reference:    req.Reference,
		Title:        req.Title,
		City:         req.City,
		Neighborhood: req.Neighborhood,
		Category:     req.Category,
		PropertyType: req.PropertyType,
		Price:        req.Price,
		Beds:         req.Beds,
		Baths:        req.Baths,
		Area:         req.Area,
		Features:     req.Features,
	})
	if err != nil {
		return repository.Property{}, err
	}

	if s.indexer != nil {
		if indexErr := s.indexer.IndexProperty(ctx, property); indexErr != nil {
			s.log.Warn("property indexing failed", "propertyId", property.ID, "error", indexErr)
		}
	}

	return property, nil
}

// GetByID fetches a single property.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Property, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns properties matching the filter.
func (s *Service) List(ctx context.Context, filter repository.Filter) ([]repository.Property, error) {
	return s.repo.List(ctx, filter)
}

// Delete removes a property and its index entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.indexer != nil {
		if indexErr := s.indexer.RemoveProperty(ctx, id); indexErr != nil {
			s.log.Warn("property de-indexing failed", "propertyId", id, "error", indexErr)
		}
	}

	return nil
}
