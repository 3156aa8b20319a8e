// Package search provides semantic property search over an embeddings model
// and a vector store. It mirrors catalog writes into the index and answers
// free-text queries with ranked property hits.
package search

import (
	"context"
	"fmt"
	"strings"

	"estatematch_backend/platform/logger"
	"estatematch_backend/platform/qdrant"
)

// Embedder turns free text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore is the slice of the vector database the service needs.
type VectorStore interface {
	Search(ctx context.Context, vector []float32, limit int) ([]qdrant.SearchResult, error)
	Upsert(ctx context.Context, points []qdrant.Point) error
	Delete(ctx context.Context, ids []string) error
}

// Document is a property as stored in the search index.
type Document struct {
	ID           string
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

// Hit is a ranked search result.
type Hit struct {
	Document
	Score float64
}

// Service indexes property documents and answers semantic queries.
type Service struct {
	embedder Embedder
	store    VectorStore
	log      *logger.Logger
}

// New creates a new search service.
func New(embedder Embedder, store VectorStore, log *logger.Logger) *Service {
	return &Service{embedder: embedder, store: store, log: log}
}

// Index embeds a document and upserts it into the vector store.
func (s *Service) Index(ctx context.Context, doc Document) error {
	vector, err := s.embedder.Embed(ctx, documentText(doc))
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}

	return s.store.Upsert(ctx, []qdrant.Point{{
		ID:     doc.ID,
		Vector: vector,
		Payload: map[string]interface{}{
			"title":        doc.Title,
			"city":         doc.City,
			"neighborhood": doc.Neighborhood,
			"category":     doc.Category,
			"propertyType": doc.PropertyType,
			"price":        doc.Price,
			"beds":         doc.Beds,
			"baths":        doc.Baths,
			"area":         doc.Area,
			"features":     doc.Features,
		},
	}})
}

// Remove drops a document from the index.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.Delete(ctx, []string{id})
}

// Search embeds the query and returns ranked hits rebuilt from point
// payloads.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.Search(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, Hit{
			Document: documentFromPayload(fmt.Sprintf("%v", r.ID), r.Payload),
			Score:    r.Score,
		})
	}
	return hits, nil
}

func documentText(doc Document) string {
	parts := []string{doc.Title, doc.PropertyType, doc.City, doc.Neighborhood}
	parts = append(parts, doc.Features...)
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			fields = append(fields, p)
		}
	}
	return strings.Join(fields, " ")
}

func documentFromPayload(id string, payload map[string]interface{}) Document {
	doc := Document{
		ID:           id,
		Title:        payloadString(payload, "title"),
		City:         payloadString(payload, "city"),
		Neighborhood: payloadString(payload, "neighborhood"),
		Category:     payloadString(payload, "category"),
		PropertyType: payloadString(payload, "propertyType"),
		Price:        payloadFloat(payload, "price"),
		Beds:         int(payloadFloat(payload, "beds")),
		Baths:        int(payloadFloat(payload, "baths")),
		Area:         payloadFloat(payload, "area"),
	}
	if raw, ok := payload["features"].([]interface{}); ok {
		for _, f := range raw {
			if s, ok := f.(string); ok {
				doc.Features = append(doc.Features, s)
			}
		}
	}
	return doc
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadFloat(payload map[string]interface{}, key string) float64 {
	if v, ok := payload[key].(float64); ok {
		return v
	}
	return 0
}
