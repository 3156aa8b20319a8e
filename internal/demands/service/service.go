// Package service implements the demands business logic: intake, lifecycle
// transitions and the bridge to the matching engine.
package service

import (
	"context"
	"fmt"
	"time"

	"estatematch_backend/internal/demands/domain"
	"estatematch_backend/internal/demands/repository"
	"estatematch_backend/internal/demands/transport"
	"estatematch_backend/internal/events"
	"estatematch_backend/platform/apperr"
	"estatematch_backend/platform/config"
	"estatematch_backend/platform/logger"
	"estatematch_backend/platform/phone"

	"github.com/google/uuid"
)

// Matcher runs the matching engine against one demand. It is implemented by
// the matching orchestrator and wired in at composition time.
type Matcher interface {
	MatchDemand(ctx context.Context, demandID uuid.UUID, force bool) (repository.Demand, error)
	CrossMatch(ctx context.Context, demandID uuid.UUID) ([]domain.CrossMatch, error)
}

// MatchScheduler enqueues a deferred match run, letting the creation write
// settle before the first scan.
type MatchScheduler interface {
	EnqueueDemandMatch(ctx context.Context, demandID uuid.UUID, delay time.Duration) error
}

// Service coordinates demand intake, lifecycle and match access.
type Service struct {
	repo      *repository.Repository
	matcher   Matcher
	scheduler MatchScheduler
	bus       events.Bus
	cfg       config.MatchingConfig
	log       *logger.Logger
}

// New creates a new demands service. The matcher and scheduler are attached
// afterwards via SetMatcher and SetScheduler; both may stay nil in
// deployments that run matching out of process.
func New(repo *repository.Repository, bus events.Bus, cfg config.MatchingConfig, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		cfg:  cfg,
		log:  log,
	}
}

// SetMatcher attaches the matching engine. The orchestrator depends on the
// demands repository, so it is constructed after this service and wired back
// in at composition time.
func (s *Service) SetMatcher(m Matcher) {
	s.matcher = m
}

// SetScheduler attaches the deferred match scheduler.
func (s *Service) SetScheduler(sched MatchScheduler) {
	s.scheduler = sched
}

// Create registers a new demand and, for buyer searches, schedules the first
// match run after a short settle delay.
func (s *Service) Create(ctx context.Context, req transport.CreateDemandRequest) (repository.Demand, error) {
	demandType := domain.Type(req.Type)

	if demandType == domain.TypePropertySearch && req.PropertyDetails != nil {
		return repository.Demand{}, apperr.Validation("property_search demands carry criteria, not propertyDetails")
	}
	if demandType.IsSeller() && req.Criteria != nil {
		return repository.Demand{}, apperr.Validation("seller demands carry propertyDetails, not criteria")
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = "medium"
	}
	source := req.Source
	if source == "" {
		source = "other"
	}

	var leadID *uuid.UUID
	if req.LeadID != "" {
		id, err := uuid.Parse(req.LeadID)
		if err != nil {
			return repository.Demand{}, apperr.Validation("leadId must be a valid uuid")
		}
		leadID = &id
	}

	params := repository.CreateParams{
		Type:            demandType,
		LeadID:          leadID,
		ContactName:     req.ContactName,
		ContactPhone:    phone.NormalizeE164(req.ContactPhone),
		ContactEmail:    req.ContactEmail,
		Urgency:         urgency,
		Source:          source,
		Criteria:        toCriteria(req.Criteria),
		PropertyDetails: toPropertyDetails(req.PropertyDetails),
	}

	demand, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.Demand{}, err
	}

	location := ""
	if demand.Criteria != nil && len(demand.Criteria.Locations) > 0 {
		location = demand.Criteria.Locations[0]
	}
	s.bus.Publish(ctx, events.DemandCreated{
		BaseEvent:       events.NewBaseEvent(),
		DemandID:        demand.ID,
		LeadID:          demand.LeadID,
		TransactionType: transactionType(demand),
		PropertyType:    propertyType(demand),
		Location:        location,
	})

	if demandType == domain.TypePropertySearch && s.scheduler != nil {
		delay := s.cfg.GetMatchOnCreateDelay()
		if err := s.scheduler.EnqueueDemandMatch(ctx, demand.ID, delay); err != nil {
			// The periodic rescan will still pick this demand up.
			s.log.Warn("failed to schedule match run", "demand_id", demand.ID, "error", err)
		}
	}

	return demand, nil
}

// Get fetches one demand.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Demand, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns demands matching the query.
func (s *Service) List(ctx context.Context, q transport.ListDemandsQuery) ([]repository.Demand, error) {
	return s.repo.List(ctx, repository.Filter{
		Status: domain.Status(q.Status),
		Type:   domain.Type(q.Type),
	})
}

// ChangeStatus moves a demand through its lifecycle, enforcing legal
// transitions.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, req transport.ChangeStatusRequest) (repository.Demand, error) {
	demand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Demand{}, err
	}

	target := domain.Status(req.Status)
	if demand.Status == target {
		return demand, nil
	}
	if !domain.CanTransition(demand.Status, target) {
		return repository.Demand{}, apperr.Validation(
			fmt.Sprintf("cannot transition demand from %s to %s", demand.Status, target))
	}

	return s.repo.UpdateStatus(ctx, id, target)
}

// Matches returns the stored matches for a demand, running a (possibly
// staleness-skipped) scan first when a matcher is wired in.
func (s *Service) Matches(ctx context.Context, id uuid.UUID, force bool) ([]domain.PropertyMatch, error) {
	if s.matcher == nil {
		demand, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return demand.Matches, nil
	}

	demand, err := s.matcher.MatchDemand(ctx, id, force)
	if err != nil {
		return nil, err
	}
	return demand.Matches, nil
}

// CrossMatches computes buyer candidates for a seller demand. Results are
// never persisted.
func (s *Service) CrossMatches(ctx context.Context, id uuid.UUID) ([]domain.CrossMatch, error) {
	if s.matcher == nil {
		return nil, apperr.Unavailable("matching engine is not configured")
	}
	return s.matcher.CrossMatch(ctx, id)
}

func toCriteria(req *transport.CriteriaRequest) *domain.Criteria {
	if req == nil {
		return nil
	}
	return &domain.Criteria{
		PropertyType:    req.PropertyType,
		TransactionType: req.TransactionType,
		Locations:       req.Locations,
		BudgetMin:       req.BudgetMin,
		BudgetMax:       req.BudgetMax,
		BedsMin:         req.BedsMin,
		BedsMax:         req.BedsMax,
		BathsMin:        req.BathsMin,
		AreaMin:         req.AreaMin,
		AreaMax:         req.AreaMax,
		Features:        req.Features,
	}
}

func toPropertyDetails(req *transport.PropertyDetailsRequest) *domain.PropertyDetails {
	if req == nil {
		return nil
	}
	return &domain.PropertyDetails{
		Title:           req.Title,
		City:            req.City,
		Neighborhood:    req.Neighborhood,
		PropertyType:    req.PropertyType,
		TransactionType: req.TransactionType,
		Price:           req.Price,
		Beds:            req.Beds,
		Baths:           req.Baths,
		Area:            req.Area,
		Features:        req.Features,
	}
}

func transactionType(d repository.Demand) string {
	if d.Criteria != nil {
		return d.Criteria.TransactionType
	}
	if d.PropertyDetails != nil {
		return d.PropertyDetails.TransactionType
	}
	return ""
}

func propertyType(d repository.Demand) string {
	if d.Criteria != nil {
		return d.Criteria.PropertyType
	}
	if d.PropertyDetails != nil {
		return d.PropertyDetails.PropertyType
	}
	return ""
}
