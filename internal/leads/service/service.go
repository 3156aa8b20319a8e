// Package service implements the leads business logic: intake, scoring,
// assignment and pipeline transitions.
package service

import (
	"context"
	"fmt"

	"estatematch_backend/internal/events"
	"estatematch_backend/internal/leads/assignment"
	"estatematch_backend/internal/leads/domain"
	"estatematch_backend/internal/leads/repository"
	"estatematch_backend/internal/leads/scoring"
	"estatematch_backend/internal/leads/transport"
	"estatematch_backend/platform/apperr"
	"estatematch_backend/platform/logger"
	"estatematch_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	activityCreated       = "created"
	activityAssigned      = "assigned"
	activityStatusChanged = "status_changed"
	activityRescored      = "rescored"
)

// AgentGateway extends the assignment directory with agent lookup, so events
// can carry the agent's name.
type AgentGateway interface {
	assignment.Directory
	Get(ctx context.Context, agentID uuid.UUID) (assignment.Candidate, error)
}

// Service coordinates lead intake, scoring, assignment and lifecycle.
type Service struct {
	repo     *repository.Repository
	assigner *assignment.Assigner
	agents   AgentGateway
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new leads service.
func New(repo *repository.Repository, agents AgentGateway, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		assigner: assignment.New(agents),
		agents:   agents,
		bus:      bus,
		log:      log,
	}
}

// Create scores a new lead, assigns it to the least-loaded agent with spare
// capacity and publishes the intake events.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (repository.Lead, error) {
	source := domain.Source(req.Source)
	if !source.IsValid() {
		source = domain.SourceOther
	}

	urgencyExplicit := req.Urgency != ""
	urgency := domain.Urgency(req.Urgency)
	if !urgency.IsValid() {
		urgency = domain.UrgencyLow
	}

	normalizedPhone := phone.NormalizeE164(req.Phone)

	quality := scoring.Quality(scoring.Input{
		Source:             source,
		Urgency:            urgency,
		ChatMessageCount:   req.ChatMessageCount,
		PropertyInterest:   req.PropertyInterest,
		TransactionType:    req.TransactionType,
		BudgetMin:          req.BudgetMin,
		BudgetMax:          req.BudgetMax,
		PreferredLocations: req.PreferredLocations,
		Email:              req.Email,
		Phone:              normalizedPhone,
	})
	if !urgencyExplicit {
		urgency = scoring.UrgencyFromScore(quality.Total)
	}

	assigned, err := s.assigner.Assign(ctx)
	if err != nil {
		// Assignment is best effort; the lead is still created unassigned.
		s.log.Warn("lead assignment failed", "error", err)
		assigned = nil
	}

	params := repository.CreateParams{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              normalizedPhone,
		Urgency:            urgency,
		UrgencyExplicit:    urgencyExplicit,
		Score:              quality.Total,
		Source:             source,
		TransactionType:    optionalString(req.TransactionType),
		BudgetMin:          req.BudgetMin,
		BudgetMax:          req.BudgetMax,
		PropertyInterest:   optionalString(req.PropertyInterest),
		PreferredLocations: req.PreferredLocations,
		ChatMessageCount:   req.ChatMessageCount,
		Notes:              req.Notes,
	}
	if assigned != nil {
		params.AssignedAgentID = &assigned.ID
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		// The reservation was taken before the insert; give the slot back.
		if assigned != nil {
			if releaseErr := s.assigner.Release(ctx, assigned.ID); releaseErr != nil {
				s.log.Error("agent slot release failed after create error", "agentId", assigned.ID, "error", releaseErr)
			}
		}
		return repository.Lead{}, err
	}

	s.recordActivity(ctx, lead.ID, activityCreated, map[string]interface{}{
		"source": string(source),
		"score":  quality.Total,
	})

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		FullName:        fullName(lead),
		Phone:           lead.Phone,
		Email:           lead.Email,
		Source:          string(lead.Source),
		Urgency:         string(lead.Urgency),
		QualityScore:    lead.Score,
		AssignedAgentID: lead.AssignedAgentID,
	})

	if assigned != nil {
		s.recordActivity(ctx, lead.ID, activityAssigned, map[string]interface{}{
			"agentId": assigned.ID.String(),
		})
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			AgentID:   assigned.ID,
			AgentName: assigned.Name,
			LeadName:  fullName(lead),
		})
	}

	return lead, nil
}

// GetByID fetches a single lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns leads matching the filter.
func (s *Service) List(ctx context.Context, filter repository.Filter) ([]repository.Lead, error) {
	return s.repo.List(ctx, filter)
}

// ListActivities returns a lead's activity log.
func (s *Service) ListActivities(ctx context.Context, id uuid.UUID) ([]repository.Activity, error) {
	return s.repo.ListActivities(ctx, id)
}

// Update applies profile changes and recomputes the quality score, keeping
// the stored score consistent with the lead's current fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}

	source := lead.Source
	if req.Source != nil {
		source = domain.Source(*req.Source)
	}

	urgency := lead.Urgency
	urgencyExplicit := lead.UrgencyExplicit
	if req.Urgency != nil {
		urgency = domain.Urgency(*req.Urgency)
		urgencyExplicit = true
	}

	transactionType := lead.TransactionType
	if req.TransactionType != nil {
		transactionType = optionalString(*req.TransactionType)
	}
	budgetMin := lead.BudgetMin
	if req.BudgetMin != nil {
		budgetMin = req.BudgetMin
	}
	budgetMax := lead.BudgetMax
	if req.BudgetMax != nil {
		budgetMax = req.BudgetMax
	}
	propertyInterest := lead.PropertyInterest
	if req.PropertyInterest != nil {
		propertyInterest = optionalString(*req.PropertyInterest)
	}
	locations := lead.PreferredLocations
	if req.PreferredLocations != nil {
		locations = req.PreferredLocations
	}
	chatCount := lead.ChatMessageCount
	if req.ChatMessageCount != nil {
		chatCount = *req.ChatMessageCount
	}
	notes := lead.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	quality := scoring.Quality(scoring.Input{
		Source:             source,
		Urgency:            urgency,
		ChatMessageCount:   chatCount,
		PropertyInterest:   deref(propertyInterest),
		TransactionType:    deref(transactionType),
		BudgetMin:          budgetMin,
		BudgetMax:          budgetMax,
		PreferredLocations: locations,
		Email:              lead.Email,
		Phone:              lead.Phone,
	})
	if !urgencyExplicit {
		urgency = scoring.UrgencyFromScore(quality.Total)
	}

	updated, err := s.repo.UpdateProfile(ctx, id, repository.ProfileParams{
		Source:             source,
		Urgency:            urgency,
		UrgencyExplicit:    urgencyExplicit,
		Score:              quality.Total,
		TransactionType:    transactionType,
		BudgetMin:          budgetMin,
		BudgetMax:          budgetMax,
		PropertyInterest:   propertyInterest,
		PreferredLocations: locations,
		ChatMessageCount:   chatCount,
		Notes:              notes,
	})
	if err != nil {
		return repository.Lead{}, err
	}

	if updated.Score != lead.Score {
		s.recordActivity(ctx, id, activityRescored, map[string]interface{}{
			"from": lead.Score,
			"to":   updated.Score,
		})
	}

	return updated, nil
}

// ChangeStatus transitions a lead through the pipeline, enforcing the legal
// moves and appending a status activity.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, to domain.Status) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}

	if lead.Status == to {
		return lead, nil
	}
	if !domain.CanTransition(lead.Status, to) {
		return repository.Lead{}, apperr.Validation(
			fmt.Sprintf("cannot transition lead from %s to %s", lead.Status, to),
		)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, to)
	if err != nil {
		return repository.Lead{}, err
	}

	s.recordActivity(ctx, id, activityStatusChanged, map[string]interface{}{
		"from": string(lead.Status),
		"to":   string(to),
	})

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     id,
		FromStatus: string(lead.Status),
		ToStatus:   string(to),
	})

	return updated, nil
}

// Assign moves the lead onto a specific agent's book, releasing the previous
// agent's slot in lock-step.
func (s *Service) Assign(ctx context.Context, leadID, agentID uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return repository.Lead{}, err
	}
	if lead.AssignedAgentID != nil && *lead.AssignedAgentID == agentID {
		return lead, nil
	}

	agent, err := s.agents.Get(ctx, agentID)
	if err != nil {
		return repository.Lead{}, err
	}

	if err := s.assigner.Reassign(ctx, lead.AssignedAgentID, agentID); err != nil {
		return repository.Lead{}, err
	}

	if err := s.repo.SetAssignedAgent(ctx, leadID, &agentID); err != nil {
		// Undo the reservation so agent counters stay in lock-step with leads.
		if releaseErr := s.assigner.Release(ctx, agentID); releaseErr != nil {
			s.log.Error("agent slot release failed after assign error", "agentId", agentID, "error", releaseErr)
		}
		return repository.Lead{}, err
	}

	s.recordActivity(ctx, leadID, activityAssigned, map[string]interface{}{
		"agentId": agentID.String(),
	})

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		AgentID:   agentID,
		AgentName: agent.Name,
		LeadName:  fullName(lead),
	})

	return s.repo.GetByID(ctx, leadID)
}

// Delete soft-deletes a lead and releases its agent slot.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if lead.AssignedAgentID != nil {
		if releaseErr := s.assigner.Release(ctx, *lead.AssignedAgentID); releaseErr != nil {
			s.log.Error("agent slot release failed on lead delete", "agentId", *lead.AssignedAgentID, "error", releaseErr)
		}
	}

	return nil
}

// HardDelete erases a lead permanently. Explicit callers only.
func (s *Service) HardDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.HardDelete(ctx, id)
}

func (s *Service) recordActivity(ctx context.Context, leadID uuid.UUID, activityType string, metadata map[string]interface{}) {
	if err := s.repo.AddActivity(ctx, leadID, activityType, metadata); err != nil {
		s.log.Warn("lead activity write failed", "leadId", leadID, "type", activityType, "error", err)
	}
}

func fullName(lead repository.Lead) string {
	if lead.LastName == "" {
		return lead.FirstName
	}
	return lead.FirstName + " " + lead.LastName
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
