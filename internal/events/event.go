// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"estatematch_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID          uuid.UUID  `json:"leadId"`
	FullName        string     `json:"fullName"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email,omitempty"`
	Source          string     `json:"source"`
	Urgency         string     `json:"urgency"`
	QualityScore    int        `json:"qualityScore"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadAssigned is published when a lead is assigned to an agent.
type LeadAssigned struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	AgentID   uuid.UUID `json:"agentId"`
	AgentName string    `json:"agentName"`
	LeadName  string    `json:"leadName"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadStatusChanged is published when a lead transitions to a new status.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedBy  string    `json:"changedBy,omitempty"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// =============================================================================
// Demands Domain Events
// =============================================================================

// DemandCreated is published when a new property demand is registered.
// The matching orchestrator subscribes to schedule an initial match pass.
type DemandCreated struct {
	BaseEvent
	DemandID        uuid.UUID  `json:"demandId"`
	LeadID          *uuid.UUID `json:"leadId,omitempty"`
	TransactionType string     `json:"transactionType"`
	PropertyType    string     `json:"propertyType,omitempty"`
	Location        string     `json:"location,omitempty"`
}

func (e DemandCreated) EventName() string { return "demands.demand.created" }

// DemandMatchesUpdated is published after a match pass finds new matches for a demand.
type DemandMatchesUpdated struct {
	BaseEvent
	DemandID   uuid.UUID `json:"demandId"`
	NewMatches int       `json:"newMatches"`
	BestScore  int       `json:"bestScore"`
}

func (e DemandMatchesUpdated) EventName() string { return "demands.demand.matches_updated" }

// HighScoreMatchFound is published when a match scores at or above the
// notification threshold. Notification and email modules subscribe.
type HighScoreMatchFound struct {
	BaseEvent
	DemandID      uuid.UUID `json:"demandId"`
	LeadID        *uuid.UUID `json:"leadId,omitempty"`
	PropertyID    string    `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle"`
	Score         int       `json:"score"`
	TopReasons    []string  `json:"topReasons"`
}

func (e HighScoreMatchFound) EventName() string { return "matching.match.high_score" }
