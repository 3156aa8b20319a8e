// Package transport defines request/response DTOs for the agents HTTP surface.
package transport

// CreateAgentRequest is the payload for registering an agent.
type CreateAgentRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	MaxLeads int    `json:"maxLeads" binding:"omitempty,gte=0"`
}

// SetActiveRequest toggles an agent's availability.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
