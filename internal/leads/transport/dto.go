// Package transport defines request/response DTOs for the leads HTTP surface.
package transport

// CreateLeadRequest is the payload for lead intake (chat, form, phone, walk-in).
type CreateLeadRequest struct {
	FirstName          string   `json:"firstName" binding:"required"`
	LastName           string   `json:"lastName"`
	Email              string   `json:"email" binding:"omitempty,email"`
	Phone              string   `json:"phone"`
	Source             string   `json:"source" binding:"omitempty,oneof=website facebook instagram whatsapp phone_call referral walk_in other"`
	Urgency            string   `json:"urgency" binding:"omitempty,oneof=low medium high critical"`
	TransactionType    string   `json:"transactionType" binding:"omitempty,oneof=SALE RENT"`
	BudgetMin          *float64 `json:"budgetMin" binding:"omitempty,gte=0"`
	BudgetMax          *float64 `json:"budgetMax" binding:"omitempty,gte=0"`
	PropertyInterest   string   `json:"propertyInterest"`
	PreferredLocations []string `json:"preferredLocations"`
	ChatMessageCount   int      `json:"chatMessageCount" binding:"omitempty,gte=0"`
	Notes              string   `json:"notes"`
}

// UpdateLeadRequest mutates the scoring-input fields of a lead.
// Nil pointers leave the current value untouched.
type UpdateLeadRequest struct {
	Source             *string  `json:"source" binding:"omitempty,oneof=website facebook instagram whatsapp phone_call referral walk_in other"`
	Urgency            *string  `json:"urgency" binding:"omitempty,oneof=low medium high critical"`
	TransactionType    *string  `json:"transactionType" binding:"omitempty,oneof=SALE RENT"`
	BudgetMin          *float64 `json:"budgetMin" binding:"omitempty,gte=0"`
	BudgetMax          *float64 `json:"budgetMax" binding:"omitempty,gte=0"`
	PropertyInterest   *string  `json:"propertyInterest"`
	PreferredLocations []string `json:"preferredLocations"`
	ChatMessageCount   *int     `json:"chatMessageCount" binding:"omitempty,gte=0"`
	Notes              *string  `json:"notes"`
}

// ChangeStatusRequest moves a lead through the pipeline.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted qualified visit_scheduled visit_done negotiating offer_made on_hold won lost"`
}

// AssignLeadRequest assigns or reassigns a lead to a specific agent.
type AssignLeadRequest struct {
	AgentID string `json:"agentId" binding:"required,uuid"`
}

// ListLeadsQuery holds the supported list filters.
type ListLeadsQuery struct {
	Status  string `form:"status" binding:"omitempty,oneof=new contacted qualified visit_scheduled visit_done negotiating offer_made on_hold won lost"`
	AgentID string `form:"agentId" binding:"omitempty,uuid"`
}
