// Package transport defines request and query DTOs for the demands API.
package transport

// CriteriaRequest carries a buyer search's wishes. Everything is optional.
type CriteriaRequest struct {
	PropertyType    string   `json:"propertyType"`
	TransactionType string   `json:"transactionType" binding:"omitempty,oneof=SALE RENT"`
	Locations       []string `json:"locations"`
	BudgetMin       *float64 `json:"budgetMin" binding:"omitempty,gte=0"`
	BudgetMax       *float64 `json:"budgetMax" binding:"omitempty,gte=0"`
	BedsMin         *int     `json:"bedsMin" binding:"omitempty,gte=0"`
	BedsMax         *int     `json:"bedsMax" binding:"omitempty,gte=0"`
	BathsMin        *int     `json:"bathsMin" binding:"omitempty,gte=0"`
	AreaMin         *float64 `json:"areaMin" binding:"omitempty,gte=0"`
	AreaMax         *float64 `json:"areaMax" binding:"omitempty,gte=0"`
	Features        []string `json:"features"`
}

// PropertyDetailsRequest describes the unit a seller demand offers.
type PropertyDetailsRequest struct {
	Title           string   `json:"title"`
	City            string   `json:"city"`
	Neighborhood    string   `json:"neighborhood"`
	PropertyType    string   `json:"propertyType"`
	TransactionType string   `json:"transactionType" binding:"omitempty,oneof=SALE RENT"`
	Price           *float64 `json:"price" binding:"omitempty,gte=0"`
	Beds            *int     `json:"beds" binding:"omitempty,gte=0"`
	Baths           *int     `json:"baths" binding:"omitempty,gte=0"`
	Area            *float64 `json:"area" binding:"omitempty,gte=0"`
	Features        []string `json:"features"`
}

// CreateDemandRequest is the payload for registering a new demand.
type CreateDemandRequest struct {
	Type            string                  `json:"type" binding:"required,oneof=property_search property_sale property_rental_management"`
	LeadID          string                  `json:"leadId" binding:"omitempty,uuid"`
	ContactName     string                  `json:"contactName" binding:"required,min=2,max=200"`
	ContactPhone    string                  `json:"contactPhone" binding:"omitempty,max=30"`
	ContactEmail    string                  `json:"contactEmail" binding:"omitempty,email"`
	Urgency         string                  `json:"urgency" binding:"omitempty,oneof=low medium high critical"`
	Source          string                  `json:"source" binding:"omitempty,oneof=website facebook instagram whatsapp phone_call referral walk_in other"`
	Criteria        *CriteriaRequest        `json:"criteria"`
	PropertyDetails *PropertyDetailsRequest `json:"propertyDetails"`
}

// ChangeStatusRequest moves a demand through its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new processing matched contacted completed cancelled"`
	Note   string `json:"note" binding:"omitempty,max=2000"`
}

// ListDemandsQuery filters demand listings.
type ListDemandsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=new processing matched contacted completed cancelled"`
	Type   string `form:"type" binding:"omitempty,oneof=property_search property_sale property_rental_management"`
}

// RunMatchQuery controls an on-demand match run.
type RunMatchQuery struct {
	Force bool `form:"force"`
}
