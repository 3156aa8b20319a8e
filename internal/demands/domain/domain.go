// Package domain defines the demand types: structured property requests and
// the matches the engine produces for them.
package domain

import "time"

// Type distinguishes buyers from sellers.
type Type string

const (
	TypePropertySearch           Type = "property_search"
	TypePropertySale             Type = "property_sale"
	TypePropertyRentalManagement Type = "property_rental_management"
)

// IsSeller reports whether the demand offers a property instead of seeking one.
func (t Type) IsSeller() bool {
	return t == TypePropertySale || t == TypePropertyRentalManagement
}

// IsValid reports whether the type is known.
func (t Type) IsValid() bool {
	switch t {
	case TypePropertySearch, TypePropertySale, TypePropertyRentalManagement:
		return true
	}
	return false
}

// Status is a demand's lifecycle state.
type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusMatched    Status = "matched"
	StatusContacted  Status = "contacted"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsOpen reports whether the demand should still be rescanned for matches.
func (s Status) IsOpen() bool {
	return s == StatusNew || s == StatusProcessing
}

// IsValid reports whether the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusMatched, StatusContacted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// statusTransitions enumerates every legal lifecycle move.
var statusTransitions = map[Status][]Status{
	StatusNew:        {StatusProcessing, StatusMatched, StatusContacted, StatusCancelled},
	StatusProcessing: {StatusMatched, StatusContacted, StatusCancelled},
	StatusMatched:    {StatusContacted, StatusCompleted, StatusCancelled},
	StatusContacted:  {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a demand may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Criteria describes what a property_search demand is looking for.
// All fields are optional; absent criteria earn neutral credit when scoring.
type Criteria struct {
	PropertyType    string   `json:"propertyType,omitempty"`
	TransactionType string   `json:"transactionType,omitempty"`
	Locations       []string `json:"locations,omitempty"`
	BudgetMin       *float64 `json:"budgetMin,omitempty"`
	BudgetMax       *float64 `json:"budgetMax,omitempty"`
	BedsMin         *int     `json:"bedsMin,omitempty"`
	BedsMax         *int     `json:"bedsMax,omitempty"`
	BathsMin        *int     `json:"bathsMin,omitempty"`
	AreaMin         *float64 `json:"areaMin,omitempty"`
	AreaMax         *float64 `json:"areaMax,omitempty"`
	Features        []string `json:"features,omitempty"`
}

// IsZero reports whether no criterion was supplied at all.
func (c Criteria) IsZero() bool {
	return c.PropertyType == "" && c.TransactionType == "" && len(c.Locations) == 0 &&
		c.BudgetMin == nil && c.BudgetMax == nil && c.BedsMin == nil && c.BedsMax == nil &&
		c.BathsMin == nil && c.AreaMin == nil && c.AreaMax == nil && len(c.Features) == 0
}

// PropertyDetails describes the unit a seller demand offers.
type PropertyDetails struct {
	Title           string   `json:"title,omitempty"`
	City            string   `json:"city,omitempty"`
	Neighborhood    string   `json:"neighborhood,omitempty"`
	PropertyType    string   `json:"propertyType,omitempty"`
	TransactionType string   `json:"transactionType,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Beds            *int     `json:"beds,omitempty"`
	Baths           *int     `json:"baths,omitempty"`
	Area            *float64 `json:"area,omitempty"`
	Features        []string `json:"features,omitempty"`
}

// MatchStatus tracks a match through the contact workflow.
type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchNotified   MatchStatus = "notified"
	MatchContacted  MatchStatus = "contacted"
	MatchSuccessful MatchStatus = "successful"
	MatchRejected   MatchStatus = "rejected"
)

// CriterionState labels how a category contributed to a match score.
type CriterionState string

const (
	CriterionFull    CriterionState = "full"
	CriterionPartial CriterionState = "partial"
	CriterionNeutral CriterionState = "neutral"
	CriterionNone    CriterionState = "none"
)

// CategoryDetail is one category's contribution to a match score.
type CategoryDetail struct {
	Points float64        `json:"points"`
	Max    float64        `json:"max"`
	State  CriterionState `json:"state"`
}

// CrossMatch pairs a seller demand's offered unit with an open buyer search.
// Cross-matches are computed per request and never stored on either demand.
type CrossMatch struct {
	DemandID        string   `json:"demandId"`
	ContactName     string   `json:"contactName"`
	ContactPhone    string   `json:"contactPhone,omitempty"`
	Score           int      `json:"score"`
	MatchedCriteria []string `json:"matchedCriteria"`
}

// PropertyMatch is a scored pairing of a property against a demand's
// criteria. Once stored it is never re-scored in place; re-runs either skip
// it or append entries for different properties.
type PropertyMatch struct {
	PropertyID      string                    `json:"propertyId"`
	Score           int                       `json:"score"`
	MatchedCriteria []string                  `json:"matchedCriteria"`
	MatchDetails    map[string]CategoryDetail `json:"matchDetails"`
	Status          MatchStatus               `json:"status"`
	CreatedAt       time.Time                 `json:"createdAt"`
}
