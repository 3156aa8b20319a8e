// Package matching implements the property matching engine: a pure weighted
// scorer plus the orchestrator that runs it against the catalog and persists
// results on demands.
package matching

import (
	"fmt"
	"math"
	"strings"

	"estatematch_backend/internal/demands/domain"
	"estatematch_backend/platform/textnorm"
)

// Category weights. Each category is computed independently, summed and
// clamped to 100.
const (
	weightLocation = 30.0
	weightBudget   = 25.0
	weightType     = 20.0
	weightBeds     = 10.0
	weightArea     = 5.0
	weightFeatures = 10.0
)

const (
	creditNeighborhood = 0.75
	creditBudgetNear   = 0.70
	creditBudgetFar    = 0.40
	budgetNearBand     = 0.10
	budgetFarBand      = 0.20
	areaPartialFloor   = 0.80
)

// Candidate is the matching engine's view of a property. Real catalog
// records and pseudo-properties synthesized from seller demands both
// reduce to this shape.
type Candidate struct {
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

// Result is the scored outcome for one candidate against one set of criteria.
type Result struct {
	Score           int
	MatchedCriteria []string
	Details         map[string]domain.CategoryDetail
	Vetoed          bool
}

// Score rates a candidate against a demand's criteria. Categories are
// weighted location 30, budget 25, type 20, size 15 (beds 10, area 5) and
// features 10. Absent criteria earn a neutral default so sparse demands are
// never punished to zero. A transaction type mismatch vetoes the whole
// candidate regardless of the other categories.
func Score(c Candidate, criteria domain.Criteria) Result {
	details := make(map[string]domain.CategoryDetail, 6)
	reasons := make([]string, 0, 6)

	if criteria.TransactionType != "" && c.Category != "" &&
		!textnorm.EqualFold(criteria.TransactionType, c.Category) {
		for _, key := range []string{"location", "budget", "type", "beds", "area", "features"} {
			details[key] = domain.CategoryDetail{Points: 0, Max: maxFor(key), State: domain.CriterionNone}
		}
		return Result{
			Score:           0,
			MatchedCriteria: []string{fmt.Sprintf("transaction type mismatch: wanted %s, property is %s", criteria.TransactionType, c.Category)},
			Details:         details,
			Vetoed:          true,
		}
	}

	total := 0.0
	total += scoreLocation(c, criteria, details, &reasons)
	total += scoreBudget(c, criteria, details, &reasons)
	total += scoreType(c, criteria, details, &reasons)
	total += scoreBeds(c, criteria, details, &reasons)
	total += scoreArea(c, criteria, details, &reasons)
	total += scoreFeatures(c, criteria, details, &reasons)

	score := int(math.Round(math.Min(total, 100)))

	return Result{
		Score:           score,
		MatchedCriteria: reasons,
		Details:         details,
	}
}

func maxFor(key string) float64 {
	switch key {
	case "location":
		return weightLocation
	case "budget":
		return weightBudget
	case "type":
		return weightType
	case "beds":
		return weightBeds
	case "area":
		return weightArea
	default:
		return weightFeatures
	}
}

func scoreLocation(c Candidate, criteria domain.Criteria, details map[string]domain.CategoryDetail, reasons *[]string) float64 {
	if len(criteria.Locations) == 0 {
		details["location"] = domain.CategoryDetail{Points: weightLocation / 2, Max: weightLocation, State: domain.CriterionNeutral}
		return weightLocation / 2
	}

	for _, wanted := range criteria.Locations {
		if textnorm.ContainsFold(c.City, wanted) {
			details["location"] = domain.CategoryDetail{Points: weightLocation, Max: weightLocation, State: domain.CriterionFull}
			*reasons = append(*reasons, fmt.Sprintf("located in %s", c.City))
			return weightLocation
		}
	}
	for _, wanted := range criteria.Locations {
		if textnorm.ContainsFold(c.Neighborhood, wanted) {
			points := weightLocation * creditNeighborhood
			details["location"] = domain.CategoryDetail{Points: points, Max: weightLocation, State: domain.CriterionPartial}
			*reasons = append(*reasons, fmt.Sprintf("neighborhood %s matches", c.Neighborhood))
			return points
		}
	}

	details["location"] = domain.CategoryDetail{Points: 0, Max: weightLocation, State: domain.CriterionNone}
	return 0
}

func scoreBudget(c Candidate, criteria domain.Criteria, details map[string]domain.CategoryDetail, reasons *[]string) float64 {
	if criteria.BudgetMin == nil && criteria.BudgetMax == nil {
		details["budget"] = domain.CategoryDetail{Points: weightBudget / 2, Max: weightBudget, State: domain.CriterionNeutral}
		return weightBudget / 2
	}
	if c.Price <= 0 {
		details["budget"] = domain.CategoryDetail{Points: 0, Max: weightBudget, State: domain.CriterionNone}
		return 0
	}

	min, max := 0.0, math.MaxFloat64
	if criteria.BudgetMin != nil {
		min = *criteria.BudgetMin
	}
	if criteria.BudgetMax != nil {
		max = *criteria.BudgetMax
	}

	if c.Price >= min && c.Price <= max {
		details["budget"] = domain.CategoryDetail{Points: weightBudget, Max: weightBudget, State: domain.CriterionFull}
		*reasons = append(*reasons, "price within budget")
		return weightBudget
	}
	if withinBand(c.Price, min, max, budgetNearBand) {
		points := weightBudget * creditBudgetNear
		details["budget"] = domain.CategoryDetail{Points: points, Max: weightBudget, State: domain.CriterionPartial}
		*reasons = append(*reasons, "price within 10% of budget")
		return points
	}
	if withinBand(c.Price, min, max, budgetFarBand) {
		points := weightBudget * creditBudgetFar
		details["budget"] = domain.CategoryDetail{Points: points, Max: weightBudget, State: domain.CriterionPartial}
		*reasons = append(*reasons, "price within 20% of budget")
		return points
	}

	details["budget"] = domain.CategoryDetail{Points: 0, Max: weightBudget, State: domain.CriterionNone}
	return 0
}

// withinBand reports whether price falls inside the budget range stretched
// by the given tolerance on both ends.
func withinBand(price, min, max, band float64) bool {
	low := min * (1 - band)
	high := max
	if max != math.MaxFloat64 {
		high = max * (1 + band)
	}
	return price >= low && price <= high
}

func scoreType(c Candidate, criteria domain.Criteria, details map[string]domain.CategoryDetail, reasons *[]string) float64 {
	if criteria.PropertyType == "" {
		details["type"] = domain.CategoryDetail{Points: weightType / 2, Max: weightType, State: domain.CriterionNeutral}
		return weightType / 2
	}

	if c.PropertyType != "" && textnorm.ContainsFold(c.PropertyType, criteria.PropertyType) {
		details["type"] = domain.CategoryDetail{Points: weightType, Max: weightType, State: domain.CriterionFull}
		*reasons = append(*reasons, fmt.Sprintf("property type %s", c.PropertyType))
		return weightType
	}

	details["type"] = domain.CategoryDetail{Points: 0, Max: weightType, State: domain.CriterionNone}
	return 0
}

func scoreBeds(c Candidate, criteria domain.Criteria, details map[string]domain.CategoryDetail, reasons *[]string) float64 {
	if criteria.BedsMin == nil && criteria.BedsMax == nil {
		details["beds"] = domain.CategoryDetail{Points: weightBeds, Max: weightBeds, State: domain.CriterionNeutral}
		return weightBeds
	}

	min, max := 0, math.MaxInt
	if criteria.BedsMin != nil {
		min = *criteria.BedsMin
	}
	if criteria.BedsMax != nil {
		max = *criteria.BedsMax
	}

	if c.Beds >= min && c.Beds <= max {
		details["beds"] = domain.CategoryDetail{Points: weightBeds, Max: weightBeds, State: domain.CriterionFull}
		*reasons = append(*reasons, fmt.Sprintf("%d bedrooms", c.Beds))
		return weightBeds
	}
	if c.Beds == min-1 {
		// One bedroom short still earns half credit.
		points := weightBeds / 2
		details["beds"] = domain.CategoryDetail{Points: points, Max: weightBeds, State: domain.CriterionPartial}
		*reasons = append(*reasons, fmt.Sprintf("%d bedrooms, one short of %d", c.Beds, min))
		return points
	}

	details["beds"] = domain.CategoryDetail{Points: 0, Max: weightBeds, State: domain.CriterionNone}
	return 0
}

func scoreArea(c Candidate, criteria domain.Criteria, details map[string]domain.CategoryDetail, reasons *[]string) float64 {
	if criteria.AreaMin == nil && criteria.AreaMax == nil {
		details["area"] = domain.CategoryDetail{Points: weightArea, Max: weightArea, State: domain.CriterionNeutral}
		return weightArea
	}

	min, max := 0.0, math.MaxFloat64
	if criteria.AreaMin != nil {
		min = *criteria.AreaMin
	}
	if criteria.AreaMax != nil {
		max = *criteria.AreaMax
	}

	if c.Area >= min && c.Area <= max {
		details["area"] = domain.CategoryDetail{Points: weightArea, Max: weightArea, State: domain.CriterionFull}
		*reasons = append(*reasons, fmt.Sprintf("%.0f m2", c.Area))
		return weightArea
	}
	if min > 0 && c.Area >= min*areaPartialFloor {
		points := weightArea / 2
		details["area"] = domain.CategoryDetail{Points: points, Max: weightArea, State: domain.CriterionPartial}
		return points
	}

	details["area"] = domain.CategoryDetail{Points: 0, Max: weightArea, State: domain.CriterionNone}
	return 0
}

func scoreFeatures(c Candidate, criteria domain.Criteria, details map[string]domain.CategoryDetail, reasons *[]string) float64 {
	if len(criteria.Features) == 0 {
		details["features"] = domain.CategoryDetail{Points: weightFeatures / 2, Max: weightFeatures, State: domain.CriterionNeutral}
		return weightFeatures / 2
	}

	matched := make([]string, 0, len(criteria.Features))
	for _, wanted := range criteria.Features {
		for _, have := range c.Features {
			if textnorm.ContainsFold(have, wanted) {
				matched = append(matched, wanted)
				break
			}
		}
	}

	if len(matched) == 0 {
		details["features"] = domain.CategoryDetail{Points: 0, Max: weightFeatures, State: domain.CriterionNone}
		return 0
	}

	points := weightFeatures * float64(len(matched)) / float64(len(criteria.Features))
	state := domain.CriterionPartial
	if len(matched) == len(criteria.Features) {
		state = domain.CriterionFull
	}
	details["features"] = domain.CategoryDetail{Points: points, Max: weightFeatures, State: state}
	*reasons = append(*reasons, "features: "+strings.Join(matched, ", "))
	return points
}
