package matching

import (
	"testing"

	"estatematch_backend/internal/demands/domain"
)

const detailFmt = "category %s: got points=%.1f state=%s"

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func sampleCriteria() domain.Criteria {
	return domain.Criteria{
		TransactionType: "SALE",
		Locations:       []string{"Casablanca"},
		BudgetMin:       floatPtr(2_000_000),
		BudgetMax:       floatPtr(4_000_000),
		BedsMin:         intPtr(3),
	}
}

func TestScoreCasablancaSale(t *testing.T) {
	result := Score(Candidate{
		ID:       "prop-1",
		City:     "Casablanca",
		Category: "SALE",
		Price:    3_000_000,
		Beds:     3,
	}, sampleCriteria())

	if result.Score != 85 {
		t.Fatalf("expected score 85, got %d", result.Score)
	}
	if result.Vetoed {
		t.Fatal("matching transaction types must not veto")
	}
	if result.Details["location"].State != domain.CriterionFull {
		d := result.Details["location"]
		t.Fatalf(detailFmt, "location", d.Points, d.State)
	}
	if result.Details["budget"].State != domain.CriterionFull {
		d := result.Details["budget"]
		t.Fatalf(detailFmt, "budget", d.Points, d.State)
	}
	if result.Details["type"].State != domain.CriterionNeutral {
		d := result.Details["type"]
		t.Fatalf(detailFmt, "type", d.Points, d.State)
	}
}

func TestScoreTransactionTypeVeto(t *testing.T) {
	result := Score(Candidate{
		ID:       "prop-2",
		City:     "Casablanca",
		Category: "RENT",
		Price:    3_000_000,
		Beds:     5,
	}, sampleCriteria())

	if result.Score != 0 {
		t.Fatalf("expected vetoed score 0, got %d", result.Score)
	}
	if !result.Vetoed {
		t.Fatal("expected veto flag")
	}
	if len(result.MatchedCriteria) != 1 {
		t.Fatalf("veto should record a single reason, got %v", result.MatchedCriteria)
	}
}

func TestScoreEmptyCriteriaEarnsNeutralDefaults(t *testing.T) {
	result := Score(Candidate{ID: "prop-3", City: "Rabat", Category: "RENT"}, domain.Criteria{})

	// 15 + 12.5 + 10 + 10 + 5 + 5, rounded.
	if result.Score != 58 {
		t.Fatalf("expected neutral score 58, got %d", result.Score)
	}
	for _, key := range []string{"location", "budget", "type", "beds", "area", "features"} {
		if result.Details[key].State != domain.CriterionNeutral {
			d := result.Details[key]
			t.Fatalf(detailFmt, key, d.Points, d.State)
		}
	}
}

func TestScoreBudgetBands(t *testing.T) {
	criteria := domain.Criteria{
		BudgetMin: floatPtr(2_000_000),
		BudgetMax: floatPtr(4_000_000),
	}

	cases := []struct {
		price  float64
		points float64
		state  domain.CriterionState
	}{
		{3_000_000, 25, domain.CriterionFull},
		{4_300_000, 17.5, domain.CriterionPartial},
		{4_700_000, 10, domain.CriterionPartial},
		{5_500_000, 0, domain.CriterionNone},
		{1_850_000, 17.5, domain.CriterionPartial},
	}
	for _, tc := range cases {
		result := Score(Candidate{ID: "p", Price: tc.price}, criteria)
		d := result.Details["budget"]
		if d.Points != tc.points || d.State != tc.state {
			t.Fatalf("price %.0f: expected %.1f points (%s), got %.1f (%s)",
				tc.price, tc.points, tc.state, d.Points, d.State)
		}
	}
}

func TestScoreBedsOneShortHalfCredit(t *testing.T) {
	criteria := domain.Criteria{BedsMin: intPtr(3)}

	full := Score(Candidate{ID: "p", Beds: 3}, criteria)
	if full.Details["beds"].Points != 10 {
		t.Fatalf("expected full bed credit, got %.1f", full.Details["beds"].Points)
	}

	short := Score(Candidate{ID: "p", Beds: 2}, criteria)
	if short.Details["beds"].Points != 5 || short.Details["beds"].State != domain.CriterionPartial {
		t.Fatalf("expected half bed credit, got %+v", short.Details["beds"])
	}

	far := Score(Candidate{ID: "p", Beds: 1}, criteria)
	if far.Details["beds"].Points != 0 {
		t.Fatalf("two bedrooms short should earn nothing, got %.1f", far.Details["beds"].Points)
	}
}

func TestScoreAreaPartialFloor(t *testing.T) {
	criteria := domain.Criteria{AreaMin: floatPtr(100)}

	if d := Score(Candidate{ID: "p", Area: 120}, criteria).Details["area"]; d.Points != 5 {
		t.Fatalf("expected full area credit, got %.1f", d.Points)
	}
	if d := Score(Candidate{ID: "p", Area: 85}, criteria).Details["area"]; d.Points != 2.5 || d.State != domain.CriterionPartial {
		t.Fatalf("expected partial area credit, got %+v", d)
	}
	if d := Score(Candidate{ID: "p", Area: 60}, criteria).Details["area"]; d.Points != 0 {
		t.Fatalf("expected no area credit, got %.1f", d.Points)
	}
}

func TestScoreLocationAccentAndNeighborhood(t *testing.T) {
	criteria := domain.Criteria{Locations: []string{"Guéliz"}}

	city := Score(Candidate{ID: "p", City: "gueliz"}, criteria)
	if city.Details["location"].State != domain.CriterionFull {
		t.Fatalf("accent-stripped city should fully match, got %+v", city.Details["location"])
	}

	hood := Score(Candidate{ID: "p", City: "Marrakech", Neighborhood: "Gueliz"}, criteria)
	d := hood.Details["location"]
	if d.State != domain.CriterionPartial || d.Points != 22.5 {
		t.Fatalf("neighborhood match should earn 22.5, got %+v", d)
	}

	miss := Score(Candidate{ID: "p", City: "Tanger"}, criteria)
	if miss.Details["location"].Points != 0 {
		t.Fatalf("unrelated city should earn nothing, got %+v", miss.Details["location"])
	}
}

func TestScoreFeaturesProportional(t *testing.T) {
	criteria := domain.Criteria{Features: []string{"piscine", "garage"}}

	both := Score(Candidate{ID: "p", Features: []string{"Piscine", "Garage", "Ascenseur"}}, criteria)
	if d := both.Details["features"]; d.Points != 10 || d.State != domain.CriterionFull {
		t.Fatalf("all features matched should earn 10, got %+v", d)
	}

	half := Score(Candidate{ID: "p", Features: []string{"garage"}}, criteria)
	if d := half.Details["features"]; d.Points != 5 || d.State != domain.CriterionPartial {
		t.Fatalf("half the features should earn 5, got %+v", d)
	}

	none := Score(Candidate{ID: "p", Features: []string{"terrasse"}}, criteria)
	if d := none.Details["features"]; d.Points != 0 || d.State != domain.CriterionNone {
		t.Fatalf("no feature overlap should earn 0, got %+v", d)
	}
}

func TestScoreClampedToHundred(t *testing.T) {
	criteria := domain.Criteria{
		TransactionType: "SALE",
		PropertyType:    "appartement",
		Locations:       []string{"Casablanca"},
		BudgetMin:       floatPtr(1_000_000),
		BudgetMax:       floatPtr(5_000_000),
		BedsMin:         intPtr(2),
		AreaMin:         floatPtr(80),
		Features:        []string{"piscine"},
	}
	result := Score(Candidate{
		ID:           "p",
		City:         "Casablanca",
		Category:     "SALE",
		PropertyType: "Appartement",
		Price:        2_500_000,
		Beds:         3,
		Area:         120,
		Features:     []string{"piscine"},
	}, criteria)

	if result.Score != 100 {
		t.Fatalf("perfect candidate should score 100, got %d", result.Score)
	}
}
