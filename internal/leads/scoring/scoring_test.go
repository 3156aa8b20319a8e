package scoring

import (
	"testing"

	"estatematch_backend/internal/leads/domain"
)

const scoreFmt = "Quality(%+v).Total = %d, want %d"

func floatPtr(v float64) *float64 { return &v }

func baseInput() Input {
	return Input{
		Source:  domain.SourceWebsite,
		Urgency: domain.UrgencyLow,
	}
}

func TestQualityBounds(t *testing.T) {
	inputs := []Input{
		{},
		baseInput(),
		{
			Source:             domain.SourceReferral,
			Urgency:            domain.UrgencyCritical,
			ChatMessageCount:   50,
			PropertyInterest:   "apartment",
			TransactionType:    "SALE",
			BudgetMin:          floatPtr(1_000_000),
			BudgetMax:          floatPtr(2_000_000),
			PreferredLocations: []string{"Casablanca", "Rabat"},
			Email:              "a@b.c",
			Phone:              "+212600000000",
		},
	}

	for _, in := range inputs {
		got := Quality(in).Total
		if got < 0 || got > 100 {
			t.Fatalf("Quality(%+v).Total = %d, out of [0,100]", in, got)
		}
	}
}

func TestFullyQualifiedLeadClampsTo100(t *testing.T) {
	in := Input{
		Source:           domain.SourceReferral,  // 25
		Urgency:          domain.UrgencyCritical, // 30
		ChatMessageCount: 12,                     // 20
		PropertyInterest: "villa",                // +5
		TransactionType:  "SALE",                 // +3
		BudgetMax:        floatPtr(4_000_000),    // +5
		PreferredLocations: []string{"Casablanca"}, // +2
		Email:            "lead@example.com", // +5
		Phone:            "+212612345678",    // +5
	}

	if got := Quality(in).Total; got != 100 {
		t.Fatalf(scoreFmt, in, got, 100)
	}
}

func TestUnknownSourceAndUrgencyDefaultLow(t *testing.T) {
	qs := Quality(Input{Source: "billboard", Urgency: "extreme"})
	if qs.SourceScore != 5 {
		t.Fatalf("unknown source score = %d, want 5", qs.SourceScore)
	}
	if qs.UrgencyScore != 5 {
		t.Fatalf("unknown urgency score = %d, want 5", qs.UrgencyScore)
	}
}

func TestScoreStrictlyIncreasesPerSignal(t *testing.T) {
	base := baseInput()
	baseTotal := Quality(base).Total

	variants := map[string]Input{}

	withMessages := base
	withMessages.ChatMessageCount = 5
	variants["messages"] = withMessages

	withBudget := base
	withBudget.BudgetMax = floatPtr(500_000)
	variants["budget"] = withBudget

	withInterest := base
	withInterest.PropertyInterest = "riad"
	variants["interest"] = withInterest

	withEmail := base
	withEmail.Email = "x@y.z"
	variants["email"] = withEmail

	withPhone := base
	withPhone.Phone = "+212612345678"
	variants["phone"] = withPhone

	withBetterSource := base
	withBetterSource.Source = domain.SourceReferral
	variants["source"] = withBetterSource

	withHigherUrgency := base
	withHigherUrgency.Urgency = domain.UrgencyHigh
	variants["urgency"] = withHigherUrgency

	for name, in := range variants {
		if got := Quality(in).Total; got <= baseTotal {
			t.Fatalf("signal %s: total %d did not increase over base %d", name, got, baseTotal)
		}
	}
}

func TestEngagementSteps(t *testing.T) {
	cases := map[int]int{0: 5, 2: 5, 3: 10, 5: 15, 9: 15, 10: 20, 40: 20}
	for count, want := range cases {
		qs := Quality(Input{ChatMessageCount: count})
		if qs.EngagementScore != want {
			t.Fatalf("engagement(%d) = %d, want %d", count, qs.EngagementScore, want)
		}
	}
}

func TestQualificationCap(t *testing.T) {
	qs := Quality(Input{
		PropertyInterest:   "apartment",
		TransactionType:    "RENT",
		BudgetMin:          floatPtr(5000),
		PreferredLocations: []string{"Agadir"},
	})
	if qs.QualificationScore != 15 {
		t.Fatalf("qualification score = %d, want capped 15", qs.QualificationScore)
	}
}

func TestUrgencyFromScore(t *testing.T) {
	cases := map[int]domain.Urgency{
		100: domain.UrgencyCritical,
		80:  domain.UrgencyCritical,
		79:  domain.UrgencyHigh,
		60:  domain.UrgencyHigh,
		59:  domain.UrgencyMedium,
		40:  domain.UrgencyMedium,
		39:  domain.UrgencyLow,
		0:   domain.UrgencyLow,
	}
	for score, want := range cases {
		if got := UrgencyFromScore(score); got != want {
			t.Fatalf("UrgencyFromScore(%d) = %s, want %s", score, got, want)
		}
	}
}
