// Package scoring computes lead quality scores. All functions are pure.
package scoring

import (
	"estatematch_backend/internal/leads/domain"
)

const maxScore = 100

// sourceScores ranks acquisition channels by observed conversion quality.
var sourceScores = map[domain.Source]int{
	domain.SourceReferral:  25,
	domain.SourceWalkIn:    22,
	domain.SourcePhoneCall: 18,
	domain.SourceWhatsApp:  15,
	domain.SourceWebsite:   12,
	domain.SourceInstagram: 10,
	domain.SourceFacebook:  8,
	domain.SourceOther:     5,
}

var urgencyScores = map[domain.Urgency]int{
	domain.UrgencyCritical: 30,
	domain.UrgencyHigh:     20,
	domain.UrgencyMedium:   12,
	domain.UrgencyLow:      5,
}

// Input carries the lead fields that feed the quality score.
type Input struct {
	Source             domain.Source
	Urgency            domain.Urgency
	ChatMessageCount   int
	PropertyInterest   string
	TransactionType    string
	BudgetMin          *float64
	BudgetMax          *float64
	PreferredLocations []string
	Email              string
	Phone              string
}

// QualityScore is the component breakdown of a lead's score.
type QualityScore struct {
	Total              int `json:"total"`
	SourceScore        int `json:"sourceScore"`
	UrgencyScore       int `json:"urgencyScore"`
	EngagementScore    int `json:"engagementScore"`
	QualificationScore int `json:"qualificationScore"`
	ContactScore       int `json:"contactScore"`
}

// Quality computes the additive, capped lead quality score.
func Quality(in Input) QualityScore {
	qs := QualityScore{
		SourceScore:        sourceScore(in.Source),
		UrgencyScore:       urgencyScore(in.Urgency),
		EngagementScore:    engagementScore(in.ChatMessageCount),
		QualificationScore: qualificationScore(in),
		ContactScore:       contactScore(in),
	}

	total := qs.SourceScore + qs.UrgencyScore + qs.EngagementScore + qs.QualificationScore + qs.ContactScore
	if total > maxScore {
		total = maxScore
	}
	qs.Total = total

	return qs
}

// UrgencyFromScore derives the urgency bucket from a quality score.
// Only applied when urgency was not explicitly supplied at creation.
func UrgencyFromScore(score int) domain.Urgency {
	switch {
	case score >= 80:
		return domain.UrgencyCritical
	case score >= 60:
		return domain.UrgencyHigh
	case score >= 40:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}

func sourceScore(source domain.Source) int {
	if score, ok := sourceScores[source]; ok {
		return score
	}
	return sourceScores[domain.SourceOther]
}

func urgencyScore(urgency domain.Urgency) int {
	if score, ok := urgencyScores[urgency]; ok {
		return score
	}
	return urgencyScores[domain.UrgencyLow]
}

func engagementScore(messageCount int) int {
	switch {
	case messageCount >= 10:
		return 20
	case messageCount >= 5:
		return 15
	case messageCount >= 3:
		return 10
	default:
		return 5
	}
}

func qualificationScore(in Input) int {
	score := 0
	if in.PropertyInterest != "" {
		score += 5
	}
	if in.BudgetMin != nil || in.BudgetMax != nil {
		score += 5
	}
	if in.TransactionType != "" {
		score += 3
	}
	if len(in.PreferredLocations) > 0 {
		score += 2
	}
	if score > 15 {
		score = 15
	}
	return score
}

func contactScore(in Input) int {
	score := 0
	if in.Email != "" {
		score += 5
	}
	if in.Phone != "" {
		score += 5
	}
	return score
}
