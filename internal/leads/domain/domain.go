// Package domain defines the lead pipeline types and their lifecycle rules.
package domain

// Status is a lead's position in the sales pipeline.
type Status string

const (
	StatusNew            Status = "new"
	StatusContacted      Status = "contacted"
	StatusQualified      Status = "qualified"
	StatusVisitScheduled Status = "visit_scheduled"
	StatusVisitDone      Status = "visit_done"
	StatusNegotiating    Status = "negotiating"
	StatusOfferMade      Status = "offer_made"
	StatusOnHold         Status = "on_hold"
	StatusWon            Status = "won"
	StatusLost           Status = "lost"
)

// Urgency is a 4-level priority bucket.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Source is the acquisition channel a lead came through.
type Source string

const (
	SourceWebsite   Source = "website"
	SourceFacebook  Source = "facebook"
	SourceInstagram Source = "instagram"
	SourceWhatsApp  Source = "whatsapp"
	SourcePhoneCall Source = "phone_call"
	SourceReferral  Source = "referral"
	SourceWalkIn    Source = "walk_in"
	SourceOther     Source = "other"
)

// statusTransitions enumerates every legal pipeline move.
var statusTransitions = map[Status][]Status{
	StatusNew:            {StatusContacted, StatusOnHold, StatusLost},
	StatusContacted:      {StatusQualified, StatusOnHold, StatusLost},
	StatusQualified:      {StatusVisitScheduled, StatusNegotiating, StatusOnHold, StatusLost},
	StatusVisitScheduled: {StatusVisitDone, StatusOnHold, StatusLost},
	StatusVisitDone:      {StatusNegotiating, StatusOfferMade, StatusOnHold, StatusLost},
	StatusNegotiating:    {StatusOfferMade, StatusWon, StatusOnHold, StatusLost},
	StatusOfferMade:      {StatusNegotiating, StatusWon, StatusOnHold, StatusLost},
	StatusOnHold:         {StatusContacted, StatusQualified, StatusLost},
	StatusWon:            {},
	StatusLost:           {},
}

// CanTransition reports whether a lead may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status ends the pipeline.
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// IsValid reports whether the status is one of the known pipeline states.
func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsValid reports whether the urgency is a known level.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// IsValid reports whether the source is a known channel.
func (s Source) IsValid() bool {
	switch s {
	case SourceWebsite, SourceFacebook, SourceInstagram, SourceWhatsApp,
		SourcePhoneCall, SourceReferral, SourceWalkIn, SourceOther:
		return true
	}
	return false
}
