// Package email delivers outbound mail for high-score match alerts. A noop
// sender stands in when SMTP is not configured, so the matching flow never
// depends on mail availability.
package email

import "context"

// Sender delivers the alert mails this service produces.
type Sender interface {
	SendMatchAlertEmail(ctx context.Context, toEmail string, data MatchAlertData) error
}

// MatchAlertData carries the fields rendered into a match alert mail.
type MatchAlertData struct {
	ContactName   string
	PropertyTitle string
	Score         int
	Reasons       []string
}

// NoopSender satisfies Sender without delivering anything.
type NoopSender struct{}

// SendMatchAlertEmail does nothing.
func (NoopSender) SendMatchAlertEmail(context.Context, string, MatchAlertData) error {
	return nil
}

var _ Sender = NoopSender{}
