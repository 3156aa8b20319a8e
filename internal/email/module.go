package email

import (
	"context"

	"estatematch_backend/internal/events"
	"estatematch_backend/platform/logger"
)

// Module subscribes to high-score match events and mails the agency inbox.
type Module struct {
	sender Sender
	inbox  string
	log    *logger.Logger
}

// NewModule creates the email module. With an empty inbox address the module
// stays silent.
func NewModule(sender Sender, inbox string, log *logger.Logger) *Module {
	return &Module{sender: sender, inbox: inbox, log: log}
}

// RegisterHandlers subscribes to the events this module mails about.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.HighScoreMatchFound{}.EventName(), m)
	m.log.Info("email module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.HighScoreMatchFound:
		return m.handleHighScoreMatch(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleHighScoreMatch(ctx context.Context, e events.HighScoreMatchFound) error {
	if m.inbox == "" {
		return nil
	}

	err := m.sender.SendMatchAlertEmail(ctx, m.inbox, MatchAlertData{
		PropertyTitle: e.PropertyTitle,
		Score:         e.Score,
		Reasons:       e.TopReasons,
	})
	if err != nil {
		m.log.Error("match alert email failed", "demand_id", e.DemandID, "error", err)
		return err
	}
	return nil
}

var _ events.Handler = (*Module)(nil)
