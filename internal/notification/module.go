// Package notification provides the in-app notification module. It records
// notifications for lead intake and high-score match events and serves the
// read/unread API.
package notification

import (
	"context"
	"fmt"
	"strings"

	"estatematch_backend/internal/events"
	apphttp "estatematch_backend/internal/http"
	"estatematch_backend/internal/notification/handler"
	"estatematch_backend/internal/notification/repository"
	"estatematch_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Notification type discriminators.
const (
	TypeLeadCreated    = "lead_created"
	TypeLeadAssigned   = "lead_assigned"
	TypeHighScoreMatch = "high_score_match"
)

// Module is the notification module implementing http.Module and
// events.Handler.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	log     *logger.Logger
}

// NewModule creates and initializes the notification module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	return &Module{
		handler: handler.New(repo),
		repo:    repo,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// Repository returns the notification store for external use.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts notification routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/notifications")
	group.GET("", m.handler.ListNotifications)
	group.GET("/unread-count", m.handler.GetUnreadCount)
	group.POST("/:id/read", m.handler.MarkNotificationRead)
	group.POST("/read-all", m.handler.MarkAllNotificationsRead)
}

// RegisterHandlers subscribes to the domain events that produce
// notifications.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.LeadAssigned{}.EventName(), m)
	bus.Subscribe(events.HighScoreMatchFound{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.handleLeadCreated(ctx, e)
	case events.LeadAssigned:
		return m.handleLeadAssigned(ctx, e)
	case events.HighScoreMatchFound:
		return m.handleHighScoreMatch(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	_, err := m.repo.Create(ctx, repository.CreateParams{
		Type:    TypeLeadCreated,
		Title:   "New lead: " + e.FullName,
		Message: fmt.Sprintf("%s came in via %s with quality score %d", e.FullName, e.Source, e.QualityScore),
		LeadID:  &e.LeadID,
	})
	return err
}

func (m *Module) handleLeadAssigned(ctx context.Context, e events.LeadAssigned) error {
	_, err := m.repo.Create(ctx, repository.CreateParams{
		Type:    TypeLeadAssigned,
		Title:   "Lead assigned to " + e.AgentName,
		Message: fmt.Sprintf("%s is now handled by %s", e.LeadName, e.AgentName),
		LeadID:  &e.LeadID,
	})
	return err
}

func (m *Module) handleHighScoreMatch(ctx context.Context, e events.HighScoreMatchFound) error {
	title := fmt.Sprintf("Match at %d%%", e.Score)
	if e.PropertyTitle != "" {
		title = fmt.Sprintf("Match at %d%%: %s", e.Score, e.PropertyTitle)
	}

	message := "Strong candidate found for an open demand"
	if len(e.TopReasons) > 0 {
		message = strings.Join(e.TopReasons, "; ")
	}

	_, err := m.repo.Create(ctx, repository.CreateParams{
		Type:     TypeHighScoreMatch,
		Title:    title,
		Message:  message,
		LeadID:   e.LeadID,
		DemandID: &e.DemandID,
	})
	return err
}

// Compile-time checks
var (
	_ apphttp.Module = (*Module)(nil)
	_ events.Handler = (*Module)(nil)
)
