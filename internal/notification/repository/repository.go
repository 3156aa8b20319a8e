// Package repository provides PostgreSQL persistence for in-app notifications.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estatematch_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate      = "notification.repository.create"
	opList        = "notification.repository.list"
	opCountUnread = "notification.repository.count_unread"
	opMarkRead    = "notification.repository.mark_read"
	opMarkAllRead = "notification.repository.mark_all_read"

	errRepoNotConfigured = "notification repository not configured"
)

// Notification is a single in-app notification record.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
	DemandID  *uuid.UUID `json:"demandId,omitempty"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CreateParams carries the fields needed to insert a notification.
type CreateParams struct {
	Type     string
	Title    string
	Message  string
	LeadID   *uuid.UUID
	DemandID *uuid.UUID
}

// Repository is the PostgreSQL-backed notification store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const notificationColumns = `id, type, title, message, lead_id, demand_id, is_read, created_at`

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.LeadID, &n.DemandID, &n.IsRead, &n.CreatedAt)
	return n, err
}

// Create inserts a new notification.
func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if r == nil || r.pool == nil {
		return Notification{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (type, title, message, lead_id, demand_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		p.Type, p.Title, p.Message, p.LeadID, p.DemandID,
	)

	n, err := scanNotification(row)
	if err != nil {
		return Notification{}, apperr.Internal(fmt.Sprintf("create notification failed: %v", err)).WithOp(opCreate)
	}
	return n, nil
}

// List returns notifications newest first, optionally unread only.
func (r *Repository) List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications`
	if unreadOnly {
		query += ` WHERE is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list notifications query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan notification failed: %v", err)).WithOp(opList)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", err)).WithOp(opList)
	}
	return items, nil
}

// CountUnread returns the number of unread notifications.
func (r *Repository) CountUnread(ctx context.Context) (int, error) {
	if r == nil || r.pool == nil {
		return 0, apperr.Internal(errRepoNotConfigured).WithOp(opCountUnread)
	}

	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE is_read = FALSE`).Scan(&count)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("count unread failed: %v", err)).WithOp(opCountUnread)
	}
	return count, nil
}

// MarkRead flags one notification as read.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) (Notification, error) {
	if r == nil || r.pool == nil {
		return Notification{}, apperr.Internal(errRepoNotConfigured).WithOp(opMarkRead)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1
		RETURNING `+notificationColumns, id)

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, apperr.NotFound("notification not found").WithOp(opMarkRead)
		}
		return Notification{}, apperr.Internal(fmt.Sprintf("mark read failed: %v", err)).WithOp(opMarkRead)
	}
	return n, nil
}

// MarkAllRead flags every unread notification as read and returns the count.
func (r *Repository) MarkAllRead(ctx context.Context) (int, error) {
	if r == nil || r.pool == nil {
		return 0, apperr.Internal(errRepoNotConfigured).WithOp(opMarkAllRead)
	}

	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("mark all read failed: %v", err)).WithOp(opMarkAllRead)
	}
	return int(tag.RowsAffected()), nil
}
