// Package handler exposes the in-app notification HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatematch_backend/internal/notification/repository"
	"estatematch_backend/platform/httpkit"
)

const msgInvalidID = "invalid notification id"

// Handler handles HTTP requests for notifications.
type Handler struct {
	repo *repository.Repository
}

// New creates a new notification handler.
func New(repo *repository.Repository) *Handler {
	return &Handler{repo: repo}
}

// ListNotifications returns notifications newest first.
// GET /api/v1/notifications?unread=true&limit=50
func (h *Handler) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.repo.List(c.Request.Context(), unreadOnly, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetUnreadCount returns the number of unread notifications.
// GET /api/v1/notifications/unread-count
func (h *Handler) GetUnreadCount(c *gin.Context) {
	count, err := h.repo.CountUnread(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"count": count})
}

// MarkNotificationRead flags one notification as read.
// POST /api/v1/notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.repo.MarkRead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MarkAllNotificationsRead flags everything as read.
// POST /api/v1/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	count, err := h.repo.MarkAllRead(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"updated": count})
}
