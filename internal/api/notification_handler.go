package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/service"
	"github.com/rs/zerolog"
)

// NotificationHandler handles the signed-in user's notifications
type NotificationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(services *service.Services, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		services: services,
		log:      log.With().Str("handler", "notification").Logger(),
	}
}

// List handles GET /v1/notifications?filter=all|unread|read
func (h *NotificationHandler) List(c *gin.Context) {
	page, err := pagination(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	filter := models.NotificationFilter(c.Query("filter"))
	result, err := h.services.Notification.List(c.Request.Context(), principalFrom(c).UserID, filter, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create handles POST /v1/notifications. Admin only.
func (h *NotificationHandler) Create(c *gin.Context) {
	var input models.NotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperr.Validation("invalid request body"))
		return
	}

	notification, err := h.services.Notification.Send(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// UnreadCount handles GET /v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.services.Notification.UnreadCount(c.Request.Context(), principalFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead handles PUT /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.services.Notification.MarkRead(c.Request.Context(), id, principalFrom(c).UserID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles PUT /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.services.Notification.MarkAllRead(c.Request.Context(), principalFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Delete handles DELETE /v1/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.services.Notification.Delete(c.Request.Context(), id, principalFrom(c).UserID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
