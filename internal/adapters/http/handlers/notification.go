package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

// NotificationHandler serves the visible notifications.
type NotificationHandler struct {
	feed ports.NotificationFeed
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(feed ports.NotificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// ListNotifications handles GET /api/v1/notifications
// Returns the notifications still within their display time, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewNotificationsResponse(h.feed.Active()))
}

// RegisterNotificationRoutes registers the notification routes on the given router group.
func (h *NotificationHandler) RegisterNotificationRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.ListNotifications)
}
