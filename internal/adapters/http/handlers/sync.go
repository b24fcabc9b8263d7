package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-keeper/internal/app"
)

// SyncHandler exposes the reconciler.
type SyncHandler struct {
	service *app.SyncService
	enabled bool
}

// NewSyncHandler creates a sync handler. enabled reports whether the
// periodic loop runs; manual triggers work either way.
func NewSyncHandler(service *app.SyncService, enabled bool) *SyncHandler {
	return &SyncHandler{service: service, enabled: enabled}
}

// TriggerSync handles POST /api/v1/sync
// Runs one cycle now. Answers 409 while another cycle is in flight and 503
// when the remote source could not be reached. A started cycle finishes even
// if the caller disconnects.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	result, err := h.service.Trigger(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSyncResponse(result))
}

// GetSyncStatus handles GET /api/v1/sync/status
func (h *SyncHandler) GetSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSyncStatusResponse(h.service.Status(), h.enabled, h.service.Interval()))
}

// RegisterSyncRoutes registers the sync routes on the given router group.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.TriggerSync)
	rg.GET("/sync/status", h.GetSyncStatus)
}
