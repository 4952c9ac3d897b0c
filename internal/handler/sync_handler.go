package handler

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type SyncHandler struct {
	syncService *service.SyncService
	cronSecret  string
	timeout     time.Duration
}

func NewSyncHandler(syncService *service.SyncService, cronSecret string, timeout time.Duration) *SyncHandler {
	return &SyncHandler{syncService: syncService, cronSecret: cronSecret, timeout: timeout}
}

// SyncCatalog handles GET /api/cron/sync-catalog. The endpoint is guarded by
// a shared secret so only the scheduler can trigger it, and the run is capped
// by a wall-clock timeout.
func (h *SyncHandler) SyncCatalog(c *gin.Context) {
	secret := c.GetHeader("X-Cron-Secret")
	if h.cronSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.cronSecret)) != 1 {
		utils.Error(c, 401, "UNAUTHORIZED", "Invalid cron secret")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.syncService.SyncCatalog(ctx)
	if err != nil {
		utils.Error(c, 502, "SYNC_FAILED", "Catalog sync failed")
		return
	}

	utils.Success(c, 200, "Catalog sync completed", result)
}
