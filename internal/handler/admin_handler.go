package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type AdminHandler struct {
	gamificationService *service.GamificationService
	catalogService      *service.CatalogService
}

func NewAdminHandler(gamificationService *service.GamificationService, catalogService *service.CatalogService) *AdminHandler {
	return &AdminHandler{
		gamificationService: gamificationService,
		catalogService:      catalogService,
	}
}

// SeedBadges handles POST /api/admin/seed-badges. Seeding is idempotent:
// re-running inserts nothing and still succeeds.
func (h *AdminHandler) SeedBadges(c *gin.Context) {
	inserted, err := h.gamificationService.SeedBadges(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to seed badges")
		return
	}

	utils.Success(c, 200, "Badges seeded", gin.H{
		"inserted": inserted,
	})
}

// LimpiarCache handles POST /api/admin/limpiar-cache.
func (h *AdminHandler) LimpiarCache(c *gin.Context) {
	dropped, err := h.catalogService.LimpiarCache(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to wipe catalog cache")
		return
	}

	utils.Success(c, 200, "Catalog cache wiped", gin.H{
		"dropped": dropped,
	})
}

// DiagnosticoGamificacion handles GET /api/admin/diagnostico-gamificacion.
func (h *AdminHandler) DiagnosticoGamificacion(c *gin.Context) {
	counts, err := h.gamificationService.Diagnostics(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read gamification diagnostics")
		return
	}

	utils.Success(c, 200, "Gamification diagnostics retrieved", counts)
}
