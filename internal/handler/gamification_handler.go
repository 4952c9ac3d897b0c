package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type GamificationHandler struct {
	gamificationService *service.GamificationService
}

func NewGamificationHandler(gamificationService *service.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationService: gamificationService}
}

// Stats handles GET /api/gamification/stats.
func (h *GamificationHandler) Stats(c *gin.Context) {
	userID := c.GetInt("user_id")

	stats, err := h.gamificationService.Stats(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read gamification stats")
		return
	}

	utils.Success(c, 200, "Gamification stats retrieved", stats)
}
