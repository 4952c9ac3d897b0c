package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type ConsolidacionHandler struct {
	consolidacionService *service.ConsolidacionService
}

func NewConsolidacionHandler(consolidacionService *service.ConsolidacionService) *ConsolidacionHandler {
	return &ConsolidacionHandler{consolidacionService: consolidacionService}
}

// Crear handles POST /api/consolidaciones.
func (h *ConsolidacionHandler) Crear(c *gin.Context) {
	userID := c.GetInt("user_id")

	cons, err := h.consolidacionService.Crear(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, utils.ErrNoCompletedPedidos) {
			utils.Error(c, 400, "NO_COMPLETED_PEDIDOS", "No completed pedidos to consolidate")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create consolidación")
		return
	}

	utils.Success(c, 201, "Consolidación created", cons)
}

// Pendientes handles GET /api/consolidaciones/pendientes: a preview of what
// the next consolidación would batch.
func (h *ConsolidacionHandler) Pendientes(c *gin.Context) {
	userID := c.GetInt("user_id")

	resumen, err := h.consolidacionService.Pendientes(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read pending pedidos")
		return
	}

	utils.Success(c, 200, "Pending pedidos retrieved", resumen)
}

// Listar handles GET /api/consolidaciones.
func (h *ConsolidacionHandler) Listar(c *gin.Context) {
	userID := c.GetInt("user_id")

	consolidaciones, err := h.consolidacionService.Listar(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list consolidaciones")
		return
	}

	utils.Success(c, 200, "Consolidaciones retrieved", consolidaciones)
}
