package handler

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type PedidoHandler struct {
	pedidoService *service.PedidoService
}

func NewPedidoHandler(pedidoService *service.PedidoService) *PedidoHandler {
	return &PedidoHandler{pedidoService: pedidoService}
}

// Crear handles POST /api/pedidos (and its legacy /api/pedidos/create alias).
func (h *PedidoHandler) Crear(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req service.CrearInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	pedido, err := h.pedidoService.Crear(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMissingCliente):
			utils.Error(c, 400, "MISSING_CLIENTE", "Cliente name and phone are required")
		case errors.Is(err, utils.ErrEmptyLineas):
			utils.Error(c, 400, "EMPTY_LINEAS", "At least one order line is required")
		case errors.Is(err, utils.ErrInvalidLinea):
			utils.Error(c, 400, "INVALID_LINEA", "Order lines need a positive quantity and non-negative prices")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create pedido")
		}
		return
	}

	utils.Success(c, 201, "Pedido created", pedido)
}

// Listar handles GET /api/pedidos.
func (h *PedidoHandler) Listar(c *gin.Context) {
	userID := c.GetInt("user_id")

	pedidos, err := h.pedidoService.Listar(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list pedidos")
		return
	}

	utils.Success(c, 200, "Pedidos retrieved", pedidos)
}

// CambiarStatus handles PATCH /api/pedidos/:id/status.
func (h *PedidoHandler) CambiarStatus(c *gin.Context) {
	userID := c.GetInt("user_id")

	pedidoID, err := strconv.Atoi(c.Param("id"))
	if err != nil || pedidoID <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid pedido id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	pedido, err := h.pedidoService.CambiarStatus(c.Request.Context(), userID, pedidoID, models.PedidoStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrPedidoNotFound), errors.Is(err, sql.ErrNoRows):
			utils.Error(c, 404, "PEDIDO_NOT_FOUND", "Pedido not found")
		case errors.Is(err, utils.ErrInvalidTransition):
			utils.Error(c, 409, "INVALID_TRANSITION", "Only pending pedidos can change status")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update pedido status")
		}
		return
	}

	utils.Success(c, 200, "Pedido status updated", pedido)
}
