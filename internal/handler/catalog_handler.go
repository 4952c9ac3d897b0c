package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List handles GET /api/catalogo.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read catalog")
		return
	}

	utils.Success(c, 200, "Catalog retrieved", gin.H{
		"products": products,
		"count":    len(products),
	})
}

// BestSellers handles GET /api/best-sellers.
func (h *CatalogHandler) BestSellers(c *gin.Context) {
	products, err := h.catalogService.ListBestSellers(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read best sellers")
		return
	}

	utils.Success(c, 200, "Best sellers retrieved", gin.H{
		"products": products,
		"count":    len(products),
	})
}

// Categories handles GET /api/catalogo/categories.
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.catalogService.Categories(c.Request.Context())
	if err != nil {
		utils.Error(c, 502, "STORE_API_ERROR", "Failed to fetch categories")
		return
	}

	utils.Success(c, 200, "Categories retrieved", gin.H{
		"categories": categories,
	})
}
