package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Public handles GET /api/profile/public/:handle. No auth required.
func (h *ProfileHandler) Public(c *gin.Context) {
	handle := c.Param("handle")

	profile, err := h.profileService.Public(c.Request.Context(), handle)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			utils.Error(c, 404, "USER_NOT_FOUND", "Profile not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read profile")
		return
	}

	utils.Success(c, 200, "Profile retrieved", profile)
}

// UploadFoto handles POST /api/profile/upload-photo.
func (h *ProfileHandler) UploadFoto(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req struct {
		Imagen string `json:"imagen" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	url, err := h.profileService.UploadFoto(c.Request.Context(), userID, req.Imagen)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidImagen) {
			utils.Error(c, 400, "INVALID_IMAGEN", "Image must be base64 encoded")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to upload photo")
		return
	}

	utils.Success(c, 200, "Photo uploaded", gin.H{
		"fotoUrl": url,
	})
}
