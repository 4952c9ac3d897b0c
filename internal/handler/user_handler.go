package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type UserHandler struct {
	profileService *service.ProfileService
}

func NewUserHandler(profileService *service.ProfileService) *UserHandler {
	return &UserHandler{profileService: profileService}
}

// Update handles PUT /api/user/update.
func (h *UserHandler) Update(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req service.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.profileService.Update(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			utils.Error(c, 404, "USER_NOT_FOUND", "User not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update profile")
		return
	}

	utils.Success(c, 200, "Profile updated", user)
}
