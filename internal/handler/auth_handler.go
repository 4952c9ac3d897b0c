package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/revendehq/revende_api/internal/middleware"
	"github.com/revendehq/revende_api/internal/service"
	"github.com/revendehq/revende_api/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	rateLimiter *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService *service.AuthService, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, rateLimiter: rateLimiter}
}

// Registro handles POST /api/auth/registro.
func (h *AuthHandler) Registro(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Nombre   string `json:"nombre" binding:"required"`
		Handle   string `json:"handle" binding:"required"`
		Cedula   string `json:"cedula" binding:"required"`
		Telefono string `json:"telefono"`
		Margen   int    `json:"margen"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.authService.Registro(c.Request.Context(), service.RegistroInput{
		Email:    req.Email,
		Password: req.Password,
		Nombre:   req.Nombre,
		Handle:   req.Handle,
		Cedula:   req.Cedula,
		Telefono: req.Telefono,
		Margen:   req.Margen,
	})
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEmailTaken):
			utils.Error(c, 400, "EMAIL_TAKEN", "Email is already registered")
		case errors.Is(err, utils.ErrHandleTaken):
			utils.Error(c, 400, "HANDLE_TAKEN", "Handle is already taken")
		case errors.Is(err, utils.ErrCedulaTaken):
			utils.Error(c, 400, "CEDULA_TAKEN", "Cedula is already registered")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to register user")
		}
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to issue token")
		return
	}

	utils.Success(c, 201, "Registration successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// Login handles POST /api/auth/login. Invalid attempts are rate limited per
// IP; successful logins never consume the budget.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			h.handleInvalidLogin(c)
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Login failed")
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) handleInvalidLogin(c *gin.Context) {
	// Apply rate limit for invalid login attempts
	if !h.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many invalid login attempts, try again later")
		return
	}
	utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
}
