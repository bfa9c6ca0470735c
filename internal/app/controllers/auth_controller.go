package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edutrack/internal/app/models/dto"
	"github.com/yigit/edutrack/internal/middleware"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

// Authenticator opens and closes admin sessions
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthController handles admin authentication endpoints
type AuthController struct {
	authService Authenticator
}

// NewAuthController creates a new AuthController
func NewAuthController(authService Authenticator) *AuthController {
	return &AuthController{authService: authService}
}

// Login authenticates an admin
// @Summary Admin login
// @Description Exchanges admin credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// Logout revokes the caller's session
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out successfully"
// @Failure 401 {object} dto.ErrorResponse "Missing, invalid or expired token"
// @Router /admin/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid or expired token"))
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), principal.SessionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Logged out successfully"))
}
