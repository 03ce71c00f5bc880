package api

import (
	"net/http"
	"time"

	reqdto "timegrid/internal/handler/dto/request"
	resdto "timegrid/internal/handler/dto/response"
	"timegrid/internal/handler/middleware"
	"timegrid/internal/pkg/cookie"
	"timegrid/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *commands.AuthCommands
}

func NewAuthHandler(auth *commands.AuthCommands) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// @Summary User login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tokens, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, tokens)
	c.JSON(http.StatusOK, resdto.LoginResponse{AccessToken: tokens.AccessToken})
}

// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Produce json
// @Success 200 {object} resdto.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := cookie.GetRefreshToken(c)
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token required"})
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, tokens)
	c.JSON(http.StatusOK, resdto.LoginResponse{AccessToken: tokens.AccessToken})
}

// @Summary User logout
// @Description Clear the authentication cookies
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.Clear(c)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Description Get current authenticated user identity
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": p.UserID.String(),
		"role":    p.Role.String(),
	})
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, tokens *commands.TokenPair) {
	cookie.SetAccessToken(c, tokens.AccessToken, int((15 * time.Minute).Seconds()))
	cookie.SetRefreshToken(c, tokens.RefreshToken, int((720 * time.Hour).Seconds()))
}
