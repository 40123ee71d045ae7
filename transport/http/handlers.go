package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/service"
)

// AuthHandlers contains HTTP handlers for the auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
	cookies     CookieConfig
	logger      *slog.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService, cookies CookieConfig, logger *slog.Logger) *AuthHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandlers{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

// UserResponse is the public shape of a user; the password hash is never
// serialized
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(u *core.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Signup handles account creation
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, pair, err := h.authService.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		h.logger.Error("signup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	setAuthCookies(c, h.cookies, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login handles credential verification and session start
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.logger.Error("login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	setAuthCookies(c, h.cookies, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout revokes the session and clears both cookies. A missing refresh
// cookie still yields success.
func (h *AuthHandlers) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(RefreshCookie)

	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		if errors.Is(err, core.ErrInvalidToken) || errors.Is(err, core.ErrTokenExpired) {
			clearAuthCookies(c, h.cookies)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		h.logger.Error("logout failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	clearAuthCookies(c, h.cookies)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Refresh exchanges the refresh cookie for a new access token cookie
func (h *AuthHandlers) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(RefreshCookie)

	accessToken, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNoRefreshToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token provided"})
		case errors.Is(err, core.ErrInvalidToken),
			errors.Is(err, core.ErrTokenExpired),
			errors.Is(err, core.ErrSessionRevoked):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		default:
			h.logger.Error("refresh failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh token"})
		}
		return
	}

	setTokenCookie(c, h.cookies, AccessCookie, accessToken)
	c.JSON(http.StatusOK, gin.H{"message": "Access token refreshed"})
}

// Profile returns the authenticated user attached by the auth middleware
func (h *AuthHandlers) Profile(c *gin.Context) {
	user, exists := currentUser(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
