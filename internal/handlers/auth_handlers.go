package handlers

import (
	"errors"
	"net/http"

	"club_admin_backend/internal/metrics"
	"club_admin_backend/internal/models"
	"club_admin_backend/internal/services"
	"club_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// LoginObserver counts login attempts by result.
type LoginObserver interface {
	ObserveLogin(result string)
}

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
	logins      LoginObserver
}

// NewAuthHandler creates a new AuthHandler. logins may be nil.
func NewAuthHandler(as services.AuthService, logins LoginObserver) *AuthHandler {
	return &AuthHandler{authService: as, logins: logins}
}

func (h *AuthHandler) observe(result string) {
	if h.logins != nil {
		h.logins.ObserveLogin(result)
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "Login") {
		return
	}

	resp, _, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.observe(metrics.LoginFailure)
		} else {
			h.observe(metrics.LoginError)
		}
		respondServiceError(c, err, "Login: Error from authService.Login")
		return
	}
	h.observe(metrics.LoginSuccess)
	utils.LogInfo("User logged in", map[string]interface{}{"user_id": resp.User.ID, "role": resp.User.Role})
	c.JSON(http.StatusOK, resp)
}

// Logout revokes the bearer token of the request.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), sess); err != nil {
		respondServiceError(c, err, "Logout: Error from authService.Logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(sess)
	if err != nil {
		respondServiceError(c, err, "Me: Error from authService.Me")
		return
	}
	c.JSON(http.StatusOK, user)
}

// State returns the loading flag, last error, selected club and collection sizes
// of the session's store.
func (h *AuthHandler) State(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Store.State())
}
