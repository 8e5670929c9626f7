package middleware

import (
	"errors"
	"net/http"
	"strings"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/services"
	"club_admin_backend/internal/session"
	"club_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	SessionKey = "session"
	UserIDKey  = "userID"
	RoleKey    = "userRole"
)

// AuthMiddleware resolves the bearer token to a session and stores it in the context.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		sess, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
				return
			}
			utils.LogError(err, "AuthMiddleware: failed to resume session")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeServiceUnavailable, "Session could not be restored", "Internal error"))
			return
		}

		c.Set(SessionKey, sess)
		c.Set(UserIDKey, sess.User.ID)
		c.Set(RoleKey, string(sess.User.Role))
		c.Next()
	}
}

// SessionFrom returns the session stored by AuthMiddleware, or nil.
func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// RoleAuthMiddleware allows the request only when the session role is one of allowedRoles.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated. Ensure AuthMiddleware runs first.", ""))
			return
		}

		for _, r := range allowedRoles {
			if sess.User.Role == r {
				c.Next()
				return
			}
		}

		names := make([]string, len(allowedRoles))
		for i, r := range allowedRoles {
			names[i] = string(r)
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource.", "Required roles: "+strings.Join(names, ", ")))
	}
}
