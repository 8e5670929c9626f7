package handlers

import (
	"errors"
	"net/http"

	"club_admin_backend/internal/middleware"
	"club_admin_backend/internal/services"
	"club_admin_backend/internal/session"
	"club_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto the API error envelope.
// fn names the handler in the log line.
func respondServiceError(c *gin.Context, err error, fn string) {
	var apiErr *utils.APIError
	switch {
	case errors.Is(err, services.ErrValidation):
		apiErr = utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apiErr = utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		apiErr = utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error())
	case errors.Is(err, services.ErrForbidden):
		apiErr = utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to access this resource.", err.Error())
	case errors.Is(err, services.ErrNotFound):
		apiErr = utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found.", err.Error())
	case errors.Is(err, services.ErrConflict):
		apiErr = utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Resource already exists.", err.Error())
	default:
		utils.LogError(err, fn)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error.", "Internal error"))
		return
	}
	utils.LogWarn(err, fn)
	utils.RespondWithError(c, apiErr)
}

// bindJSON decodes the request body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}, fn string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.LogWarn(err, fn+": Failed to bind JSON")
		utils.RespondValidationFailed(c, utils.ValidationDetails(err))
		return false
	}
	return true
}

// bindQuery decodes query parameters into dst and answers 400 on failure.
func bindQuery(c *gin.Context, dst interface{}, fn string) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		utils.LogWarn(err, fn+": Failed to bind query")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid query parameters", utils.ValidationDetails(err)))
		return false
	}
	return true
}

// currentSession returns the request's session, answering 401 when there is none.
func currentSession(c *gin.Context) (*session.Session, bool) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing session in context"))
		return nil, false
	}
	return sess, true
}
