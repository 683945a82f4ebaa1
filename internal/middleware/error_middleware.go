package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/auth"
	"github.com/tutorhub/selection/internal/pkg/logger"
)

// exposeDebugInfo controls whether 500 responses carry the underlying error text
var exposeDebugInfo = true

// SetDebugInfo toggles debug info on internal server errors. Production disables it.
func SetDebugInfo(enabled bool) {
	exposeDebugInfo = enabled
}

// errorMapping pairs a sentinel with the HTTP status and code it is reported as.
// Order matters: the first match wins, so specific sentinels come before their wrappers.
var errorMapping = []struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{auth.ErrExpiredToken, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMapping {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, apperrors.Message(err, m.message))
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && len(custom.Details) > 0 {
			detail = detail.WithDetails(custom.Details)
		}
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Unhandled error")
	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	if exposeDebugInfo {
		detail = detail.WithDebugInfo("%v", err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
}
