package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edutrack/internal/app/models/dto"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
	"github.com/yigit/edutrack/internal/pkg/dberrors"
	"github.com/yigit/edutrack/internal/pkg/logger"
)

// apiError describes how one error category is rendered
type apiError struct {
	target   error
	status   int
	code     dto.ErrorCode
	fallback string
}

// errorTable is checked in order; the first matching target wins.
var errorTable = []apiError{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrDuplicate, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrInvalidState, http.StatusBadRequest, dto.ErrorCodeInvalidState, "Invalid state"},
	{apperrors.ErrCapacityExceeded, http.StatusBadRequest, dto.ErrorCodeCapacityExceeded, "Capacity exceeded"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenMissing, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authorization header missing"},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Invalid authorization header format"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid or expired token"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Concurrent update conflict, please retry"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable, "Service unavailable"},
}

// HandleAPIError maps err to its HTTP status and writes the error envelope.
// Unclassified errors become a 500 whose body never carries the raw error.
func HandleAPIError(c *gin.Context, err error) {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			writeError(c, e.status, dto.NewErrorDetail(e.code, apperrors.Message(err, e.fallback)))
			return
		}
	}

	if dberrors.IsConnectionError(err) {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Datastore unreachable")
		writeError(c, http.StatusServiceUnavailable,
			dto.NewErrorDetail(dto.ErrorCodeServiceUnavailable, "Database unavailable").WithSeverity(dto.ErrorSeverityCritical))
		return
	}

	logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Unhandled error")
	writeError(c, http.StatusInternalServerError,
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical))
}

// HandleBindingError renders a request that failed to bind or validate.
func HandleBindingError(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, dto.HandleValidationError(err))
}

func writeError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
