package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/pkg/core/allocator"
	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// Error codes returned in APIError.Code
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeOverrideRejected = "OVERRIDE_REJECTED"
	ErrCodeInternal         = "INTERNAL_SERVER_ERROR"
)

// APIError is the body of every error response
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, code, message, details string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message, Details: details}
}

func respondWithError(c *gin.Context, apiErr *APIError) {
	c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"error": apiErr})
}

// respondWithServiceError maps an engine error to a response. Malformed input is the
// caller's fault; anything else is logged as a server error.
func respondWithServiceError(c *gin.Context, logger *zap.Logger, message string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		respondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, message, err.Error()))
	case errors.Is(err, allocator.ErrUnknownShift), errors.Is(err, allocator.ErrNotAnAlternative):
		respondWithError(c, NewAPIError(http.StatusUnprocessableEntity, ErrCodeOverrideRejected, message, err.Error()))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondWithError(c, NewAPIError(http.StatusServiceUnavailable, ErrCodeInternal, message, err.Error()))
	default:
		logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		respondWithError(c, NewAPIError(http.StatusInternalServerError, ErrCodeInternal, message, "Internal error"))
	}
}
