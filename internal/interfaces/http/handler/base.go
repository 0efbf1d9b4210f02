// Package handler exposes the sync pipelines over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/tenant"
	"github.com/fulfillsync/backend/internal/interfaces/http/dto"
	"github.com/fulfillsync/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := middleware.GetRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleDomainError converts domain errors to HTTP responses
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tenant.ErrNotFound), errors.Is(err, tenant.ErrPrefixNotFound):
		h.ErrorWithCode(c, dto.ErrCodeTenantUnknown, err.Error())
	case errors.Is(err, fulfillment.ErrOrderNotFound):
		h.ErrorWithCode(c, dto.ErrCodeNotFound, err.Error())
	case errors.Is(err, fulfillment.ErrPlatformUnavailable), errors.Is(err, fulfillment.ErrTransport):
		h.ErrorWithCode(c, dto.ErrCodeUpstreamUnavailable, err.Error())
	case errors.Is(err, fulfillment.ErrMalformedReport),
		errors.Is(err, fulfillment.ErrUnresolvedTenant),
		errors.Is(err, fulfillment.ErrPartialFailure):
		h.ErrorWithCode(c, dto.ErrCodeReportRejected, err.Error())
	default:
		h.InternalError(c, "An unexpected error occurred")
	}
}
