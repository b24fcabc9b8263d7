// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details carries field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeConflict    = "CONFLICT"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeFormat      = "INVALID_FORMAT"
	ErrorCodeForbidden   = "FORBIDDEN"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeSyncFailed  = "SYNC_FAILED"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeBadRequest  = "BAD_REQUEST"
)

// Gin context keys read by GetTraceID.
const (
	contextKeyTraceID   = "trace_id"
	contextKeyRequestID = "request_id"
)

const (
	internalErrorMessage    = "an internal error occurred"
	unavailableErrorMessage = "the remote quote source is temporarily unavailable"
	timeoutErrorMessage     = "request timeout exceeded"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeFormat, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnavailable, ErrorCodeSyncFailed:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetTraceID returns the ID a caller can quote when reporting a failure:
// the OpenTelemetry trace ID when the request is traced, otherwise a
// "trace_id" or the request ID stored on the gin.Context.
func GetTraceID(c *gin.Context) string {
	if c.Request != nil {
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			return sc.TraceID().String()
		}
	}

	for _, key := range []string{contextKeyTraceID, contextKeyRequestID} {
		if id, ok := c.Get(key); ok {
			if s, ok := id.(string); ok && s != "" {
				return s
			}
		}
	}

	return ""
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown and persistence errors become 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	var code, message string

	switch {
	case domain.IsValidation(err):
		code, message = ErrorCodeValidation, err.Error()
	case domain.IsFormat(err):
		code, message = ErrorCodeFormat, err.Error()
	case domain.IsNotFound(err):
		code, message = ErrorCodeNotFound, err.Error()
	case domain.IsConflict(err):
		code, message = ErrorCodeConflict, err.Error()
	case domain.IsForbidden(err):
		code, message = ErrorCodeForbidden, err.Error()
	case domain.IsFetch(err), domain.IsSubmit(err):
		code, message = ErrorCodeSyncFailed, err.Error()
	case domain.IsUnavailable(err):
		code, message = ErrorCodeUnavailable, unavailableErrorMessage
	case errors.Is(err, context.DeadlineExceeded):
		code, message = ErrorCodeTimeout, timeoutErrorMessage
	default:
		code, message = ErrorCodeInternal, internalErrorMessage
	}

	resp := NewErrorResponse(code, message)

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) && validationErr.Field != "" {
		resp.Error.Details = map[string]string{validationErr.Field: validationErr.Message}
	}

	return HTTPStatusFromCode(code), resp
}

// HandleError writes the error envelope for err and aborts the chain.
// Server-side failures are logged with the full error.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.WithTraceID(GetTraceID(c))

	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		logging.FromContext(ctx).ErrorContext(ctx, "request failed",
			slog.Int("status", status),
			slog.String("code", resp.Error.Code),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(status, resp)
}

// HandleErrorCode writes an envelope for adapter-level failures that have
// no domain error, such as an unparsable request body.
func HandleErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// HandleValidationErrors writes a 400 with field-level validation messages.
func HandleValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors)
	c.AbortWithStatusJSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))
}
