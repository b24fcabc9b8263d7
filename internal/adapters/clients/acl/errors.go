package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients"
	"github.com/jsamuelsen/quote-keeper/internal/domain"
)

// errorBodyLimit caps how much of an error body is read for a message.
const errorBodyLimit = 4 << 10

// ErrorResponse is the error body shape some servers return, either nested
// ({"error":{"message":..}}) or flat ({"message":..}).
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the nested part of an ErrorResponse.
type ErrorDetail struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// GetMessage returns the message from either format.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse decodes an error body. It returns nil when the body is
// empty, not JSON, or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, errorBodyLimit)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" && len(errResp.Error.Details) == 0 {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a failed exchange with the remote source to a domain
// error. clientErr takes precedence; otherwise the status of resp decides.
// A 2xx response maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation, entityID string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	return mapStatusCode(resp.StatusCode, errResp, serviceName, operation, entityID)
}

func mapClientError(err error, serviceName, operation string) error {
	var statusErr *clients.StatusError

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.As(err, &statusErr):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed with status %d", operation, statusErr.StatusCode))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, retryCause(err)))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// retryCause returns the last failure joined with ErrMaxRetriesExceeded.
// The client joins the two with a double %w, so errors.Unwrap sees nothing.
func retryCause(err error) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !errors.Is(e, clients.ErrMaxRetriesExceeded) {
				return e
			}
		}
	}

	return err
}

func mapStatusCode(status int, errResp *ErrorResponse, serviceName, operation, entityID string) error {
	message := defaultMessageForStatus(status, operation)
	if errResp != nil && errResp.GetMessage() != "" {
		message = errResp.GetMessage()
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, entityID)

	case http.StatusConflict:
		return domain.NewConflictError(serviceName, message)

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if errResp != nil {
			for field, msg := range errResp.Error.Details {
				return domain.NewValidationError(field, msg)
			}
		}

		return domain.NewValidationError("", message)

	case http.StatusForbidden:
		return domain.NewForbiddenError(operation, message)

	case http.StatusUnauthorized:
		return domain.NewForbiddenError(operation, "authentication required")

	case http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	default:
		if status >= http.StatusInternalServerError {
			return domain.NewUnavailableError(serviceName, message)
		}

		return domain.NewValidationError("", message)
	}
}

func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "resource conflict"
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
