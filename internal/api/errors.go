package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	apperrors "github.com/gptdeskapp/gptdesk-server/internal/errors"
	"github.com/gptdeskapp/gptdesk-server/internal/store"
)

// APIError implements huma.StatusError and serializes to the wire
// error envelope {"error": {"message": ...}}.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status int
	Detail ErrorDetail `json:"error"`
}

// ErrorDetail is the inner object of the error envelope.
type ErrorDetail struct {
	Message string `json:"message" doc:"Human-readable error message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Detail.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to emit the error envelope.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var appErr *apperrors.Error
			if errors.As(err, &appErr) {
				return &APIError{
					status: appErr.HTTPStatus(),
					Detail: ErrorDetail{Message: appErr.Message},
				}
			}

			var storeErr *store.Error
			if errors.As(err, &storeErr) {
				return &APIError{
					status: storeErr.HTTPCode(),
					Detail: ErrorDetail{Message: storeErr.Message},
				}
			}
		}

		return &APIError{
			status: status,
			Detail: ErrorDetail{Message: message},
		}
	}
}
