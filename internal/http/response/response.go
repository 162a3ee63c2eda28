// Package response writes JSON HTTP responses and maps internal errors
// to the wire error envelope {"error": {"message": ...}}.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	apperrors "github.com/gptdeskapp/gptdesk-server/internal/errors"
	"github.com/gptdeskapp/gptdesk-server/internal/genai"
	"github.com/gptdeskapp/gptdesk-server/internal/store"
)

// errorEnvelope is the wire shape for every error response.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.MarshalWrite(w, v); err != nil {
		// Headers are already out; nothing left to do but log.
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes the error envelope with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorEnvelope{Error: errorBody{Message: message}})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func BadGateway(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadGateway, message)
}

func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal server error")
}

// HandleError maps an error from the service or upstream layers to an
// HTTP error response. Unknown errors become a generic 500 so internal
// details never leak to clients.
func HandleError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if apperrors.As(err, &appErr) {
		Error(w, appErr.HTTPStatus(), appErr.Message)
		return
	}

	var storeErr *store.Error
	if apperrors.As(err, &storeErr) {
		Error(w, storeErr.HTTPCode(), storeErr.Message)
		return
	}

	var upstream *genai.UpstreamError
	switch {
	case apperrors.Is(err, genai.ErrMissingAPIKey):
		Error(w, http.StatusServiceUnavailable, "Generation is not configured")
	case apperrors.Is(err, genai.ErrModelNotFound):
		BadRequest(w, "Unknown model")
	case apperrors.Is(err, genai.ErrRateLimited):
		Error(w, http.StatusTooManyRequests, "Too many requests, slow down")
	case apperrors.As(err, &upstream):
		BadGateway(w, upstream.Message)
	case apperrors.Is(err, genai.ErrEmptyResponse):
		BadGateway(w, "Upstream returned an empty response")
	default:
		slog.Error("unhandled error", "error", err)
		InternalError(w)
	}
}
