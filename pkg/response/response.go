// Package response writes the JSON bodies shared by every HTTP handler.
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/propmanagement/backend/pkg/apperror"
	"github.com/propmanagement/backend/pkg/logger"
)

// JSON writes data as a JSON body with the given status
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error(context.Background()).Err(err).Msg("Failed to encode response")
	}
}

// Error writes {"error": message} with the given status
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// FromError maps err onto its status code and writes the client facing message.
// Internal errors are logged with their cause before the generic message is sent.
func FromError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		logger.Error(ctx).Err(err).Msg("Request failed")
	}
	Error(w, apperror.HTTPStatus(kind), apperror.MessageOf(err))
}
