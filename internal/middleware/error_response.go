package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"harapan-web/pkg/errors"
	"harapan-web/pkg/logger"
)

// WriteError writes appErr as a JSON error response
func WriteError(w http.ResponseWriter, r *http.Request, appErr *errors.AppError, logger *logger.Logger) {
	requestID := RequestIDFromContext(r.Context())

	log := logger.WithFields(map[string]interface{}{
		"path":        r.URL.Path,
		"status_code": appErr.StatusCode,
		"request_id":  requestID,
	}).WithError(appErr)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("Request error")
	} else {
		log.Debug("Request rejected")
	}

	response := errors.ErrorResponse{
		Success: false,
		Error: errors.ErrorBody{
			Type:      appErr.Type,
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: requestID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode error response")
	}
}
