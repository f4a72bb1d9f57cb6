package handler

import (
	"encoding/json"
	"net/http"

	"harapan-web/pkg/logger"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).WithField("path", r.URL.Path).Error("Failed to encode response")
	}
}
