package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"harapan-web/internal/container"
	"harapan-web/pkg/database"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health. Optional stores that fail their ping mark the
// service degraded without failing the check.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Service:   "harapan-web",
		Checks:    map[string]string{},
	}

	if client := h.container.GetRedisClient(); client != nil {
		response.Checks["redis"] = "ok"
		if err := client.Health(ctx); err != nil {
			logger.WithError(err).Warn("Redis health check failed")
			response.Checks["redis"] = "unavailable"
			response.Status = "degraded"
		}
	}
	if h.container.HasDatabase() {
		response.Checks["database"] = "ok"
		if err := h.container.DB.Health(ctx); err != nil {
			logger.WithError(err).Warn("Database health check failed")
			response.Checks["database"] = "unavailable"
			if stderrors.Is(err, database.ErrSchemaMissing) {
				response.Checks["database"] = "schema_missing"
			}
			response.Status = "degraded"
		}
	}

	writeJSON(w, r, http.StatusOK, response, logger)
}
