package http

import (
	"Shortly-Backend/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewHealthHandler(storage repository.Storage, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		log:     log,
	}
}

// HealthResponse is the health probe body.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Storage   string    `json:"storage"`
	Uptime    string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Health reports process and storage health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	storageStatus := "healthy"

	// Probe the store with a lookup that is expected to miss; anything
	// other than "not found" means the store is unreachable.
	_, err := h.storage.GetLink(ctx, "health-check-probe")
	if err != nil && !errors.Is(err, repository.ErrAliasNotFound) {
		storageStatus = "unhealthy"
		h.log.Error("storage health check failed", zap.Error(err))
	}

	status := "healthy"
	statusCode := http.StatusOK
	if storageStatus == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Storage:   storageStatus,
		Uptime:    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("failed to encode health response", zap.Error(err))
	}
}

// Ready reports whether the service can accept traffic.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}
