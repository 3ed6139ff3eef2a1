package api

import (
	"encoding/json"
	"net/http"
	"time"

	"item-appraiser/internal/health"
)

type healthResponse struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Shares    int           `json:"shares"`
	Health    health.Report `json:"health"`
}

/* ---------------- GET /api/health ---------------- */

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC(),
		Shares:    h.shares.Len(),
		Health:    h.analyzer.Analyze(),
	})
}

/* ---------------- GET /metrics ---------------- */

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.metrics.Snapshot())
}
