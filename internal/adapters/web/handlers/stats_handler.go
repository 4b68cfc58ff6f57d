package handlers

import (
	"net/http"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/services/stats"
)

// StatsHandler serves the traffic side of the dashboard.
type StatsHandler struct {
	Stats *stats.StatsService
}

func NewStatsHandler(statsSvc *stats.StatsService) *StatsHandler {
	return &StatsHandler{Stats: statsSvc}
}

// HandleRequestStats returns the total request count and mean response time.
func (h *StatsHandler) HandleRequestStats(w http.ResponseWriter, r *http.Request) {
	count, avg, err := h.Stats.RequestStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load request stats")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"totalRequests":   count,
		"avgResponseTime": avg,
	})
}

// HandleTraffic returns per-bucket request totals overlaid with detected and
// blocked threat counts for the requested window.
func (h *StatsHandler) HandleTraffic(w http.ResponseWriter, r *http.Request) {
	window, err := domain.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown window")
		return
	}

	points, err := h.Stats.Traffic(r.Context(), window)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load traffic")
		return
	}
	respondJSON(w, http.StatusOK, points)
}
