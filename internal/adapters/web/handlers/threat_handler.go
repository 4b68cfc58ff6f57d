package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"github.com/lcalzada-xor/authgate/internal/core/services/stats"
)

// ThreatHandler serves the dashboard's threat views.
type ThreatHandler struct {
	Stats  *stats.StatsService
	Ledger ports.ThreatLedger
}

func NewThreatHandler(statsSvc *stats.StatsService, ledger ports.ThreatLedger) *ThreatHandler {
	return &ThreatHandler{Stats: statsSvc, Ledger: ledger}
}

// HandleRecent returns the most recent threats, newest first. The limit
// query parameter caps the result, defaulting to 50.
func (h *ThreatHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	threats, err := h.Stats.RecentThreats(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load threats")
		return
	}
	respondJSON(w, http.StatusOK, threats)
}

func (h *ThreatHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	threatStats, err := h.Stats.ThreatStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	respondJSON(w, http.StatusOK, threatStats)
}

func (h *ThreatHandler) HandleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Stats.ThreatTypes(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load threat types")
		return
	}
	respondJSON(w, http.StatusOK, types)
}

// HandleTimeline returns the blocked-threat histogram for the requested
// window (hour, day, week or month; defaults to hour).
func (h *ThreatHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	window, err := domain.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown window")
		return
	}

	timeline, err := h.Stats.BlockedTimeline(r.Context(), window)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load timeline")
		return
	}
	respondJSON(w, http.StatusOK, timeline)
}

// HandleUpdateStatus applies an operator status transition to one record.
func (h *ThreatHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid threat id")
		return
	}

	var req struct {
		Status domain.ThreatStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if !req.Status.IsValid() {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.Ledger.UpdateThreatStatus(r.Context(), uint(id), req.Status); err != nil {
		if errors.Is(err, domain.ErrThreatNotFound) {
			respondError(w, http.StatusNotFound, "Threat not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update threat")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"status": req.Status,
	})
}
