package handlers

import (
	"net/http"
	"strconv"

	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// LogHandler exposes raw access logs to administrators.
type LogHandler struct {
	Store ports.RequestLogStore
}

func NewLogHandler(store ports.RequestLogStore) *LogHandler {
	return &LogHandler{Store: store}
}

func (h *LogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := h.Store.ListRequestLogs(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
