package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// BlacklistHandler is the administrative surface of the blacklist gate.
type BlacklistHandler struct {
	Gate ports.BlacklistGate
}

func NewBlacklistHandler(gate ports.BlacklistGate) *BlacklistHandler {
	return &BlacklistHandler{Gate: gate}
}

func (h *BlacklistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Gate.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load blacklist")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// HandleAdd blocks an IP manually, outside the classification path.
func (h *BlacklistHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IP     string `json:"ip"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if req.Reason == "" {
		req.Reason = "Manually blocked by operator"
	}

	entry, err := domain.NewBlacklistEntry(req.IP, req.Reason)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Gate.Add(r.Context(), *entry); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save blacklist entry")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// HandleDelete lifts a block. The IP may start attacking again; the gate
// will simply re-block it on the next verdict.
func (h *BlacklistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ip := mux.Vars(r)["ip"]
	if ip == "" {
		respondError(w, http.StatusBadRequest, "Missing IP")
		return
	}

	if err := h.Gate.Remove(r.Context(), ip); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to remove blacklist entry")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed", "ip": ip})
}
