package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lcalzada-xor/authgate/internal/adapters/reporting"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/services/stats"
)

// ReportHandler renders the downloadable threat report.
type ReportHandler struct {
	Stats    *stats.StatsService
	Exporter *reporting.PDFExporter
}

func NewReportHandler(statsSvc *stats.StatsService, exporter *reporting.PDFExporter) *ReportHandler {
	return &ReportHandler{Stats: statsSvc, Exporter: exporter}
}

func (h *ReportHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	window, err := domain.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown window")
		return
	}

	report, err := h.Stats.ThreatReport(r.Context(), window)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	data, err := h.Exporter.ExportThreatReport(report)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	filename := fmt.Sprintf("threat-report-%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
