// Package reporting renders threat reports into downloadable documents.
package reporting

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
)

// PDFExporter exports threat reports to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportThreatReport generates a PDF from a threat report.
func (e *PDFExporter) ExportThreatReport(report *domain.ThreatReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, report)
	e.addStatistics(pdf, report)
	e.addTypeBreakdown(pdf, report)
	e.addRecentThreats(pdf, report)
	e.addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, report *domain.ThreatReport) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 15, "Threat Detection Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	dateStr := fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, dateStr, "", 1, "L", false, 0, "")
	windowStr := fmt.Sprintf("Window: last %s", report.Window)
	pdf.CellFormat(0, 6, windowStr, "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

func (e *PDFExporter) addStatistics(pdf *gofpdf.Fpdf, report *domain.ThreatReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Overview", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	stats := []struct {
		label string
		value int64
	}{
		{"Total Threats", report.Stats.TotalThreats},
		{"Blocked", report.Stats.BlockedThreats},
		{"Active", report.Stats.ActiveThreats},
	}

	x := pdf.GetX()
	y := pdf.GetY()
	boxWidth := 55.0

	for i, s := range stats {
		boxX := x + float64(i)*(boxWidth+3)

		pdf.SetFillColor(245, 247, 250)
		pdf.Rect(boxX, y, boxWidth, 22, "F")

		pdf.SetFont("Arial", "B", 20)
		pdf.SetTextColor(0, 51, 102)
		pdf.SetXY(boxX+4, y+3)
		pdf.CellFormat(boxWidth-8, 10, fmt.Sprintf("%d", s.value), "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.SetXY(boxX+4, y+13)
		pdf.CellFormat(boxWidth-8, 6, s.label, "", 0, "L", false, 0, "")
	}

	pdf.SetXY(x, y+28)
	pdf.Ln(4)
}

func (e *PDFExporter) addTypeBreakdown(pdf *gofpdf.Fpdf, report *domain.ThreatReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Threats by Type", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.ByType) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, "No threats recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(0, 51, 102)
	pdf.CellFormat(120, 8, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Count", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(60, 60, 60)
	fill := false
	for _, tc := range report.ByType {
		pdf.SetFillColor(245, 247, 250)
		pdf.CellFormat(120, 8, string(tc.Type), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("%d", tc.Count), "1", 1, "R", fill, 0, "")
		fill = !fill
	}
	pdf.Ln(6)
}

func (e *PDFExporter) addRecentThreats(pdf *gofpdf.Fpdf, report *domain.ThreatReport) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Recent Threats", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.Recent) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, "No recent threats.", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(0, 51, 102)
	pdf.CellFormat(35, 8, "Detected", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Source IP", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Status", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Conf.", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(60, 60, 60)
	fill := false
	for _, r := range report.Recent {
		pdf.SetFillColor(245, 247, 250)
		pdf.CellFormat(35, 7, r.DetectedAt.Format("01-02 15:04"), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(40, 7, r.IP, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(50, 7, string(r.ThreatType), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(25, 7, string(r.Status), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%.0f%%", r.Confidence*100), "1", 1, "R", fill, 0, "")
		fill = !fill
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf) {
	pdf.SetY(-20)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 6, "authgate threat detection", "", 1, "C", false, 0, "")
}
