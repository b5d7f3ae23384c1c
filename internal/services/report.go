package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderReport lays out snap as a one-page A4 PDF.
func RenderReport(snap *Snapshot, siteName string, at time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(siteName+" analytics", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, siteName+" - Analytics Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, "Generated "+at.UTC().Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Overview", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	for _, row := range []struct {
		label string
		value int64
	}{
		{"Users", snap.Stats.Users},
		{"Listings", snap.Stats.Listings},
		{"Leads", snap.Stats.Leads},
		{"Active sectors", snap.Stats.ActiveSectors},
	} {
		pdf.CellFormat(60, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", row.value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Listings per category", "", 1, "L", false, 0, "")
	pdf.CellFormat(100, 8, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Listings", "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	if len(snap.CategoryDistribution) == 0 {
		pdf.CellFormat(140, 8, "No categories", "1", 1, "C", false, 0, "")
	}
	for _, c := range snap.CategoryDistribution {
		pdf.CellFormat(100, 8, c.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", c.Count), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
