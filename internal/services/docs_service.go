package services

import (
	"bytes"
	"fmt"
	"strings"

	"ukrbus/internal/domain/models"
	"ukrbus/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the preorder summary PDF.
type DocsService struct {
	RequestID string
}

// Summary returns the PDF bytes and a download file name for p.
func (s DocsService) Summary(p models.Preorder) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "docs", "generate_summary", "preorder_id="+p.ID)
	return buildSummaryPDF(p)
}

func buildSummaryPDF(p models.Preorder) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Preorder", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PREORDER")
	pdf.Ln(12)

	t := p.Trip
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Preorder     : %s", p.ID),
		fmt.Sprintf("Route        : %s - %s", safe(t.StartPoint, "-"), safe(t.Destination, "-")),
		fmt.Sprintf("Departure    : %s %s, %s", t.DepartureDate, t.DepartureTime, safe(t.DepartureLocation, "-")),
		fmt.Sprintf("Arrival      : %s %s, %s", t.ArrivalDate, t.ArrivalTime, safe(t.ArrivalLocation, "-")),
		fmt.Sprintf("Duration     : %s", safe(t.Duration, "-")),
		"Seating      : free seating",
	}
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if len(p.Passengers) == 0 {
		pdf.Cell(0, 6, fmt.Sprintf("%d passenger(s), details not entered yet", p.PassengersCount))
		pdf.Ln(6)
	}
	for i, pd := range p.Passengers {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%d) %s %s, born %s", i+1, pd.FirstName, pd.LastName, pd.DOB)))
		pdf.Ln(6)
	}
	if p.Email != "" || p.PhoneNumber != "" {
		pdf.Ln(2)
		pdf.Cell(0, 6, tr(fmt.Sprintf("Contact: %s, %s", safe(p.Email, "-"), safe(p.PhoneNumber, "-"))))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Price (per passenger): "+utils.FormatHryvnia(t.Price))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatHryvnia(p.Total()))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This is a preorder summary, not a ticket. Payment has not been taken.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("PREORDER_%s_%s.pdf", safeFilenamePart(t.ID), safeFilenamePart(t.DepartureDate))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
