// Package export renders incident reports as a PDF case receipt and an XLSX
// admin export.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// Exporter implements ports.ReportExporter.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

// Receipt renders a one-page PDF confirming a submitted report.
func (Exporter) Receipt(r *domain.IncidentReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Case "+r.CaseID, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Digital Shield - Incident Report Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 7, tr(value), "", "L", false)
	}
	line("Case ID", r.CaseID)
	line("Status", string(r.Status))
	line("Incident type", r.IncidentType)
	line("Urgency", string(r.Urgency))
	line("Submitted", r.CreatedAt.UTC().Format(time.RFC1123))
	if r.IncidentDate != nil {
		line("Incident date", r.IncidentDate.UTC().Format(time.DateOnly))
	}
	line("Location", r.Location)
	line("Assigned agent", r.AssignedAgent)
	if r.IsAnonymous {
		line("Contact", "Anonymous report")
	} else {
		line("Contact email", r.ContactEmail)
		line("Contact phone", r.ContactPhone)
	}
	if len(r.EvidenceFiles) > 0 {
		line("Evidence", strings.Join(r.EvidenceFiles, ", "))
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, "Description")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(r.Description), "1", "L", false)

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "Keep this case ID for your records. Quote it when contacting support about this report.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

var spreadsheetHeader = []any{
	"Case ID", "Status", "Incident Type", "Urgency", "Submitted", "Incident Date",
	"Location", "Anonymous", "Contact Email", "Contact Phone", "Assigned Agent", "Description",
}

// Spreadsheet renders reports as one row each plus a summary sheet.
func (Exporter) Spreadsheet(reports []domain.IncidentReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	reportsSheet := "reports"
	summarySheet := "summary"
	if err := f.SetSheetName("Sheet1", reportsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(reportsSheet, "A1", &spreadsheetHeader); err != nil {
		return nil, err
	}
	byStatus := map[domain.ReportStatus]int{}
	for i, r := range reports {
		incidentDate := ""
		if r.IncidentDate != nil {
			incidentDate = r.IncidentDate.UTC().Format(time.DateOnly)
		}
		row := []any{
			r.CaseID, string(r.Status), r.IncidentType, string(r.Urgency),
			r.CreatedAt.UTC().Format(time.RFC3339), incidentDate,
			r.Location, r.IsAnonymous, r.ContactEmail, r.ContactPhone, r.AssignedAgent, r.Description,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportsSheet, cell, &row); err != nil {
			return nil, err
		}
		byStatus[r.Status]++
	}

	_ = f.SetCellValue(summarySheet, "A1", "Incident Reports Export")
	_ = f.SetCellValue(summarySheet, "A3", "Total")
	_ = f.SetCellValue(summarySheet, "B3", len(reports))
	for i, st := range []domain.ReportStatus{domain.StatusPending, domain.StatusInvestigating, domain.StatusResolved, domain.StatusClosed} {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+4), string(st))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+4), byStatus[st])
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
