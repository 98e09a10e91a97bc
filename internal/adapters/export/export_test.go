package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

func sampleReport() domain.IncidentReport {
	d := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	return domain.IncidentReport{
		CaseID:       "CASE-2026-292-0417",
		IncidentType: "Phishing/Email Scams",
		Urgency:      domain.UrgencyHigh,
		Description:  "Received an email asking me to verify my bank account.",
		IncidentDate: &d,
		ContactEmail: "jane@example.com",
		Status:       domain.StatusPending,
		CreatedAt:    time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestReceipt(t *testing.T) {
	r := sampleReport()
	data, err := New().Receipt(&r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestSpreadsheet(t *testing.T) {
	r1 := sampleReport()
	r2 := sampleReport()
	r2.CaseID = "CASE-2026-292-0001"
	r2.Status = domain.StatusResolved

	data, err := New().Spreadsheet([]domain.IncidentReport{r1, r2})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("reports", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Case ID", v)
	v, _ = f.GetCellValue("reports", "A3")
	assert.Equal(t, "CASE-2026-292-0001", v)
	v, _ = f.GetCellValue("summary", "B3")
	assert.Equal(t, "2", v)
	v, _ = f.GetCellValue("summary", "B6")
	assert.Equal(t, "1", v)
}
