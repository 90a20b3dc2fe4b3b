package recon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/attendance-recon-go/internal/domain/recon"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteByCompany(t *testing.T) {
	t.Parallel()

	records := []recon.Record{
		{EmployeeID: "E001", CompanyCode: "PM"},
		{EmployeeID: "E002", CompanyCode: "TMP"},
		{EmployeeID: "E003", CompanyCode: "PM"},
		{EmployeeID: "E004", CompanyCode: "XX"},
	}

	groups := routeByCompany(records, recordCompany, []string{"PM", "TMP", "PTM"})

	require.Len(t, groups, 3)
	assert.Len(t, groups["PM"], 2)
	assert.Len(t, groups["TMP"], 1)

	// Approved codes with no rows still get an empty group, so every
	// approved code produces an output file.
	assert.NotNil(t, groups["PTM"])
	assert.Empty(t, groups["PTM"])

	// Rows for unapproved codes are dropped.
	_, ok := groups["XX"]
	assert.False(t, ok)
}

func TestOutputFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"2025-10-01 PM Attendance.xlsx",
		outputFileName("2025-10-01", "2025-10-01", "PM", "Attendance"))
	assert.Equal(t,
		"2025-10-01 to 2025-10-31 TMP Overtime Comparison.xlsx",
		outputFileName("2025-10-01", "2025-10-31", "TMP", "Overtime Comparison"))
}

func TestSaveTables(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	groups := map[string][][]any{
		"TMP": {},
		"PM": {
			{"2025-10-01", "E001", "Alice", "Hadir (H)", 0.0, "07:00", "18:00", ""},
		},
	}

	outputs, err := saveTables(dir, groups, extractHeaders, "2025-10-01", "2025-10-01", "Attendance")
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	// Sorted by company code.
	assert.Equal(t, "PM", outputs[0].CompanyCode)
	assert.Equal(t, "2025-10-01 PM Attendance.xlsx", outputs[0].FileName)
	assert.Equal(t, 1, outputs[0].Rows)
	assert.Equal(t, "TMP", outputs[1].CompanyCode)
	assert.Equal(t, 0, outputs[1].Rows)

	wb, err := spreadsheet.Load(filepath.Join(dir, outputs[0].FileName))
	require.NoError(t, err)
	defer wb.Close()

	ws, err := wb.Sheet("PM")
	require.NoError(t, err)
	require.NotNil(t, ws)
	assert.Equal(t, "Tanggal", ws.Cell(1, 1))
	assert.Equal(t, "E001", ws.Cell(2, 2))

	// No staging files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSaveTables_NoPartialOutputsOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	groups := map[string][][]any{
		"PM":  {},
		"TMP": {},
	}

	// Block the second code's staging path with a directory so its save
	// fails after the first code has already been written.
	blocked := outputFileName("2025-10-01", "2025-10-01", "TMP", "Attendance")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, stagingName(blocked)), 0o755))

	_, err := saveTables(dir, groups, extractHeaders, "2025-10-01", "2025-10-01", "Attendance")
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "2025-10-01 PM Attendance.xlsx"))
	assert.True(t, os.IsNotExist(err), "failed run must not publish any output")
	_, err = os.Stat(filepath.Join(dir, stagingName("2025-10-01 PM Attendance.xlsx")))
	assert.True(t, os.IsNotExist(err), "failed run must clean up staged files")
}

func TestRenderCompareGroups(t *testing.T) {
	t.Parallel()

	groups := map[string][]recon.ComparisonRow{
		"PM": {
			{
				Manual: 2.0, HRIS: 1.0, Delta: 1.0, Kind: recon.KindOvertime,
				Record: recon.Record{Date: "2025-10-01", EmployeeID: "E001", CompanyCode: "PM"},
			},
		},
	}

	rendered := renderCompareGroups(groups)
	require.Len(t, rendered["PM"], 1)
	row := rendered["PM"][0]
	require.Len(t, row, len(compareHeaders))
	assert.Equal(t, 2.0, row[0])
	assert.Equal(t, 1.0, row[1])
	assert.Equal(t, 1.0, row[2])
	assert.Equal(t, "2025-10-01", row[3])
}
