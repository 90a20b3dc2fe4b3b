package recon

import (
	"strings"

	"github.com/cmlabs-hris/attendance-recon-go/internal/domain/recon"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/spreadsheet"
)

// hrisLayout pins the fixed geometry of an HRIS export sheet. HRIS
// layouts differ from the manual source: the header is always row 1 and
// the identity columns are fixed per export type.
type hrisLayout struct {
	headerRow    int
	dataStartRow int
	idCol        int
	dateScanCol  int
}

var (
	attendanceHRIS = hrisLayout{headerRow: 1, dataStartRow: 2, idCol: 1, dateScanCol: 5}
	overtimeHRIS   = hrisLayout{headerRow: 1, dataStartRow: 2, idCol: 3, dateScanCol: 8}
)

// reconcileAttendance probes the manual-side index with every populated
// HRIS status cell and emits one comparison row per match. Keys with no
// manual counterpart produce nothing; manual records never seen in HRIS
// produce nothing either.
func reconcileAttendance(ws spreadsheet.Sheet, idx *recon.Index, startKey, endKey string) []recon.ComparisonRow {
	layout := attendanceHRIS
	startCol, endCol := locateWindow(ws, layout.headerRow, layout.dateScanCol, ws.MaxCol(), startKey, endKey)

	var rows []recon.ComparisonRow
	for row := layout.dataStartRow; row <= ws.MaxRow(); row++ {
		employeeID := strings.TrimSpace(ws.Cell(row, layout.idCol))
		if employeeID == "" {
			continue
		}

		for col := startCol; col <= endCol; col++ {
			hrisStatus := strings.TrimSpace(ws.Cell(row, col))
			header := strings.TrimSpace(ws.Cell(layout.headerRow, col))
			if hrisStatus == "" || header == "" {
				continue
			}

			key := dateutil.Normalize(header) + "_" + employeeID
			record, ok := idx.Lookup(key)
			if !ok {
				continue
			}

			rows = append(rows, recon.ComparisonRow{
				Manual: record.Status,
				HRIS:   hrisStatus,
				Match:  record.Status == hrisStatus,
				Kind:   recon.KindAttendance,
				Record: record,
			})
		}
	}
	return rows
}

// reconcileOvertime does the same for overtime-hours exports. A blank
// HRIS cell counts as zero hours so a manual-side entry with no uploaded
// hours still surfaces as a delta. The difference is numeric: manual
// minus HRIS.
func reconcileOvertime(ws spreadsheet.Sheet, idx *recon.Index, startKey, endKey string, kind recon.RecordKind) []recon.ComparisonRow {
	layout := overtimeHRIS
	startCol, endCol := locateWindow(ws, layout.headerRow, layout.dateScanCol, ws.MaxCol(), startKey, endKey)

	var rows []recon.ComparisonRow
	for row := layout.dataStartRow; row <= ws.MaxRow(); row++ {
		employeeID := strings.TrimSpace(ws.Cell(row, layout.idCol))
		if employeeID == "" {
			continue
		}

		for col := startCol; col <= endCol; col++ {
			header := strings.TrimSpace(ws.Cell(layout.headerRow, col))
			if header == "" {
				continue
			}
			hrisHours := parseHours(ws.Cell(row, col))

			key := dateutil.Normalize(header) + "_" + employeeID
			record, ok := idx.Lookup(key)
			if !ok {
				continue
			}

			rows = append(rows, recon.ComparisonRow{
				Manual: record.Overtime,
				HRIS:   hrisHours,
				Delta:  record.Overtime - hrisHours,
				Kind:   kind,
				Record: record,
			})
		}
	}
	return rows
}
