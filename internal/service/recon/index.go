package recon

import (
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-recon-go/internal/domain/recon"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/spreadsheet"
)

// lastDataRow probes the row-counter column bottom-up for the last
// populated row. Exported sheets commonly carry trailing rows that are
// formatted but empty; dataStartRow is the floor when nothing is found.
func lastDataRow(ws spreadsheet.Sheet, dataStartRow, rowCounterCol int) int {
	for row := ws.MaxRow(); row >= dataStartRow; row-- {
		if !spreadsheet.Blank(ws.Cell(row, rowCounterCol)) {
			return row
		}
	}
	return dataStartRow
}

// sheetCompanyCode extracts an approved company code from an overtime
// sheet title, e.g. "OVT PM Oktober" -> "PM". Returns "" when no approved
// code appears as a token.
func sheetCompanyCode(title string, settings recon.Settings) string {
	for _, token := range strings.Fields(strings.ToUpper(title)) {
		token = strings.Trim(token, "()[]-_.")
		if token != "" && settings.IsApproved(token) {
			return token
		}
	}
	return ""
}

// buildAttendanceIndex walks one attendance source sheet and inserts one
// record per populated (row, date column) cell inside the resolved
// window. Rows with a blank or ignored employee id, or a company code
// outside the approved set, are skipped whole.
func buildAttendanceIndex(ws spreadsheet.Sheet, settings recon.Settings, startKey, endKey string, idx *recon.Index) {
	last := lastDataRow(ws, settings.DataStartRow, settings.RowCounterCol)
	startCol, endCol := locateWindow(ws, settings.DateHeaderRow, settings.CompanyCodeCol+1, ws.MaxCol(), startKey, endKey)

	for row := settings.DataStartRow; row <= last; row++ {
		employeeID := strings.TrimSpace(ws.Cell(row, settings.EmployeeIDCol))
		if employeeID == "" || settings.IsIgnored(employeeID) {
			continue
		}
		employeeName := strings.TrimSpace(ws.Cell(row, settings.EmployeeNameCol))
		companyCode := strings.TrimSpace(ws.Cell(row, settings.CompanyCodeCol))
		if companyCode == "" || !settings.IsApproved(companyCode) {
			continue
		}

		for col := startCol; col <= endCol; col++ {
			statusCode := strings.TrimSpace(ws.Cell(row, col))
			header := strings.TrimSpace(ws.Cell(settings.DateHeaderRow, col))
			if statusCode == "" || header == "" {
				continue
			}

			mapping := recon.MapStatusByCode(statusCode)
			idx.Insert(recon.Record{
				Date:         dateutil.Normalize(header),
				EmployeeID:   employeeID,
				EmployeeName: employeeName,
				CompanyCode:  companyCode,
				Status:       mapping.Status,
				StatusCode:   statusCode,
				TimeIn:       mapping.TimeIn,
				TimeOut:      mapping.TimeOut,
			})
		}
	}
}

// identityCarry is the fold state for multi-row-per-person overtime
// layouts: id, name and notes are populated on the first row of a record
// and blank on continuation rows, so the last non-blank value is carried
// forward until a new one appears.
type identityCarry struct {
	employeeID   string
	employeeName string
	notes        string
}

func (c *identityCarry) advance(employeeID, employeeName, notes string) {
	if v := strings.TrimSpace(employeeID); v != "" {
		c.employeeID = v
	}
	if v := strings.TrimSpace(employeeName); v != "" {
		c.employeeName = v
	}
	if v := strings.TrimSpace(notes); v != "" {
		c.notes = v
	}
}

// buildOvertimeIndex walks one overtime source sheet, where each data row
// carries its own date, shift and hour cells. Rows outside the requested
// date range are skipped, as are rows whose date fails conservative
// parsing or whose shift/overtime cells are blank. Same-day rows for one
// employee accumulate.
func buildOvertimeIndex(ws spreadsheet.Sheet, settings recon.Settings, startKey, endKey, companyCode string, idx *recon.Index) {
	last := lastDataRow(ws, settings.DataStartRow, settings.RowCounterCol)

	rangeStart, haveStart := dateutil.Parse(startKey, settings.DefaultYear)
	rangeEnd, haveEnd := dateutil.Parse(endKey, settings.DefaultYear)

	carry := identityCarry{}
	for row := settings.DataStartRow; row <= last; row++ {
		carry.advance(
			ws.Cell(row, settings.EmployeeIDCol),
			ws.Cell(row, settings.EmployeeNameCol),
			ws.Cell(row, settings.NotesCol),
		)

		formattedDate := dateutil.Normalize(ws.Cell(row, settings.DateCol))
		parsedDate, ok := dateutil.Parse(formattedDate, settings.DefaultYear)
		if !ok {
			continue
		}
		if haveStart && parsedDate.Before(rangeStart) {
			continue
		}
		if haveEnd && parsedDate.After(rangeEnd) {
			continue
		}

		shift := ws.Cell(row, settings.ShiftCol)
		overtime := ws.Cell(row, settings.OvertimeCol)
		overtimeHours := ws.Cell(row, settings.OvertimeHoursCol)
		if spreadsheet.Blank(shift) || spreadsheet.Blank(overtime) || spreadsheet.Blank(overtimeHours) {
			continue
		}

		if carry.employeeID == "" || settings.IsIgnored(carry.employeeID) {
			continue
		}

		mapping := recon.MapStatusByShift(shift)
		idx.Insert(recon.Record{
			Date:         formattedDate,
			EmployeeID:   carry.employeeID,
			EmployeeName: carry.employeeName,
			CompanyCode:  companyCode,
			Status:       mapping.Status,
			StatusCode:   strings.TrimSpace(shift),
			Overtime:     parseHours(overtime),
			TimeIn:       mapping.TimeIn,
			TimeOut:      mapping.TimeOut,
			Notes:        carry.notes,
		})
	}
}

// Fixed shape of OPTDRV value cells: driver overtime hours under a date
// header window, status always presence with the depot day span.
const (
	optdrvStatus  = "Hadir (H)"
	optdrvTimeIn  = "07:00"
	optdrvTimeOut = "19:00"
)

// buildOptdrvIndex walks one OPTDRV overtime sheet, which mirrors the
// attendance header-window layout but holds hour values instead of status
// codes. skipZero drops zero-hour cells (extraction behavior); comparison
// keeps them so a zero still reconciles against HRIS.
func buildOptdrvIndex(ws spreadsheet.Sheet, settings recon.Settings, startKey, endKey string, skipZero bool, idx *recon.Index) {
	last := lastDataRow(ws, settings.DataStartRow, settings.RowCounterCol)
	startCol, endCol := locateWindow(ws, settings.DateHeaderRow, settings.CompanyCodeCol+1, ws.MaxCol(), startKey, endKey)

	for row := settings.DataStartRow; row <= last; row++ {
		companyCode := strings.TrimSpace(ws.Cell(row, settings.CompanyCodeCol))
		if companyCode == "" || !settings.IsApproved(companyCode) {
			continue
		}
		employeeID := strings.TrimSpace(ws.Cell(row, settings.EmployeeIDCol))
		if employeeID == "" || settings.IsIgnored(employeeID) {
			continue
		}
		employeeName := strings.TrimSpace(ws.Cell(row, settings.EmployeeNameCol))

		for col := startCol; col <= endCol; col++ {
			header := strings.TrimSpace(ws.Cell(settings.DateHeaderRow, col))
			raw := strings.TrimSpace(ws.Cell(row, col))
			if header == "" || raw == "" {
				continue
			}
			hours, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if skipZero && hours == 0 {
				continue
			}

			idx.Insert(recon.Record{
				Date:         dateutil.Normalize(header),
				EmployeeID:   employeeID,
				EmployeeName: employeeName,
				CompanyCode:  companyCode,
				Status:       optdrvStatus,
				StatusCode:   raw,
				Overtime:     hours,
				TimeIn:       optdrvTimeIn,
				TimeOut:      optdrvTimeOut,
			})
		}
	}
}

// parseHours reads a numeric cell; non-numeric text counts as zero hours
// rather than aborting the row.
func parseHours(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}
