package recon

import (
	"strings"

	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/spreadsheet"
)

// headerDate is one (column, canonical date) pair collected from a date
// header row.
type headerDate struct {
	col  int
	date string
}

// collectHeaderDates normalizes every populated header cell between
// scanStart and scanEnd into a canonical date key. Cells that fail to
// normalize keep their raw text and simply never match a requested
// boundary, so malformed headers exclude their column without erroring.
func collectHeaderDates(ws spreadsheet.Sheet, headerRow, scanStart, scanEnd int) []headerDate {
	var dates []headerDate
	for col := scanStart; col <= scanEnd; col++ {
		raw := strings.TrimSpace(ws.Cell(headerRow, col))
		if raw == "" {
			continue
		}
		dates = append(dates, headerDate{col: col, date: dateutil.Normalize(raw)})
	}
	return dates
}

// locateWindow resolves the requested [startKey, endKey] date range to
// inclusive column bounds on a header row. The first column matching
// startKey wins; the last column matching endKey wins, which tolerates
// unordered or duplicate header dates. Missing boundaries fall back to
// scanStart and scanEnd respectively.
func locateWindow(ws spreadsheet.Sheet, headerRow, scanStart, scanEnd int, startKey, endKey string) (int, int) {
	startCol, endCol := 0, 0
	for _, hd := range collectHeaderDates(ws, headerRow, scanStart, scanEnd) {
		if hd.date == startKey && startCol == 0 {
			startCol = hd.col
		}
		if hd.date == endKey {
			endCol = hd.col
		}
	}

	if startCol == 0 {
		startCol = scanStart
	}
	if endCol == 0 {
		endCol = scanEnd
	}
	return startCol, endCol
}
