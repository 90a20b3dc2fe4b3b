package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SaveTable writes a single-sheet workbook with a header row followed by
// data rows. On a failed save it retries once with every cell rendered as
// plain text, degrading the output rather than losing it.
func SaveTable(path, sheetName string, headers []string, rows [][]any) error {
	if err := writeTable(path, sheetName, headers, rows, false); err == nil {
		return nil
	}
	if err := writeTable(path, sheetName, headers, rows, true); err != nil {
		return fmt.Errorf("save table %s: %w", path, err)
	}
	return nil
}

func writeTable(path, sheetName string, headers []string, rows [][]any, valuesOnly bool) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if sheetName != "" && sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	} else {
		sheetName = defaultSheet
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := setRow(f, sheetName, 1, header); err != nil {
		return err
	}

	for i, row := range rows {
		out := row
		if valuesOnly {
			out = make([]any, len(row))
			for j, cell := range row {
				out[j] = fmt.Sprint(cell)
			}
		}
		if err := setRow(f, sheetName, i+2, out); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d coordinates: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
