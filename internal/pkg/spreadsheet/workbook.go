package spreadsheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"
)

// ErrNotFound is returned by Load when the workbook path does not exist.
var ErrNotFound = errors.New("workbook not found")

// Workbook wraps an open xlsx file. Cell values are cached per sheet on
// first access so repeated (row, col) reads stay cheap.
type Workbook struct {
	file  *excelize.File
	cache map[string][][]string
}

// Load opens an xlsx file for values-only reading.
func Load(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat workbook %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{file: f, cache: make(map[string][][]string)}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns the workbook's sheet names in file order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet returns the named sheet, or a nil Sheet if it does not exist.
// Cells are read raw so native date and time cells surface as their
// serial numbers instead of number-format renderings.
func (w *Workbook) Sheet(name string) (Sheet, error) {
	found := false
	for _, existing := range w.SheetNames() {
		if existing == name {
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	rows, ok := w.cache[name]
	if !ok {
		var err error
		rows, err = w.file.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		w.cache[name] = rows
	}
	return NewGrid(name, rows), nil
}

// SourceSheets resolves configured sheet names to sheets, silently
// skipping names the workbook does not contain. An empty name list means
// the first sheet.
func (w *Workbook) SourceSheets(names []string) ([]Sheet, error) {
	if len(names) == 0 {
		all := w.SheetNames()
		if len(all) == 0 {
			return nil, nil
		}
		names = all[:1]
	}

	var sheets []Sheet
	for _, name := range names {
		s, err := w.Sheet(name)
		if err != nil {
			return nil, err
		}
		if s != nil {
			sheets = append(sheets, s)
		}
	}
	return sheets, nil
}

// AllSheets returns every sheet in the workbook, in file order. HRIS
// exports are scanned whole.
func (w *Workbook) AllSheets() ([]Sheet, error) {
	return w.SourceSheets(w.SheetNames())
}
