// Package spreadsheet gives the reconciliation engine a values-only
// (row, column) view of workbook sheets and handles xlsx reading and
// writing through excelize.
package spreadsheet

import "strings"

// Sheet is a read-only, 1-based cell grid. Reads outside the populated
// area return the empty string; no formulas are evaluated.
type Sheet interface {
	Name() string
	Cell(row, col int) string
	MaxRow() int
	MaxCol() int
}

// Grid is an in-memory Sheet, used by tests and anywhere sheet data is
// already materialized.
type Grid struct {
	name  string
	cells [][]string
}

func NewGrid(name string, cells [][]string) *Grid {
	return &Grid{name: name, cells: cells}
}

func (g *Grid) Name() string { return g.name }

func (g *Grid) Cell(row, col int) string {
	if row < 1 || row > len(g.cells) {
		return ""
	}
	r := g.cells[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

func (g *Grid) MaxRow() int { return len(g.cells) }

func (g *Grid) MaxCol() int {
	max := 0
	for _, r := range g.cells {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// Blank reports whether a cell value is empty after trimming.
func Blank(value string) bool {
	return strings.TrimSpace(value) == ""
}
