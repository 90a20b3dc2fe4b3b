package recon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cmlabs-hris/attendance-recon-go/internal/domain/recon"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/spreadsheet"
)

var extractHeaders = []string{
	"Tanggal", "Employee ID", "Nama Karyawan", "Status",
	"Overtime", "Time In", "Time Out", "Keterangan",
}

var compareHeaders = []string{
	"Manual", "HRIS", "Difference",
	"Tanggal", "Employee ID", "Nama Karyawan", "Status",
	"Overtime", "Time In", "Time Out", "Keterangan",
}

// routeByCompany groups emitted rows per company code. Approved codes
// with zero rows keep an (empty) group so downstream persistence always
// produces one file per approved code. Rows for codes outside the
// approved set are dropped.
func routeByCompany[T any](items []T, companyCode func(T) string, approved []string) map[string][]T {
	groups := make(map[string][]T, len(approved))
	for _, code := range approved {
		groups[code] = []T{}
	}
	for _, item := range items {
		code := companyCode(item)
		if _, ok := groups[code]; !ok {
			continue
		}
		groups[code] = append(groups[code], item)
	}
	return groups
}

func renderExtractGroups(groups map[string][]recon.Record) map[string][][]any {
	out := make(map[string][][]any, len(groups))
	for code, records := range groups {
		rows := make([][]any, 0, len(records))
		for _, rec := range records {
			rows = append(rows, rec.ExtractRow())
		}
		out[code] = rows
	}
	return out
}

func renderCompareGroups(groups map[string][]recon.ComparisonRow) map[string][][]any {
	out := make(map[string][][]any, len(groups))
	for code, comparisons := range groups {
		rows := make([][]any, 0, len(comparisons))
		for _, c := range comparisons {
			rows = append(rows, c.Row())
		}
		out[code] = rows
	}
	return out
}

// outputFileName follows the export naming convention: single-day runs
// omit the range suffix.
func outputFileName(startDate, endDate, companyCode, typeLabel string) string {
	if startDate == endDate {
		return fmt.Sprintf("%s %s %s.xlsx", startDate, companyCode, typeLabel)
	}
	return fmt.Sprintf("%s to %s %s %s.xlsx", startDate, endDate, companyCode, typeLabel)
}

// saveTables writes one workbook per company code next to the source
// file and reports what was written. Files are staged under temporary
// names and renamed only once every code saved, so a failed run leaves
// no partial outputs behind.
func saveTables(dir string, groups map[string][][]any, headers []string, startDate, endDate, typeLabel string) ([]recon.OutputFile, error) {
	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	staged := make([]string, 0, len(codes))
	discard := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	outputs := make([]recon.OutputFile, 0, len(codes))
	for _, code := range codes {
		name := outputFileName(startDate, endDate, code, typeLabel)
		tmp := filepath.Join(dir, stagingName(name))
		if err := spreadsheet.SaveTable(tmp, code, headers, groups[code]); err != nil {
			discard()
			return nil, fmt.Errorf("save output for company code %s: %w", code, err)
		}
		staged = append(staged, tmp)
		outputs = append(outputs, recon.OutputFile{
			CompanyCode: code,
			FileName:    name,
			Rows:        len(groups[code]),
		})
	}

	for i, out := range outputs {
		if err := os.Rename(staged[i], filepath.Join(dir, out.FileName)); err != nil {
			for _, done := range outputs[:i] {
				os.Remove(filepath.Join(dir, done.FileName))
			}
			discard()
			return nil, fmt.Errorf("publish output for company code %s: %w", out.CompanyCode, err)
		}
	}
	return outputs, nil
}

func stagingName(name string) string {
	return "." + name + ".tmp"
}
