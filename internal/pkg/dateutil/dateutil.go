// Package dateutil normalizes the mixed date representations found in HR
// spreadsheet exports: native date cells, pasted text in several regional
// formats, Excel serial numbers, and day/month headers without a year.
package dateutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

// Excel serial dates count days from 1899-12-30 (the 1900 date system,
// including the phantom leap day offset).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// fullDateLayouts are tried in order against literal cell text.
var fullDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"02-Jan-2006",
	"02-January-2006",
	"02 Jan 2006",
	"02 January 2006",
}

var dayMonthRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)

// Normalize converts a cell value to a YYYY-MM-DD string. It is maximally
// permissive: values that cannot be recognized as dates are returned
// unchanged so callers never lose the raw text.
func Normalize(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return s
	}

	for _, layout := range fullDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoLayout)
		}
	}

	// Native date cells arrive as serial numbers when the workbook is
	// read raw.
	if t, ok := serialDate(s); ok {
		return t.Format(isoLayout)
	}

	// Day/month header without a year, e.g. "08/10" -> current year.
	if dayMonthRe.MatchString(s) {
		if t, ok := parseDayMonth(s, time.Now().Year()); ok {
			return t.Format(isoLayout)
		}
	}

	return s
}

// Parse converts a cell value to a calendar date for range comparisons.
// Unlike Normalize it fails closed: only native serial numbers, strict
// YYYY-MM-DD strings and day/month values are accepted, anything else
// reports ok=false so the caller can skip the row instead of misfiling it
// into the wrong period. defaultYear is used for day/month values without
// a year; zero means the current year.
func Parse(value string, defaultYear int) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := serialDate(s); ok {
		return t, true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		// Numeric but below the serial floor, not a usable date.
		return time.Time{}, false
	}

	if t, err := time.Parse(isoLayout, s); err == nil {
		return t, true
	}

	if dayMonthRe.MatchString(s) {
		year := defaultYear
		if year == 0 {
			year = time.Now().Year()
		}
		return parseDayMonth(s, year)
	}

	return time.Time{}, false
}

// serialDate converts an Excel serial day count. Serials below 61 are
// rejected: that range sits in the 1900 leap-year bug zone and collides
// with plain day numbers sometimes found in header rows.
func serialDate(s string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 61 {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(serial)), true
}

func parseDayMonth(s string, year int) (time.Time, bool) {
	parts := strings.SplitN(s, "/", 2)
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30); reject anything that moved.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}
