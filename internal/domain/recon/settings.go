package recon

import (
	"sort"
	"strconv"
	"strings"
)

// Settings is the typed per-run configuration resolved from the flat
// key/value map supplied by the caller. All coordinates are 1-based.
type Settings struct {
	EmployeeIDCol   int
	EmployeeNameCol int
	CompanyCodeCol  int
	DataStartRow    int
	DateHeaderRow   int
	RowCounterCol   int

	// Overtime per-row layout (dates live in a column, not a header window).
	DateCol          int
	ShiftCol         int
	OvertimeCol      int
	OvertimeHoursCol int
	NotesCol         int

	SheetNames   []string
	IgnoreList   []string
	CompanyCodes map[string]bool

	TimeOffOnly bool
	DefaultYear int
}

// ParseSettings resolves a flat settings map plus the company-code
// approval map into a Settings value, substituting documented defaults for
// absent or unparsable entries.
func ParseSettings(values map[string]string, companyCodes map[string]bool) Settings {
	s := Settings{
		EmployeeIDCol:   toInt(values["employee_id_column"], 2),
		EmployeeNameCol: toInt(values["employee_name_column"], 3),
		CompanyCodeCol:  toInt(values["company_code_column"], 5),
		DataStartRow:    toInt(values["data_start_row"], 5),
		DateHeaderRow:   toInt(values["date_header_row"], 4),
		RowCounterCol:   toInt(values["row_counter_column"], 1),

		DateCol:          toInt(values["date_column"], 3),
		ShiftCol:         toInt(values["shift_column"], 4),
		OvertimeCol:      toInt(values["overtime_column"], 5),
		OvertimeHoursCol: toInt(values["overtime_hours_column"], 6),
		NotesCol:         toInt(values["notes_column"], 7),

		SheetNames:   parseCommaList(values["sheet_names"]),
		IgnoreList:   parseCommaList(values["ignore_list"]),
		CompanyCodes: companyCodes,

		TimeOffOnly: toBool(values["time_off_only"]),
		DefaultYear: toInt(values["default_year"], 0),
	}
	if s.CompanyCodes == nil {
		s.CompanyCodes = map[string]bool{}
	}
	return s
}

// ApprovedCodes returns the company codes checked for output, sorted for
// deterministic routing and file naming.
func (s Settings) ApprovedCodes() []string {
	codes := make([]string, 0, len(s.CompanyCodes))
	for code, checked := range s.CompanyCodes {
		if checked {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// IsApproved reports whether a company code is in the approved output set.
func (s Settings) IsApproved(code string) bool {
	return s.CompanyCodes[code]
}

// IsIgnored reports whether an employee id is on the ignore list.
func (s Settings) IsIgnored(employeeID string) bool {
	for _, ignored := range s.IgnoreList {
		if ignored == employeeID {
			return true
		}
	}
	return false
}

func toInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func toBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

func parseCommaList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
