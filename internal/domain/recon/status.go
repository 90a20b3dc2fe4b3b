package recon

import "strings"

// StatusMapping is the (status label, nominal time-in, nominal time-out)
// triple a raw attendance or shift code resolves to.
type StatusMapping struct {
	Status  string
	TimeIn  string
	TimeOut string
}

var statusByCode = map[string]StatusMapping{
	"H":   {"Hadir (H)", "07:00", "18:00"},
	"HM":  {"Hadir shift malam (HM)", "19:00", "06:00"},
	"A":   {"Alpa (A)", "", ""},
	"S":   {"Sakit (S)", "", ""},
	"I":   {"Izin (I)", "", ""},
	"HC":  {"Cuti (C)", "", ""},
	"DLK": {"Dinas Luar Kota (DLK)", "", ""},
	"OFF": {"OFF", "", ""},
}

var statusByShift = map[string]StatusMapping{
	"PAGI":  {"Hadir (H)", "07:00", "18:00"},
	"SIANG": {"Hadir (H)", "07:00", "18:00"},
	"MALAM": {"Hadir shift malam (HM)", "19:00", "06:00"},
}

// presentCodes are the codes counted as presence, used by the
// time-off-only extraction mode to filter them out.
var presentCodes = map[string]bool{"H": true, "HM": true}

// MapStatusByCode resolves a raw attendance code. Unknown codes pass
// through verbatim with empty time fields so no data is silently dropped.
func MapStatusByCode(code string) StatusMapping {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if m, ok := statusByCode[normalized]; ok {
		return m
	}
	return StatusMapping{Status: strings.TrimSpace(code)}
}

// MapStatusByShift resolves an overtime shift name the same way.
func MapStatusByShift(shift string) StatusMapping {
	normalized := strings.ToUpper(strings.TrimSpace(shift))
	if m, ok := statusByShift[normalized]; ok {
		return m
	}
	return StatusMapping{Status: strings.TrimSpace(shift)}
}

// IsPresenceCode reports whether an attendance code counts as presence.
func IsPresenceCode(code string) bool {
	return presentCodes[strings.ToUpper(strings.TrimSpace(code))]
}
