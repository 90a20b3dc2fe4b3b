package recon

import "fmt"

// RecordKind selects the duplicate-key policy for an index: attendance
// sources keep the first record per key and divert later ones, overtime
// sources accumulate hours across same-day shift rows.
type RecordKind int

const (
	KindAttendance RecordKind = iota
	KindOvertime
	KindOvertimeOptdrv
)

func (k RecordKind) String() string {
	switch k {
	case KindAttendance:
		return "attendance"
	case KindOvertime:
		return "overtime"
	case KindOvertimeOptdrv:
		return "overtime_optdrv"
	default:
		return "unknown"
	}
}

// Record is one normalized per-employee/per-date observation taken from a
// source sheet. It is created during indexing and never mutated afterwards,
// except for overtime accumulation on duplicate keys.
type Record struct {
	Date         string
	EmployeeID   string
	EmployeeName string
	CompanyCode  string
	Status       string
	StatusCode   string
	Overtime     float64
	TimeIn       string
	TimeOut      string
	Notes        string
}

// Key is the composite identity used to correlate manual and HRIS records.
func (r Record) Key() string {
	return fmt.Sprintf("%s_%s", r.Date, r.EmployeeID)
}

// ExtractRow renders the record in the extract output schema.
func (r Record) ExtractRow() []any {
	return []any{
		r.Date,
		r.EmployeeID,
		r.EmployeeName,
		r.Status,
		r.Overtime,
		r.TimeIn,
		r.TimeOut,
		r.Notes,
	}
}

// ComparisonRow pairs a manual record with the matching HRIS value. Match
// carries the boolean equality for status comparisons, Delta the manual
// minus HRIS value for overtime-hours comparisons.
type ComparisonRow struct {
	Manual any
	HRIS   any
	Match  bool
	Delta  float64
	Kind   RecordKind
	Record Record
}

// Difference reports the comparison outcome appropriate for the record
// kind: equality for attendance, numeric delta for overtime.
func (c ComparisonRow) Difference() any {
	if c.Kind == KindAttendance {
		return c.Match
	}
	return c.Delta
}

// Row renders the comparison in the compare output schema.
func (c ComparisonRow) Row() []any {
	return append([]any{c.Manual, c.HRIS, c.Difference()}, c.Record.ExtractRow()...)
}

// Index is the shared per-run mapping from composite key to record. It
// preserves insertion order so repeated runs over unchanged input produce
// identical output ordering.
type Index struct {
	kind       RecordKind
	records    map[string]*Record
	order      []string
	duplicates []Record
}

func NewIndex(kind RecordKind) *Index {
	return &Index{
		kind:    kind,
		records: make(map[string]*Record),
	}
}

func (ix *Index) Kind() RecordKind { return ix.kind }

// Insert applies the duplicate policy for the index kind: attendance keeps
// the first record and diverts the newcomer, overtime kinds add the
// newcomer's hours onto the existing record.
func (ix *Index) Insert(rec Record) {
	key := rec.Key()
	existing, ok := ix.records[key]
	if !ok {
		stored := rec
		ix.records[key] = &stored
		ix.order = append(ix.order, key)
		return
	}

	switch ix.kind {
	case KindAttendance:
		ix.duplicates = append(ix.duplicates, rec)
	default:
		existing.Overtime += rec.Overtime
	}
}

// Lookup returns the record for a composite key, if any.
func (ix *Index) Lookup(key string) (Record, bool) {
	rec, ok := ix.records[key]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Records returns indexed records in insertion order.
func (ix *Index) Records() []Record {
	out := make([]Record, 0, len(ix.order))
	for _, key := range ix.order {
		out = append(out, *ix.records[key])
	}
	return out
}

// Duplicates returns the attendance records diverted by the first-wins
// policy, in the order they were seen.
func (ix *Index) Duplicates() []Record { return ix.duplicates }

func (ix *Index) Len() int { return len(ix.order) }
