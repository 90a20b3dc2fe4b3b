package recon

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/validator"
)

// ExtractRequest drives one extraction run over a single source workbook.
// StartDate and EndDate are ISO date strings; when equal the run covers a
// single day.
type ExtractRequest struct {
	Settings   Settings
	StartDate  string
	EndDate    string
	SourcePath string
}

// Validate checks the request before any workbook is touched.
func (r ExtractRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid YYYY-MM-DD date"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid YYYY-MM-DD date"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if validator.IsEmpty(r.SourcePath) {
		errs = append(errs, validator.ValidationError{Field: "source", Message: "is required"})
	}
	for _, code := range r.Settings.ApprovedCodes() {
		if !validator.IsValidCompanyCode(code) {
			errs = append(errs, validator.ValidationError{
				Field:   "company_codes",
				Message: fmt.Sprintf("invalid company code %q", code),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CompareRequest drives one reconciliation run: the manual source workbook
// against the authoritative HRIS export.
type CompareRequest struct {
	Settings   Settings
	StartDate  string
	EndDate    string
	SourcePath string
	HRISPath   string
}

func (r CompareRequest) Validate() error {
	err := ExtractRequest{
		Settings:   r.Settings,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		SourcePath: r.SourcePath,
	}.Validate()

	var errs validator.ValidationErrors
	if err != nil {
		errs = err.(validator.ValidationErrors)
	}
	if validator.IsEmpty(r.HRISPath) {
		errs = append(errs, validator.ValidationError{Field: "hris", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OutputFile describes one per-company-code workbook written by a run.
type OutputFile struct {
	CompanyCode string `json:"company_code"`
	FileName    string `json:"file_name"`
	Rows        int    `json:"rows"`
}

// Result summarizes a completed extract or compare run.
type Result struct {
	Mode           string       `json:"mode"`
	Outputs        []OutputFile `json:"outputs"`
	IndexedRecords int          `json:"indexed_records"`
	DuplicateCount int          `json:"duplicate_count,omitempty"`
}

// Service is the reconciliation engine consumed by the HTTP layer. One
// call is one complete run: the engine builds a fresh index, produces all
// outputs or fails before writing any.
type Service interface {
	ExtractAttendance(ctx context.Context, req ExtractRequest) (Result, error)
	CompareAttendance(ctx context.Context, req CompareRequest) (Result, error)

	ExtractOvertime(ctx context.Context, req ExtractRequest) (Result, error)
	CompareOvertime(ctx context.Context, req CompareRequest) (Result, error)

	ExtractOvertimeOptdrv(ctx context.Context, req ExtractRequest) (Result, error)
	CompareOvertimeOptdrv(ctx context.Context, req CompareRequest) (Result, error)
}
