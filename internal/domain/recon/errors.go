package recon

import "errors"

// Reconciliation domain errors
var (
	ErrInvalidSettings   = errors.New("settings are missing or invalid")
	ErrInvalidDateRange  = errors.New("date range must be two valid dates with start before end")
	ErrFileNotFound      = errors.New("workbook file not found")
	ErrWorkbookNotLoaded = errors.New("workbook could not be loaded")
	ErrNoSheetsMatched   = errors.New("none of the configured sheet names exist in the workbook")
)
