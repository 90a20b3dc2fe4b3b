package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-recon-go/internal/domain/recon"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		ValidationError(w, "Validation failed", validationErrs.ToMap())
	case errors.Is(err, recon.ErrInvalidDateRange),
		errors.Is(err, recon.ErrInvalidSettings):
		ValidationError(w, err.Error(), nil)
	case errors.Is(err, recon.ErrFileNotFound):
		NotFound(w, "Workbook file not found")
	case errors.Is(err, recon.ErrNoSheetsMatched):
		BadRequest(w, "None of the configured sheet names exist in the workbook", nil)
	case errors.Is(err, recon.ErrWorkbookNotLoaded):
		BadRequest(w, "Workbook could not be loaded", nil)
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
