package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-recon-go/internal/config"
	"github.com/cmlabs-hris/attendance-recon-go/internal/domain/recon"
	"github.com/cmlabs-hris/attendance-recon-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/storage"
	"github.com/go-chi/chi/v5"
)

type ReconHandler interface {
	Extract(w http.ResponseWriter, r *http.Request)
	Compare(w http.ResponseWriter, r *http.Request)
}

type reconHandlerImpl struct {
	reconService recon.Service
	files        *storage.Workspace
	upload       config.UploadConfig
}

func NewReconHandler(reconService recon.Service, upload config.UploadConfig) ReconHandler {
	return &reconHandlerImpl{
		reconService: reconService,
		files:        storage.NewWorkspace(upload.Dir),
		upload:       upload,
	}
}

// runRequest is the JSON 'data' part accompanying the uploaded workbooks.
type runRequest struct {
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	Settings     map[string]string `json:"settings"`
	CompanyCodes map[string]bool   `json:"company_codes"`
}

// Extract implements ReconHandler.
func (h *reconHandlerImpl) Extract(w http.ResponseWriter, r *http.Request) {
	req, workDir, ok := h.parseRun(w, r)
	if !ok {
		return
	}
	defer h.files.Cleanup(workDir)

	sourcePath, ok := h.saveUpload(w, r, "source", workDir)
	if !ok {
		return
	}

	extractReq := recon.ExtractRequest{
		Settings:   recon.ParseSettings(req.Settings, req.CompanyCodes),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		SourcePath: sourcePath,
	}

	result, err := h.runExtract(r.Context(), chi.URLParam(r, "mode"), extractReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondWithOutputs(w, workDir, result)
}

// Compare implements ReconHandler.
func (h *reconHandlerImpl) Compare(w http.ResponseWriter, r *http.Request) {
	req, workDir, ok := h.parseRun(w, r)
	if !ok {
		return
	}
	defer h.files.Cleanup(workDir)

	sourcePath, ok := h.saveUpload(w, r, "source", workDir)
	if !ok {
		return
	}
	hrisPath, ok := h.saveUpload(w, r, "hris", workDir)
	if !ok {
		return
	}

	compareReq := recon.CompareRequest{
		Settings:   recon.ParseSettings(req.Settings, req.CompanyCodes),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		SourcePath: sourcePath,
		HRISPath:   hrisPath,
	}

	result, err := h.runCompare(r.Context(), chi.URLParam(r, "mode"), compareReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.respondWithOutputs(w, workDir, result)
}

func (h *reconHandlerImpl) runExtract(ctx context.Context, mode string, req recon.ExtractRequest) (recon.Result, error) {
	switch mode {
	case "attendance":
		return h.reconService.ExtractAttendance(ctx, req)
	case "overtime":
		return h.reconService.ExtractOvertime(ctx, req)
	case "overtime-optdrv":
		return h.reconService.ExtractOvertimeOptdrv(ctx, req)
	default:
		return recon.Result{}, fmt.Errorf("%w: unknown mode %q", recon.ErrInvalidSettings, mode)
	}
}

func (h *reconHandlerImpl) runCompare(ctx context.Context, mode string, req recon.CompareRequest) (recon.Result, error) {
	switch mode {
	case "attendance":
		return h.reconService.CompareAttendance(ctx, req)
	case "overtime":
		return h.reconService.CompareOvertime(ctx, req)
	case "overtime-optdrv":
		return h.reconService.CompareOvertimeOptdrv(ctx, req)
	default:
		return recon.Result{}, fmt.Errorf("%w: unknown mode %q", recon.ErrInvalidSettings, mode)
	}
}

// parseRun parses the multipart form and the JSON 'data' part, and
// creates the per-request working directory. The caller owns cleanup.
func (h *reconHandlerImpl) parseRun(w http.ResponseWriter, r *http.Request) (runRequest, string, bool) {
	maxBytes := int64(h.upload.MaxSizeMB) << 20
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return runRequest{}, "", false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return runRequest{}, "", false
	}

	var req runRequest
	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return runRequest{}, "", false
	}

	workDir, err := h.files.NewRunDir()
	if err != nil {
		slog.Error("Failed to create working directory", "error", err)
		response.InternalServerError(w, "Failed to prepare working directory")
		return runRequest{}, "", false
	}

	return req, workDir, true
}

// saveUpload copies one uploaded workbook into the working directory and
// returns its path.
func (h *reconHandlerImpl) saveUpload(w http.ResponseWriter, r *http.Request, field, workDir string) (string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, fmt.Sprintf("File %q is required", field), nil)
			return "", false
		}
		slog.Error("Failed to get file from form", "field", field, "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return "", false
	}
	defer file.Close()

	path, err := h.files.Save(workDir, header.Filename, file)
	if err != nil {
		slog.Error("Failed to store uploaded file", "field", field, "error", err)
		response.InternalServerError(w, "Failed to store uploaded file")
		return "", false
	}
	return path, true
}

// respondWithOutputs inlines each written workbook into the JSON payload
// as base64 so the working directory can be deleted once the response is
// sent.
func (h *reconHandlerImpl) respondWithOutputs(w http.ResponseWriter, workDir string, result recon.Result) {
	type outputPayload struct {
		recon.OutputFile
		Content []byte `json:"content"`
	}

	outputs := make([]outputPayload, 0, len(result.Outputs))
	for _, out := range result.Outputs {
		content, err := h.files.ReadFile(workDir, out.FileName)
		if err != nil {
			slog.Error("Failed to read output workbook", "file", out.FileName, "error", err)
			response.InternalServerError(w, "Failed to read output workbook")
			return
		}
		outputs = append(outputs, outputPayload{OutputFile: out, Content: content})
	}

	response.Success(w, map[string]any{
		"result":  result,
		"outputs": outputs,
	})
}
