package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-recon-go/internal/config"
	reconservice "github.com/cmlabs-hris/attendance-recon-go/internal/service/recon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	svc := reconservice.NewReconService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := NewReconHandler(svc, config.UploadConfig{
		Dir:       t.TempDir(),
		MaxSizeMB: 8,
	})
	return NewRouter(handler)
}

func attendanceWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Rekap"))
	rows := [][]any{
		{"Rekap Absensi"},
		{},
		{},
		{"No", "Employee ID", "Nama", "Jabatan", "Kode", "2025-10-01", "2025-10-02"},
		{"1", "E001", "Alice", "Driver", "PM", "H", "A"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Rekap", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func multipartBody(t *testing.T, data string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if data != "" {
		require.NoError(t, mw.WriteField("data", data))
	}
	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".xlsx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestReconHandler_Extract_Success(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	data := `{
		"start_date": "2025-10-01",
		"end_date": "2025-10-02",
		"settings": {"sheet_names": "Rekap"},
		"company_codes": {"PM": true}
	}`
	body, contentType := multipartBody(t, data, map[string][]byte{
		"source": attendanceWorkbook(t),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recon/attendance/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Result struct {
				Mode           string `json:"mode"`
				IndexedRecords int    `json:"indexed_records"`
			} `json:"result"`
			Outputs []struct {
				CompanyCode string `json:"company_code"`
				FileName    string `json:"file_name"`
				Rows        int    `json:"rows"`
				Content     []byte `json:"content"`
			} `json:"outputs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	assert.True(t, payload.Success)
	assert.Equal(t, "attendance_extract", payload.Data.Result.Mode)
	assert.Equal(t, 2, payload.Data.Result.IndexedRecords)
	require.Len(t, payload.Data.Outputs, 1)
	assert.Equal(t, "PM", payload.Data.Outputs[0].CompanyCode)
	assert.Equal(t, 2, payload.Data.Outputs[0].Rows)
	assert.NotEmpty(t, payload.Data.Outputs[0].Content)
}

func TestReconHandler_Extract_ValidationErrors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	data := `{
		"start_date": "01/10/2025",
		"end_date": "2025-10-02",
		"settings": {},
		"company_codes": {"PM": true}
	}`
	body, contentType := multipartBody(t, data, map[string][]byte{
		"source": attendanceWorkbook(t),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recon/attendance/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var payload struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.False(t, payload.Success)
	assert.Equal(t, "VALIDATION_ERROR", payload.Error.Code)
	assert.Contains(t, payload.Error.Details, "start_date")
}

func TestReconHandler_Extract_MissingDataField(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	body, contentType := multipartBody(t, "", map[string][]byte{
		"source": attendanceWorkbook(t),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recon/attendance/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconHandler_Extract_MissingSourceFile(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	data := `{"start_date": "2025-10-01", "end_date": "2025-10-01"}`
	body, contentType := multipartBody(t, data, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recon/attendance/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconHandler_Extract_UnknownMode(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	data := `{
		"start_date": "2025-10-01",
		"end_date": "2025-10-02",
		"company_codes": {"PM": true}
	}`
	body, contentType := multipartBody(t, data, map[string][]byte{
		"source": attendanceWorkbook(t),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recon/payroll/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReconHandler_Compare_RequiresHRISFile(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	data := `{
		"start_date": "2025-10-01",
		"end_date": "2025-10-02",
		"settings": {"sheet_names": "Rekap"},
		"company_codes": {"PM": true}
	}`
	body, contentType := multipartBody(t, data, map[string][]byte{
		"source": attendanceWorkbook(t),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recon/attendance/compare", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
