package recon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cmlabs-hris/attendance-recon-go/internal/domain/recon"
	"github.com/cmlabs-hris/attendance-recon-go/internal/pkg/spreadsheet"
)

// ReconServiceImpl runs extract and compare operations. It is stateless:
// every call loads its workbooks, builds a fresh index, writes all
// outputs, then discards everything.
type ReconServiceImpl struct {
	logger *slog.Logger
}

func NewReconService(logger *slog.Logger) recon.Service {
	return &ReconServiceImpl{logger: logger}
}

// ExtractAttendance produces per-company-code attendance tables from one
// manual source workbook.
func (s *ReconServiceImpl) ExtractAttendance(ctx context.Context, req recon.ExtractRequest) (recon.Result, error) {
	if err := req.Validate(); err != nil {
		return recon.Result{}, err
	}

	wb, err := s.openWorkbook(req.SourcePath)
	if err != nil {
		return recon.Result{}, err
	}
	defer wb.Close()

	sheets, err := s.sourceSheets(wb, req.Settings.SheetNames)
	if err != nil {
		return recon.Result{}, err
	}

	idx := recon.NewIndex(recon.KindAttendance)
	for _, ws := range sheets {
		s.logger.Info("processing source sheet", "mode", "attendance", "sheet", ws.Name())
		buildAttendanceIndex(ws, req.Settings, req.StartDate, req.EndDate, idx)
	}

	records := idx.Records()
	if req.Settings.TimeOffOnly {
		records = filterTimeOff(records)
	}

	groups := routeByCompany(records, recordCompany, req.Settings.ApprovedCodes())
	outputs, err := saveTables(
		filepath.Dir(req.SourcePath),
		renderExtractGroups(groups),
		extractHeaders,
		req.StartDate, req.EndDate, "Attendance",
	)
	if err != nil {
		return recon.Result{}, err
	}

	return recon.Result{
		Mode:           "attendance_extract",
		Outputs:        outputs,
		IndexedRecords: idx.Len(),
		DuplicateCount: len(idx.Duplicates()),
	}, nil
}

// CompareAttendance reconciles manual attendance against an HRIS export.
func (s *ReconServiceImpl) CompareAttendance(ctx context.Context, req recon.CompareRequest) (recon.Result, error) {
	if err := req.Validate(); err != nil {
		return recon.Result{}, err
	}

	sourceWB, err := s.openWorkbook(req.SourcePath)
	if err != nil {
		return recon.Result{}, err
	}
	defer sourceWB.Close()

	hrisWB, err := s.openWorkbook(req.HRISPath)
	if err != nil {
		return recon.Result{}, err
	}
	defer hrisWB.Close()

	sheets, err := s.sourceSheets(sourceWB, req.Settings.SheetNames)
	if err != nil {
		return recon.Result{}, err
	}

	idx := recon.NewIndex(recon.KindAttendance)
	for _, ws := range sheets {
		s.logger.Info("processing source sheet", "mode", "attendance_compare", "sheet", ws.Name())
		buildAttendanceIndex(ws, req.Settings, req.StartDate, req.EndDate, idx)
	}

	hrisSheets, err := s.hrisSheets(hrisWB)
	if err != nil {
		return recon.Result{}, err
	}

	var comparisons []recon.ComparisonRow
	for _, ws := range hrisSheets {
		s.logger.Info("processing hris sheet", "mode", "attendance_compare", "sheet", ws.Name())
		comparisons = append(comparisons, reconcileAttendance(ws, idx, req.StartDate, req.EndDate)...)
	}

	groups := routeByCompany(comparisons, comparisonCompany, req.Settings.ApprovedCodes())
	outputs, err := saveTables(
		filepath.Dir(req.SourcePath),
		renderCompareGroups(groups),
		compareHeaders,
		req.StartDate, req.EndDate, "Attendance Comparison",
	)
	if err != nil {
		return recon.Result{}, err
	}

	return recon.Result{
		Mode:           "attendance_compare",
		Outputs:        outputs,
		IndexedRecords: idx.Len(),
		DuplicateCount: len(idx.Duplicates()),
	}, nil
}

// ExtractOvertime produces per-company-code overtime tables. Overtime
// sheets carry their company code in the sheet title; sheets without a
// recognizable approved code are skipped whole.
func (s *ReconServiceImpl) ExtractOvertime(ctx context.Context, req recon.ExtractRequest) (recon.Result, error) {
	if err := req.Validate(); err != nil {
		return recon.Result{}, err
	}

	wb, err := s.openWorkbook(req.SourcePath)
	if err != nil {
		return recon.Result{}, err
	}
	defer wb.Close()

	sheets, err := s.sourceSheets(wb, req.Settings.SheetNames)
	if err != nil {
		return recon.Result{}, err
	}

	idx := s.buildOvertimeIndexFromSheets(sheets, req.Settings, req.StartDate, req.EndDate)

	groups := routeByCompany(idx.Records(), recordCompany, req.Settings.ApprovedCodes())
	outputs, err := saveTables(
		filepath.Dir(req.SourcePath),
		renderExtractGroups(groups),
		extractHeaders,
		req.StartDate, req.EndDate, "Overtime",
	)
	if err != nil {
		return recon.Result{}, err
	}

	return recon.Result{
		Mode:           "overtime_extract",
		Outputs:        outputs,
		IndexedRecords: idx.Len(),
	}, nil
}

// CompareOvertime reconciles manual overtime hours against an HRIS
// export; differences are numeric deltas.
func (s *ReconServiceImpl) CompareOvertime(ctx context.Context, req recon.CompareRequest) (recon.Result, error) {
	if err := req.Validate(); err != nil {
		return recon.Result{}, err
	}

	sourceWB, err := s.openWorkbook(req.SourcePath)
	if err != nil {
		return recon.Result{}, err
	}
	defer sourceWB.Close()

	hrisWB, err := s.openWorkbook(req.HRISPath)
	if err != nil {
		return recon.Result{}, err
	}
	defer hrisWB.Close()

	sheets, err := s.sourceSheets(sourceWB, req.Settings.SheetNames)
	if err != nil {
		return recon.Result{}, err
	}

	idx := s.buildOvertimeIndexFromSheets(sheets, req.Settings, req.StartDate, req.EndDate)

	hrisSheets, err := s.hrisSheets(hrisWB)
	if err != nil {
		return recon.Result{}, err
	}

	var comparisons []recon.ComparisonRow
	for _, ws := range hrisSheets {
		s.logger.Info("processing hris sheet", "mode", "overtime_compare", "sheet", ws.Name())
		comparisons = append(comparisons, reconcileOvertime(ws, idx, req.StartDate, req.EndDate, recon.KindOvertime)...)
	}

	groups := routeByCompany(comparisons, comparisonCompany, req.Settings.ApprovedCodes())
	outputs, err := saveTables(
		filepath.Dir(req.SourcePath),
		renderCompareGroups(groups),
		compareHeaders,
		req.StartDate, req.EndDate, "Overtime Comparison",
	)
	if err != nil {
		return recon.Result{}, err
	}

	return recon.Result{
		Mode:           "overtime_compare",
		Outputs:        outputs,
		IndexedRecords: idx.Len(),
	}, nil
}

// ExtractOvertimeOptdrv produces per-company-code tables from the OPTDRV
// overtime layout (hour values under a date header window).
func (s *ReconServiceImpl) ExtractOvertimeOptdrv(ctx context.Context, req recon.ExtractRequest) (recon.Result, error) {
	if err := req.Validate(); err != nil {
		return recon.Result{}, err
	}

	wb, err := s.openWorkbook(req.SourcePath)
	if err != nil {
		return recon.Result{}, err
	}
	defer wb.Close()

	sheets, err := s.sourceSheets(wb, req.Settings.SheetNames)
	if err != nil {
		return recon.Result{}, err
	}

	idx := recon.NewIndex(recon.KindOvertimeOptdrv)
	for _, ws := range sheets {
		s.logger.Info("processing source sheet", "mode", "overtime_optdrv", "sheet", ws.Name())
		buildOptdrvIndex(ws, req.Settings, req.StartDate, req.EndDate, true, idx)
	}

	groups := routeByCompany(idx.Records(), recordCompany, req.Settings.ApprovedCodes())
	outputs, err := saveTables(
		filepath.Dir(req.SourcePath),
		renderExtractGroups(groups),
		extractHeaders,
		req.StartDate, req.EndDate, "Overtime Optdrv",
	)
	if err != nil {
		return recon.Result{}, err
	}

	return recon.Result{
		Mode:           "overtime_optdrv_extract",
		Outputs:        outputs,
		IndexedRecords: idx.Len(),
	}, nil
}

// CompareOvertimeOptdrv reconciles OPTDRV overtime against an HRIS
// export. Zero-hour cells stay indexed here so they still reconcile.
func (s *ReconServiceImpl) CompareOvertimeOptdrv(ctx context.Context, req recon.CompareRequest) (recon.Result, error) {
	if err := req.Validate(); err != nil {
		return recon.Result{}, err
	}

	sourceWB, err := s.openWorkbook(req.SourcePath)
	if err != nil {
		return recon.Result{}, err
	}
	defer sourceWB.Close()

	hrisWB, err := s.openWorkbook(req.HRISPath)
	if err != nil {
		return recon.Result{}, err
	}
	defer hrisWB.Close()

	sheets, err := s.sourceSheets(sourceWB, req.Settings.SheetNames)
	if err != nil {
		return recon.Result{}, err
	}

	idx := recon.NewIndex(recon.KindOvertimeOptdrv)
	for _, ws := range sheets {
		s.logger.Info("processing source sheet", "mode", "overtime_optdrv_compare", "sheet", ws.Name())
		buildOptdrvIndex(ws, req.Settings, req.StartDate, req.EndDate, false, idx)
	}

	hrisSheets, err := s.hrisSheets(hrisWB)
	if err != nil {
		return recon.Result{}, err
	}

	var comparisons []recon.ComparisonRow
	for _, ws := range hrisSheets {
		s.logger.Info("processing hris sheet", "mode", "overtime_optdrv_compare", "sheet", ws.Name())
		comparisons = append(comparisons, reconcileOvertime(ws, idx, req.StartDate, req.EndDate, recon.KindOvertimeOptdrv)...)
	}

	groups := routeByCompany(comparisons, comparisonCompany, req.Settings.ApprovedCodes())
	outputs, err := saveTables(
		filepath.Dir(req.SourcePath),
		renderCompareGroups(groups),
		compareHeaders,
		req.StartDate, req.EndDate, "Overtime Optdrv Comparison",
	)
	if err != nil {
		return recon.Result{}, err
	}

	return recon.Result{
		Mode:           "overtime_optdrv_compare",
		Outputs:        outputs,
		IndexedRecords: idx.Len(),
	}, nil
}

func (s *ReconServiceImpl) buildOvertimeIndexFromSheets(sheets []spreadsheet.Sheet, settings recon.Settings, startKey, endKey string) *recon.Index {
	idx := recon.NewIndex(recon.KindOvertime)
	for _, ws := range sheets {
		companyCode := sheetCompanyCode(ws.Name(), settings)
		if companyCode == "" {
			s.logger.Warn("skipping sheet without approved company code in title", "sheet", ws.Name())
			continue
		}
		s.logger.Info("processing source sheet", "mode", "overtime", "sheet", ws.Name(), "company_code", companyCode)
		buildOvertimeIndex(ws, settings, startKey, endKey, companyCode, idx)
	}
	return idx
}

func (s *ReconServiceImpl) openWorkbook(path string) (*spreadsheet.Workbook, error) {
	wb, err := spreadsheet.Load(path)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", recon.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", recon.ErrWorkbookNotLoaded, err)
	}
	return wb, nil
}

func (s *ReconServiceImpl) sourceSheets(wb *spreadsheet.Workbook, names []string) ([]spreadsheet.Sheet, error) {
	sheets, err := wb.SourceSheets(names)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recon.ErrWorkbookNotLoaded, err)
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %v", recon.ErrNoSheetsMatched, names)
	}
	return sheets, nil
}

func (s *ReconServiceImpl) hrisSheets(wb *spreadsheet.Workbook) ([]spreadsheet.Sheet, error) {
	sheets, err := wb.AllSheets()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recon.ErrWorkbookNotLoaded, err)
	}
	return sheets, nil
}

func filterTimeOff(records []recon.Record) []recon.Record {
	out := make([]recon.Record, 0, len(records))
	for _, rec := range records {
		if recon.IsPresenceCode(rec.StatusCode) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func recordCompany(r recon.Record) string {
	return r.CompanyCode
}

func comparisonCompany(c recon.ComparisonRow) string {
	return c.Record.CompanyCode
}
