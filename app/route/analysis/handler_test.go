package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelofallars/statmaster/internal/config"
	"github.com/angelofallars/statmaster/internal/service"
	"github.com/angelofallars/statmaster/internal/timesheet"
	"github.com/angelofallars/statmaster/pkg/pdftext"
)

// stubAnalyzer records the request it was handed and whether the
// uploaded file was readable at that moment, so tests can check the
// upload save/cleanup handling around the analysis call.
type stubAnalyzer struct {
	singleRes  *service.SingleResult
	compareRes *service.ComparisonResult
	err        error

	gotSingle  *service.SingleRequest
	gotCompare *service.ComparisonRequest

	uploadContent string
}

func (s *stubAnalyzer) AnalyzeSingle(ctx context.Context, req service.SingleRequest) (*service.SingleResult, error) {
	s.gotSingle = &req
	if data, err := os.ReadFile(req.PDFPath); err == nil {
		s.uploadContent = string(data)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.singleRes, nil
}

func (s *stubAnalyzer) AnalyzeComparison(ctx context.Context, req service.ComparisonRequest) (*service.ComparisonResult, error) {
	s.gotCompare = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.compareRes, nil
}

type fixture struct {
	router chi.Router
	cfg    config.Config
}

func newFixture(t *testing.T, svc service.Analyzer) fixture {
	t.Helper()
	cfg := config.Config{
		UploadDir:   t.TempDir(),
		ReportDir:   t.TempDir(),
		MaxUploadMB: 16,
	}
	router := chi.NewRouter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	NewHandlerGroup(svc, cfg, logger).Mount(router)
	return fixture{router: router, cfg: cfg}
}

type formFileSpec struct {
	field   string
	name    string
	content string
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFileSpec) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postForm(fx fixture, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func get(fx fixture, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func stubSingleResult() *service.SingleResult {
	return &service.SingleResult{
		ReportFilename: "Report_Mario_Rossi_02-01-2025-09-01-2025.pdf",
		Summary: timesheet.PeriodSummary{
			PeriodStart:           time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
			PeriodEnd:             time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC),
			TotalHoursWorked:      16,
			TotalTheoreticalHours: 20.0 * 31.0 / 7.0,
			TotalOvertime:         16 - 20.0*31.0/7.0,
			AvgMonthlyHours:       16,
			MonthlyCount:          1,
		},
		Months: []timesheet.MonthlyStat{
			{Year: 2025, Month: time.January, DaysInMonth: 31, DaysWorked: 2, HoursWorked: 16, AvgHoursPerDay: 8},
		},
	}
}

func stubComparisonResult() *service.ComparisonResult {
	single := stubSingleResult()
	return &service.ComparisonResult{
		ReportFilename: "Confronto_Mario_vs_Luigi.pdf",
		SummaryA:       single.Summary,
		SummaryB:       timesheet.PeriodSummary{MonthlyCount: 1},
		MonthsA:        single.Months,
		MonthsB:        []timesheet.MonthlyStat{{Year: 2025, Month: time.February, DaysInMonth: 28}},
	}
}

func singleForm(t *testing.T) (io.Reader, string) {
	t.Helper()
	return multipartBody(t,
		map[string]string{"employee_name": "Mario Rossi", "weekly_hours": "20,5"},
		formFileSpec{"pdf_file", "timbrature.pdf", "%PDF-1.4 fake"},
	)
}

func TestPagesRender(t *testing.T) {
	fx := newFixture(t, &stubAnalyzer{})

	for _, target := range []string{"/", "/compare"} {
		rec := get(fx, target)
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", target)
		assert.Contains(t, rec.Body.String(), "StatMaster")
	}
}

func TestAnalyzeFormSuccess(t *testing.T) {
	svc := &stubAnalyzer{singleRes: stubSingleResult()}
	fx := newFixture(t, svc)

	body, contentType := singleForm(t)
	rec := postForm(fx, "/analyze", body, contentType)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Report ready - Mario Rossi")
	assert.Contains(t, rec.Body.String(), "/download/Report_Mario_Rossi_02-01-2025-09-01-2025.pdf")

	require.NotNil(t, svc.gotSingle)
	assert.Equal(t, "Mario Rossi", svc.gotSingle.EmployeeName)
	assert.InDelta(t, 20.5, svc.gotSingle.WeeklyHours, 1e-9, "a decimal comma should parse")
	assert.Equal(t, fx.cfg.ReportDir, svc.gotSingle.OutputDir)

	assert.Equal(t, fx.cfg.UploadDir, filepath.Dir(svc.gotSingle.PDFPath))
	assert.Equal(t, "%PDF-1.4 fake", svc.uploadContent, "the saved upload should hold the posted bytes")

	entries, err := os.ReadDir(fx.cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "uploads should be removed after analysis")
}

func TestAnalyzeFormValidation(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		file    *formFileSpec
		wantMsg string
	}{
		{
			name:    "missing name",
			fields:  map[string]string{"weekly_hours": "20"},
			file:    &formFileSpec{"pdf_file", "x.pdf", "%PDF"},
			wantMsg: "fill in the employee name",
		},
		{
			name:    "missing file",
			fields:  map[string]string{"employee_name": "Mario", "weekly_hours": "20"},
			wantMsg: "attach a timesheet PDF",
		},
		{
			name:    "hours not numeric",
			fields:  map[string]string{"employee_name": "Mario", "weekly_hours": "venti"},
			file:    &formFileSpec{"pdf_file", "x.pdf", "%PDF"},
			wantMsg: "weekly hours must be a number",
		},
		{
			name:    "hours out of range",
			fields:  map[string]string{"employee_name": "Mario", "weekly_hours": "0"},
			file:    &formFileSpec{"pdf_file", "x.pdf", "%PDF"},
			wantMsg: "above 0",
		},
		{
			name:    "wrong extension",
			fields:  map[string]string{"employee_name": "Mario", "weekly_hours": "20"},
			file:    &formFileSpec{"pdf_file", "notes.txt", "hello"},
			wantMsg: "only PDF files",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAnalyzer{singleRes: stubSingleResult()}
			fx := newFixture(t, svc)

			var files []formFileSpec
			if tt.file != nil {
				files = append(files, *tt.file)
			}
			body, contentType := multipartBody(t, tt.fields, files...)
			rec := postForm(fx, "/analyze", body, contentType)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Header().Get("HX-Trigger"), tt.wantMsg)
			assert.Nil(t, svc.gotSingle, "the analyzer should not run on invalid input")
		})
	}
}

func TestAnalyzeFormFailureKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"no records", timesheet.ErrNoRecords, http.StatusUnprocessableEntity, "no clock records found"},
		{"unreadable pdf", fmt.Errorf("%w: bad xref", pdftext.ErrUnreadable), http.StatusUnprocessableEntity, "could not be read as a PDF"},
		{"internal", errors.New("disk exploded"), http.StatusInternalServerError, genericFailureMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, &stubAnalyzer{err: tt.err})

			body, contentType := singleForm(t)
			rec := postForm(fx, "/analyze", body, contentType)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("HX-Trigger"), tt.wantMsg)
		})
	}
}

func TestAnalyzeInternalDetailStaysOutOfResponse(t *testing.T) {
	fx := newFixture(t, &stubAnalyzer{err: errors.New("disk exploded")})

	body, contentType := singleForm(t)
	rec := postForm(fx, "/analyze", body, contentType)

	assert.NotContains(t, rec.Header().Get("HX-Trigger"), "disk exploded")
	assert.NotContains(t, rec.Body.String(), "disk exploded")
}

func TestAnalyzeRejectsOversizedUpload(t *testing.T) {
	svc := &stubAnalyzer{singleRes: stubSingleResult()}
	cfg := config.Config{UploadDir: t.TempDir(), ReportDir: t.TempDir(), MaxUploadMB: 1}
	router := chi.NewRouter()
	NewHandlerGroup(svc, cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).Mount(router)

	body, contentType := multipartBody(t,
		map[string]string{"employee_name": "Mario", "weekly_hours": "20"},
		formFileSpec{"pdf_file", "big.pdf", strings.Repeat("x", 2*1024*1024)},
	)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotSingle)
}

func compareForm(t *testing.T) (io.Reader, string) {
	t.Helper()
	return multipartBody(t,
		map[string]string{
			"employee1_name": "Mario", "weekly_hours1": "20",
			"employee2_name": "Luigi", "weekly_hours2": "40",
		},
		formFileSpec{"pdf_file1", "mario.pdf", "%PDF-mario"},
		formFileSpec{"pdf_file2", "luigi.pdf", "%PDF-luigi"},
	)
}

func TestCompareFormSuccess(t *testing.T) {
	svc := &stubAnalyzer{compareRes: stubComparisonResult()}
	fx := newFixture(t, svc)

	body, contentType := compareForm(t)
	rec := postForm(fx, "/compare", body, contentType)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Comparison ready - Mario vs Luigi")
	assert.Contains(t, rec.Body.String(), "/download/Confronto_Mario_vs_Luigi.pdf")

	require.NotNil(t, svc.gotCompare)
	assert.Equal(t, "Mario", svc.gotCompare.A.Name)
	assert.Equal(t, "Luigi", svc.gotCompare.B.Name)
	assert.InDelta(t, 20.0, svc.gotCompare.A.WeeklyHours, 1e-9)
	assert.InDelta(t, 40.0, svc.gotCompare.B.WeeklyHours, 1e-9)
	assert.NotEqual(t, svc.gotCompare.A.PDFPath, svc.gotCompare.B.PDFPath,
		"each side must analyze its own upload")

	entries, err := os.ReadDir(fx.cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "both uploads should be removed after analysis")
}

func TestCompareFormValidationNamesTheSide(t *testing.T) {
	svc := &stubAnalyzer{compareRes: stubComparisonResult()}
	fx := newFixture(t, svc)

	body, contentType := multipartBody(t,
		map[string]string{
			"employee1_name": "Mario", "weekly_hours1": "20",
			"weekly_hours2": "40",
		},
		formFileSpec{"pdf_file1", "mario.pdf", "%PDF-mario"},
		formFileSpec{"pdf_file2", "luigi.pdf", "%PDF-luigi"},
	)
	rec := postForm(fx, "/compare", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "second employee")
	assert.Nil(t, svc.gotCompare)
}

func TestDownloadServesReport(t *testing.T) {
	fx := newFixture(t, &stubAnalyzer{})
	filename := "Report_Mario_02-01-2025-09-01-2025.pdf"
	require.NoError(t, os.WriteFile(filepath.Join(fx.cfg.ReportDir, filename), []byte("%PDF-data"), 0o644))

	rec := get(fx, "/download/"+filename)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "%PDF-data", rec.Body.String())
}

func TestDownloadMissingReport(t *testing.T) {
	fx := newFixture(t, &stubAnalyzer{})

	rec := get(fx, "/download/Report_gone.pdf")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadRejectsUnsafeNames(t *testing.T) {
	fx := newFixture(t, &stubAnalyzer{})

	for _, target := range []string{
		"/download/..%2Fsecrets.pdf",
		"/download/.hidden.pdf",
		"/download/report.txt",
	} {
		rec := get(fx, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "GET %s", target)
	}
}

func TestValidReportName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"Report_Mario_02-01-2025-09-01-2025.pdf", true},
		{"Confronto_Mario_vs_Luigi.pdf", true},
		{"REPORT.PDF", true},
		{"", false},
		{".hidden.pdf", false},
		{"../escape.pdf", false},
		{`..\escape.pdf`, false},
		{"nested/escape.pdf", false},
		{"report.txt", false},
		{"report.pdf.exe", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, validReportName(tt.name), "name %q", tt.name)
	}
}

func TestAPIAnalyzeReturnsJSON(t *testing.T) {
	svc := &stubAnalyzer{singleRes: stubSingleResult()}
	fx := newFixture(t, svc)

	body, contentType := singleForm(t)
	rec := postForm(fx, "/api/analyze", body, contentType)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ReportFilename string `json:"report_filename"`
		DownloadURL    string `json:"download_url"`
		Summary        struct {
			TotalHoursWorked float64 `json:"total_hours_worked"`
			MonthlyCount     int     `json:"monthly_count"`
		} `json:"summary"`
		Monthly []struct {
			HoursWorked float64 `json:"hours_worked"`
		} `json:"monthly"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Report_Mario_Rossi_02-01-2025-09-01-2025.pdf", resp.ReportFilename)
	assert.Equal(t, "/download/Report_Mario_Rossi_02-01-2025-09-01-2025.pdf", resp.DownloadURL)
	assert.InDelta(t, 16.0, resp.Summary.TotalHoursWorked, 1e-9)
	assert.Equal(t, 1, resp.Summary.MonthlyCount)
	require.Len(t, resp.Monthly, 1)
	assert.InDelta(t, 16.0, resp.Monthly[0].HoursWorked, 1e-9)
}

func TestAPICompareReturnsJSON(t *testing.T) {
	svc := &stubAnalyzer{compareRes: stubComparisonResult()}
	fx := newFixture(t, svc)

	body, contentType := compareForm(t)
	rec := postForm(fx, "/api/compare", body, contentType)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ReportFilename string          `json:"report_filename"`
		SummaryA       json.RawMessage `json:"summary_a"`
		SummaryB       json.RawMessage `json:"summary_b"`
		MonthlyA       json.RawMessage `json:"monthly_a"`
		MonthlyB       json.RawMessage `json:"monthly_b"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Confronto_Mario_vs_Luigi.pdf", resp.ReportFilename)
	assert.NotEmpty(t, resp.SummaryA)
	assert.NotEmpty(t, resp.MonthlyB)
}

func TestAPIFailureKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{"no records", timesheet.ErrNoRecords, http.StatusUnprocessableEntity, "no_records", "no clock records found"},
		{"unreadable", fmt.Errorf("%w: bad xref", pdftext.ErrUnreadable), http.StatusUnprocessableEntity, "unreadable_pdf", "could not be read as a PDF"},
		{"internal", errors.New("broken pipe"), http.StatusInternalServerError, "internal", genericFailureMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, &stubAnalyzer{err: tt.err})

			body, contentType := singleForm(t)
			rec := postForm(fx, "/api/analyze", body, contentType)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, resp["kind"])
			assert.Contains(t, resp["error"], tt.wantMsg)
			if tt.wantKind == "internal" {
				assert.NotContains(t, resp["error"], "broken pipe")
			}
		})
	}
}

func TestAPIInvalidInputKind(t *testing.T) {
	fx := newFixture(t, &stubAnalyzer{singleRes: stubSingleResult()})

	body, contentType := multipartBody(t,
		map[string]string{"employee_name": "Mario", "weekly_hours": "venti"},
		formFileSpec{"pdf_file", "x.pdf", "%PDF"},
	)
	rec := postForm(fx, "/api/analyze", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_input", resp["kind"])
}
