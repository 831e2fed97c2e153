package analysis

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/angelofallars/statmaster/app/component"
	"github.com/angelofallars/statmaster/app/event"
	"github.com/angelofallars/statmaster/internal/config"
	"github.com/angelofallars/statmaster/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// genericFailureMessage is what users see when the failure is not
// theirs to fix. The underlying error goes to the log instead.
const genericFailureMessage = "Unexpected error while processing the PDF. Try again, and check the server logs if it persists."

type HandlerGroup struct {
	svc            service.Analyzer
	slog           *slog.Logger
	uploadDir      string
	reportDir      string
	maxUploadBytes int64
}

func NewHandlerGroup(svc service.Analyzer, cfg config.Config, logger *slog.Logger) *HandlerGroup {
	return &HandlerGroup{
		svc:            svc,
		slog:           logger,
		uploadDir:      cfg.UploadDir,
		reportDir:      cfg.ReportDir,
		maxUploadBytes: cfg.MaxUploadBytes(),
	}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Handle("/", templ.Handler(component.FullPage("StatMaster - Timesheet reports", page())))
	r.Method(http.MethodGet, "/compare", templ.Handler(component.FullPage("StatMaster - Compare employees", comparePage())))
	r.Post("/analyze", hg.limitUpload(hg.handleAnalyze))
	r.Post("/compare", hg.limitUpload(hg.handleCompare))
	r.Get("/download/{filename}", hg.handleDownload)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", hg.limitUpload(hg.handleAPIAnalyze))
		r.Post("/compare", hg.limitUpload(hg.handleAPICompare))
	})
}

// limitUpload caps the request body before any of it is read, so an
// oversized upload fails during form parsing instead of filling the
// upload directory.
func (hg *HandlerGroup) limitUpload(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, hg.maxUploadBytes)
		next(w, r)
	}
}

func (hg *HandlerGroup) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, res, err := hg.runSingle(r)
	if err != nil {
		hg.showFailure(w, err)
		return
	}

	_ = htmx.NewResponse().
		AddTrigger(event.TriggerSetErrMessage("")).
		RenderTempl(r.Context(), w, singleResult(req.employeeName, res))
}

func (hg *HandlerGroup) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, res, err := hg.runCompare(r)
	if err != nil {
		hg.showFailure(w, err)
		return
	}

	_ = htmx.NewResponse().
		AddTrigger(event.TriggerSetErrMessage("")).
		RenderTempl(r.Context(), w, compareResult(req.a.name, req.b.name, res))
}

// runSingle parses and validates the single-analysis form, stores the
// upload under a temporary name and runs the analysis on it.
func (hg *HandlerGroup) runSingle(r *http.Request) (*analyzeRequest, *service.SingleResult, error) {
	if err := r.ParseMultipartForm(hg.maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("%w: reading the upload form failed: %v", service.ErrInvalidInput, err)
	}

	req, err := newAnalyzeRequest(r)
	if err != nil {
		return nil, nil, err
	}

	pdfPath, err := hg.saveUpload(req.file)
	if err != nil {
		return req, nil, err
	}
	defer func() { _ = os.Remove(pdfPath) }()

	res, err := hg.svc.AnalyzeSingle(r.Context(), service.SingleRequest{
		PDFPath:      pdfPath,
		EmployeeName: req.employeeName,
		WeeklyHours:  req.weeklyHours,
		OutputDir:    hg.reportDir,
	})
	if err != nil {
		return req, nil, err
	}
	return req, res, nil
}

func (hg *HandlerGroup) runCompare(r *http.Request) (*compareRequest, *service.ComparisonResult, error) {
	if err := r.ParseMultipartForm(hg.maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("%w: reading the upload form failed: %v", service.ErrInvalidInput, err)
	}

	req, err := newCompareRequest(r)
	if err != nil {
		return nil, nil, err
	}

	pathA, err := hg.saveUpload(req.a.file)
	if err != nil {
		return req, nil, err
	}
	defer func() { _ = os.Remove(pathA) }()

	pathB, err := hg.saveUpload(req.b.file)
	if err != nil {
		return req, nil, err
	}
	defer func() { _ = os.Remove(pathB) }()

	res, err := hg.svc.AnalyzeComparison(r.Context(), service.ComparisonRequest{
		A: service.EmployeeSource{
			PDFPath:     pathA,
			Name:        req.a.name,
			WeeklyHours: req.a.weeklyHours,
		},
		B: service.EmployeeSource{
			PDFPath:     pathB,
			Name:        req.b.name,
			WeeklyHours: req.b.weeklyHours,
		},
		OutputDir: hg.reportDir,
	})
	if err != nil {
		return req, nil, err
	}
	return req, res, nil
}

// saveUpload copies a multipart file into the upload directory under a
// random name, so concurrent requests never clobber each other.
func (hg *HandlerGroup) saveUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("opening uploaded file: %w", err)
	}
	defer src.Close()

	path := filepath.Join(hg.uploadDir, uuid.NewString()+".pdf")
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("saving uploaded file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("saving uploaded file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("saving uploaded file: %w", err)
	}
	return path, nil
}

func (hg *HandlerGroup) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if !validReportName(filename) {
		http.Error(w, "invalid report name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(hg.reportDir, filename)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

// validReportName accepts bare generated-report filenames and nothing
// else: no path separators, no dot prefixes, a .pdf suffix.
func validReportName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// showFailure reports expected failures with the error's own message
// and hides everything else behind a generic one.
func (hg *HandlerGroup) showFailure(w http.ResponseWriter, err error) {
	kind := service.Classify(err)
	if !kind.Expected() {
		hg.slog.Error("analysis failed", "error", err)
		showError(w, http.StatusInternalServerError, errors.New(genericFailureMessage))
		return
	}
	showError(w, statusCode(kind), err)
}

func statusCode(kind service.FailureKind) int {
	switch kind {
	case service.FailureInvalidInput:
		return http.StatusBadRequest
	case service.FailureNoRecords, service.FailureUnreadablePDF:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func showError(w http.ResponseWriter, code int, err error) {
	_ = htmx.NewResponse().
		StatusCode(code).
		Reswap(htmx.SwapNone).
		AddTrigger(event.TriggerSetErrMessage(err.Error())).
		Write(w)
}
