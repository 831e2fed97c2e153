package analysis

import (
	"net/http"

	"github.com/angelofallars/statmaster/internal/service"
	"github.com/angelofallars/statmaster/internal/timesheet"
	"github.com/go-chi/render"
)

// singleResponse is the JSON body of a successful POST /api/analyze.
type singleResponse struct {
	ReportFilename string                  `json:"report_filename"`
	DownloadURL    string                  `json:"download_url"`
	Summary        timesheet.PeriodSummary `json:"summary"`
	Monthly        []timesheet.MonthlyStat `json:"monthly"`
}

// comparisonResponse is the JSON body of a successful POST /api/compare.
type comparisonResponse struct {
	ReportFilename string                  `json:"report_filename"`
	DownloadURL    string                  `json:"download_url"`
	SummaryA       timesheet.PeriodSummary `json:"summary_a"`
	SummaryB       timesheet.PeriodSummary `json:"summary_b"`
	MonthlyA       []timesheet.MonthlyStat `json:"monthly_a"`
	MonthlyB       []timesheet.MonthlyStat `json:"monthly_b"`
}

func (hg *HandlerGroup) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	_, res, err := hg.runSingle(r)
	if err != nil {
		hg.jsonFailure(w, r, err)
		return
	}

	render.JSON(w, r, singleResponse{
		ReportFilename: res.ReportFilename,
		DownloadURL:    "/download/" + res.ReportFilename,
		Summary:        res.Summary,
		Monthly:        res.Months,
	})
}

func (hg *HandlerGroup) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	_, res, err := hg.runCompare(r)
	if err != nil {
		hg.jsonFailure(w, r, err)
		return
	}

	render.JSON(w, r, comparisonResponse{
		ReportFilename: res.ReportFilename,
		DownloadURL:    "/download/" + res.ReportFilename,
		SummaryA:       res.SummaryA,
		SummaryB:       res.SummaryB,
		MonthlyA:       res.MonthsA,
		MonthlyB:       res.MonthsB,
	})
}

// jsonFailure mirrors showFailure for the JSON API: expected failures
// keep their message and carry a machine-readable kind, everything
// else is logged and flattened to a generic message.
func (hg *HandlerGroup) jsonFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.Classify(err)
	message := err.Error()
	if !kind.Expected() {
		hg.slog.Error("analysis failed", "error", err)
		message = genericFailureMessage
	}

	render.Status(r, statusCode(kind))
	render.JSON(w, r, render.M{
		"kind":  string(kind),
		"error": message,
	})
}
