package analysis

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/angelofallars/statmaster/internal/service"
)

// analyzeRequest is the validated single-report form.
type analyzeRequest struct {
	employeeName string
	weeklyHours  float64
	file         *multipart.FileHeader
}

func newAnalyzeRequest(r *http.Request) (*analyzeRequest, error) {
	employeeName := strings.TrimSpace(r.FormValue("employee_name"))
	weeklyHoursField := strings.TrimSpace(r.FormValue("weekly_hours"))
	file := formFile(r, "pdf_file")

	if employeeName == "" || weeklyHoursField == "" || file == nil {
		return nil, fmt.Errorf("%w: fill in the employee name and the weekly hours, and attach a timesheet PDF", service.ErrInvalidInput)
	}

	weeklyHours, err := parseWeeklyHours(weeklyHoursField)
	if err != nil {
		return nil, err
	}
	if err := checkPDFName(file); err != nil {
		return nil, err
	}

	return &analyzeRequest{
		employeeName: employeeName,
		weeklyHours:  weeklyHours,
		file:         file,
	}, nil
}

// compareRequest is the validated two-employee comparison form.
type compareRequest struct {
	a employeeForm
	b employeeForm
}

type employeeForm struct {
	name        string
	weeklyHours float64
	file        *multipart.FileHeader
}

func newCompareRequest(r *http.Request) (*compareRequest, error) {
	a, err := newEmployeeForm(r, "employee1_name", "weekly_hours1", "pdf_file1", "first")
	if err != nil {
		return nil, err
	}
	b, err := newEmployeeForm(r, "employee2_name", "weekly_hours2", "pdf_file2", "second")
	if err != nil {
		return nil, err
	}
	return &compareRequest{a: a, b: b}, nil
}

func newEmployeeForm(r *http.Request, nameField, hoursField, fileField, position string) (employeeForm, error) {
	name := strings.TrimSpace(r.FormValue(nameField))
	hoursValue := strings.TrimSpace(r.FormValue(hoursField))
	file := formFile(r, fileField)

	if name == "" || hoursValue == "" || file == nil {
		return employeeForm{}, fmt.Errorf("%w: fill in the name and the weekly hours, and attach a timesheet PDF for the %s employee", service.ErrInvalidInput, position)
	}

	hours, err := parseWeeklyHours(hoursValue)
	if err != nil {
		return employeeForm{}, err
	}
	if err := checkPDFName(file); err != nil {
		return employeeForm{}, err
	}

	return employeeForm{
		name:        name,
		weeklyHours: hours,
		file:        file,
	}, nil
}

// parseWeeklyHours accepts a decimal comma as well as a decimal point,
// since the timesheets this serves are Italian.
func parseWeeklyHours(s string) (float64, error) {
	hours, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: weekly hours must be a number, like 20 or 37.5", service.ErrInvalidInput)
	}
	if hours <= 0 || hours > 24*7 {
		return 0, fmt.Errorf("%w: weekly hours must be above 0 and at most 168", service.ErrInvalidInput)
	}
	return hours, nil
}

func checkPDFName(file *multipart.FileHeader) error {
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return fmt.Errorf("%w: only PDF files (.pdf) are accepted", service.ErrInvalidInput)
	}
	return nil
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
