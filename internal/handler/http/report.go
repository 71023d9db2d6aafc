package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Daily company snapshot
	GetDailySummary(w http.ResponseWriter, r *http.Request)

	// Monthly per-employee totals
	GetMonthlySummary(w http.ResponseWriter, r *http.Request)
	ExportMonthlySummary(w http.ResponseWriter, r *http.Request)

	// Day-by-day breakdown for one employee
	GetEmployeeReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetDailySummary handles GET /reports/attendance/daily
func (h *reportHandlerImpl) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	req := report.DailySummaryRequest{Date: r.URL.Query().Get("date")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.DailySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetMonthlySummary handles GET /reports/attendance/monthly
func (h *reportHandlerImpl) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	req := report.MonthlyReportRequest{Month: r.URL.Query().Get("month")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.MonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ExportMonthlySummary handles GET /reports/attendance/monthly/export
func (h *reportHandlerImpl) ExportMonthlySummary(w http.ResponseWriter, r *http.Request) {
	req := report.MonthlyReportRequest{Month: r.URL.Query().Get("month")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.ExportMonthly(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

// GetEmployeeReport handles GET /reports/attendance/employees/{employeeID}
func (h *reportHandlerImpl) GetEmployeeReport(w http.ResponseWriter, r *http.Request) {
	req := report.EmployeeReportRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.EmployeeReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
