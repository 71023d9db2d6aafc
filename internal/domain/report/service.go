package report

import "context"

type ReportService interface {
	DailySummary(ctx context.Context, req DailySummaryRequest) (DailySummaryResponse, error)
	MonthlySummary(ctx context.Context, req MonthlyReportRequest) (MonthlyReportResponse, error)

	// EmployeeReport lists every day of the range, classifying days without
	// a row as holiday, leave, weekly off or absent.
	EmployeeReport(ctx context.Context, req EmployeeReportRequest) (EmployeeReportResponse, error)

	// ExportMonthly renders MonthlySummary as an .xlsx workbook.
	ExportMonthly(ctx context.Context, req MonthlyReportRequest) (ExportFile, error)
}
