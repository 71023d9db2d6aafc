package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Attendance"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilePattern = "attendance-%s.xlsx"
)

var exportHeaders = []string{
	"Employee Code", "Employee Name", "Present", "WFH", "Hybrid", "On Duty", "Half Day",
	"Absent", "Leave", "Holiday", "Weekly Off", "Missing Punch", "Late Days", "Late Minutes",
	"Grace Used", "Early Departures", "Total Hours", "Average Hours",
}

func summaryRow(s report.EmployeeSummary) []interface{} {
	return []interface{}{
		s.EmployeeCode, s.EmployeeName, s.PresentDays, s.WFHDays, s.HybridDays, s.OnDutyDays, s.HalfDays,
		s.AbsentDays, s.LeaveDays, s.HolidayDays, s.WeeklyOffDays, s.MissingPunchDays, s.LateDays, s.TotalLateMinutes,
		s.GraceUsedDays, s.EarlyDepartureDays, s.TotalWorkingHours, s.AverageWorkingHours,
	}
}

// ExportMonthly implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthly(ctx context.Context, req report.MonthlyReportRequest) (report.ExportFile, error) {
	if _, err := authorize(ctx, user.PermissionReportsExport); err != nil {
		return report.ExportFile{}, err
	}

	summary, err := s.MonthlySummary(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	content, err := renderMonthly(summary)
	if err != nil {
		slog.Error("failed to render monthly report", "month", req.Month, "error", err)
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.ExportFile{
		Filename:    fmt.Sprintf(exportFilePattern, summary.Month),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

func renderMonthly(summary report.MonthlyReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Attendance report %s to %s", summary.PeriodStart, summary.PeriodEnd)
	if err := f.SetCellValue(exportSheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(exportSheet, "A2", "Generated at "+summary.GeneratedAt); err != nil {
		return nil, err
	}

	const headerRow = 4
	if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", headerRow), &exportHeaders); err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(exportHeaders))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle); err != nil {
		return nil, err
	}

	for i, emp := range summary.Employees {
		row := summaryRow(emp)
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 16); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "B", "B", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "C", lastCol, 12); err != nil {
		return nil, err
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
