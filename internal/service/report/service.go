package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/branch"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timezone"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	report.ReportRepository
	employee.EmployeeRepository
	shift.ShiftRepository
	branch.BranchRepository
	calendar.CalendarRepository
	resolver *timezone.Resolver
	now      func() time.Time
}

func NewReportService(
	reportRepo report.ReportRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	branchRepo branch.BranchRepository,
	calendarRepo calendar.CalendarRepository,
	resolver *timezone.Resolver,
) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository:   reportRepo,
		EmployeeRepository: employeeRepo,
		ShiftRepository:    shiftRepo,
		BranchRepository:   branchRepo,
		CalendarRepository: calendarRepo,
		resolver:           resolver,
		now:                time.Now,
	}
}

func authorize(ctx context.Context, permission user.Permission) (auth.Claims, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return auth.Claims{}, err
	}
	if !user.HasPermission(user.Role(claims.Role), permission) {
		return auth.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// attended reports whether a status counts as a worked day.
func attended(s attendance.Status) bool {
	switch s {
	case attendance.StatusPresent, attendance.StatusWFH, attendance.StatusHybrid,
		attendance.StatusOnDuty, attendance.StatusHalfDay:
		return true
	}
	return false
}

// DailySummary implements report.ReportService.
func (s *ReportServiceImpl) DailySummary(ctx context.Context, req report.DailySummaryRequest) (report.DailySummaryResponse, error) {
	claims, err := authorize(ctx, user.PermissionReportsView)
	if err != nil {
		return report.DailySummaryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.DailySummaryResponse{}, err
	}

	day := req.Day()
	if day.IsZero() {
		day = timezone.LocalDate(s.now(), s.resolver.Location(s.resolver.Default()))
	}

	var (
		total int
		rows  []attendance.Attendance
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.ReportRepository.CountActiveEmployees(gCtx, claims.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		list, err := s.ReportRepository.ListByDate(gCtx, claims.CompanyID, day)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		rows = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.DailySummaryResponse{}, err
	}

	resp := report.DailySummaryResponse{
		Date:           attendance.FormatDate(day),
		TotalEmployees: total,
		Recorded:       len(rows),
		StatusCounts:   map[string]int{},
	}

	var hours float64
	var worked int
	for _, a := range rows {
		resp.StatusCounts[string(a.Status)]++
		if attended(a.Status) {
			resp.Present++
		}
		if a.IsLate {
			resp.Late++
		}
		if a.IsGraceUsed {
			resp.GraceUsed++
		}
		if a.IsEarlyDeparture {
			resp.EarlyDepartures++
		}
		if a.IsCurrentlyClockedIn {
			resp.CurrentlyClockedIn++
		}
		if a.TotalWorkingHours > 0 {
			hours += a.TotalWorkingHours
			worked++
		}
	}
	if total > resp.Recorded {
		resp.NotRecorded = total - resp.Recorded
	}
	if worked > 0 {
		resp.AverageWorkingHours = utils.RoundHours(hours/float64(worked), 2)
	}
	resp.AttendanceRate = utils.Percentage(float64(resp.Present), float64(total), 1)

	return resp, nil
}

// summarizer accumulates rows into an EmployeeSummary.
type summarizer struct {
	report.EmployeeSummary
	workedDays int
}

func (s *summarizer) add(a attendance.Attendance) {
	switch a.Status {
	case attendance.StatusPresent:
		s.PresentDays++
	case attendance.StatusWFH:
		s.WFHDays++
	case attendance.StatusHybrid:
		s.HybridDays++
	case attendance.StatusOnDuty:
		s.OnDutyDays++
	case attendance.StatusHalfDay:
		s.HalfDays++
	case attendance.StatusAbsent:
		s.AbsentDays++
	case attendance.StatusLeave:
		s.LeaveDays++
	case attendance.StatusHoliday:
		s.HolidayDays++
	case attendance.StatusWeeklyOff:
		s.WeeklyOffDays++
	case attendance.StatusMissingPunch:
		s.MissingPunchDays++
	}
	if a.IsLate {
		s.LateDays++
		s.TotalLateMinutes += a.LateByMinutes
	}
	if a.IsGraceUsed {
		s.GraceUsedDays++
	}
	if a.IsEarlyDeparture {
		s.EarlyDepartureDays++
	}
	if a.TotalWorkingHours > 0 {
		s.TotalWorkingHours += a.TotalWorkingHours
		s.workedDays++
	}
}

func (s *summarizer) result() report.EmployeeSummary {
	out := s.EmployeeSummary
	out.TotalWorkingHours = utils.RoundHours(out.TotalWorkingHours, 2)
	if s.workedDays > 0 {
		out.AverageWorkingHours = utils.RoundHours(s.EmployeeSummary.TotalWorkingHours/float64(s.workedDays), 2)
	}
	return out
}

// MonthlySummary implements report.ReportService.
func (s *ReportServiceImpl) MonthlySummary(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReportResponse, error) {
	claims, err := authorize(ctx, user.PermissionReportsView)
	if err != nil {
		return report.MonthlyReportResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.MonthlyReportResponse{}, err
	}
	start, end := req.Period()

	var (
		employees []employee.Employee
		rows      []attendance.Attendance
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.EmployeeRepository.ListActiveByCompanyID(gCtx, claims.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		employees = list
		return nil
	})
	g.Go(func() error {
		list, err := s.ReportRepository.ListInRange(gCtx, claims.CompanyID, nil, start, end)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		rows = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.MonthlyReportResponse{}, err
	}

	byEmployee := make(map[string]*summarizer, len(employees))
	for _, e := range employees {
		byEmployee[e.ID] = &summarizer{EmployeeSummary: report.EmployeeSummary{
			EmployeeID:   e.ID,
			EmployeeCode: e.EmployeeCode,
			EmployeeName: e.FullName,
		}}
	}
	// Rows of employees who left during the month still count.
	for _, a := range rows {
		sum, ok := byEmployee[a.EmployeeID]
		if !ok {
			sum = &summarizer{EmployeeSummary: report.EmployeeSummary{EmployeeID: a.EmployeeID}}
			if a.EmployeeName != nil {
				sum.EmployeeName = *a.EmployeeName
			}
			byEmployee[a.EmployeeID] = sum
		}
		sum.add(a)
	}

	summaries := make([]report.EmployeeSummary, 0, len(byEmployee))
	for _, sum := range byEmployee {
		summaries = append(summaries, sum.result())
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].EmployeeName != summaries[j].EmployeeName {
			return summaries[i].EmployeeName < summaries[j].EmployeeName
		}
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})

	return report.MonthlyReportResponse{
		Month:       req.Month,
		PeriodStart: attendance.FormatDate(start),
		PeriodEnd:   attendance.FormatDate(end),
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Employees:   summaries,
	}, nil
}

// EmployeeReport implements report.ReportService. Days after the employee's
// local today are not listed.
func (s *ReportServiceImpl) EmployeeReport(ctx context.Context, req report.EmployeeReportRequest) (report.EmployeeReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.EmployeeReportResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return report.EmployeeReportResponse{}, err
	}
	if req.EmployeeID != claims.EmployeeID && !user.HasPermission(user.Role(claims.Role), user.PermissionReportsView) {
		return report.EmployeeReportResponse{}, user.ErrInsufficientPermissions
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, claims.CompanyID)
	if err != nil {
		return report.EmployeeReportResponse{}, err
	}
	start, end := req.Range()

	var (
		rows       []attendance.Attendance
		assigned   *shift.ShiftSchedule
		holidays   []calendar.Holiday
		leaveDates []time.Time
		zone       string
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.ReportRepository.ListInRange(gCtx, claims.CompanyID, &emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		rows = list
		return nil
	})
	g.Go(func() error {
		sh, err := s.ShiftRepository.GetByEmployeeID(gCtx, emp.ID)
		if err != nil {
			return fmt.Errorf("failed to get employee shift: %w", err)
		}
		assigned = sh
		return nil
	})
	g.Go(func() error {
		list, err := s.CalendarRepository.ListHolidays(gCtx, claims.CompanyID, start, end)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		holidays = list
		return nil
	})
	g.Go(func() error {
		list, err := s.CalendarRepository.ListLeaveDates(gCtx, emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to list leave dates: %w", err)
		}
		leaveDates = list
		return nil
	})
	g.Go(func() error {
		b, err := s.BranchRepository.GetByEmployeeID(gCtx, emp.ID)
		if err != nil {
			return fmt.Errorf("failed to get employee branch: %w", err)
		}
		var branchZone string
		if b != nil {
			branchZone = b.TimezoneName()
		}
		zone = s.resolver.Resolve(branchZone, "", nil)
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.EmployeeReportResponse{}, err
	}

	loc := s.resolver.Location(zone)
	today := timezone.LocalDate(s.now(), loc)

	recorded := make(map[string]attendance.Attendance, len(rows))
	for _, a := range rows {
		recorded[attendance.FormatDate(a.Date)] = a
	}
	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[attendance.FormatDate(h.Date)] = true
	}
	leaveSet := make(map[string]bool, len(leaveDates))
	for _, d := range leaveDates {
		leaveSet[attendance.FormatDate(d)] = true
	}

	resp := report.EmployeeReportResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		StartDate:    attendance.FormatDate(start),
		EndDate:      attendance.FormatDate(end),
		Timezone:     zone,
		Days:         []report.EmployeeDay{},
	}
	sum := &summarizer{EmployeeSummary: report.EmployeeSummary{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		EmployeeName: emp.FullName,
	}}

	for d := start; !d.After(end) && !d.After(today); d = d.AddDate(0, 0, 1) {
		key := attendance.FormatDate(d)
		a, ok := recorded[key]
		if !ok {
			a = attendance.Attendance{
				EmployeeID: emp.ID,
				Date:       d,
				Status:     attendance.StatusForMissingDay(holidaySet[key], leaveSet[key], emp.IsExpectedToWork(assigned, d)),
			}
			// Today is still open for clocking in.
			if d.Equal(today) && a.Status == attendance.StatusAbsent {
				continue
			}
		}
		sum.add(a)
		resp.Days = append(resp.Days, newEmployeeDay(a, ok, loc))
	}
	resp.Summary = sum.result()

	return resp, nil
}

func newEmployeeDay(a attendance.Attendance, recorded bool, loc *time.Location) report.EmployeeDay {
	day := report.EmployeeDay{
		Date:              attendance.FormatDate(a.Date),
		DayOfWeek:         a.Date.Weekday().String(),
		Status:            string(a.Status),
		Recorded:          recorded,
		Sessions:          a.DailySessionsCount,
		TotalWorkingHours: a.TotalWorkingHours,
		IsLate:            a.IsLate,
		LateByMinutes:     a.LateByMinutes,
		IsEarlyDeparture:  a.IsEarlyDeparture,
	}
	if a.ClockIn != nil {
		v := attendance.FormatClock(*a.ClockIn, loc)
		day.ClockIn = &v
	}
	if a.ClockOut != nil {
		v := attendance.FormatClock(*a.ClockOut, loc)
		day.ClockOut = &v
	}
	return day
}
