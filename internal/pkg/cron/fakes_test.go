package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/branch"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

type fakeTransactor struct{ calls int }

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "/" + date.Format("2006-01-02")
}

type memAttendance struct {
	mu   sync.Mutex
	rows map[string]attendance.Attendance
	seq  int
}

func newMemAttendance() *memAttendance {
	return &memAttendance{rows: map[string]attendance.Attendance{}}
}

func (m *memAttendance) put(a attendance.Attendance) attendance.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		m.seq++
		a.ID = fmt.Sprintf("att-%d", m.seq)
	}
	m.rows[dayKey(a.EmployeeID, a.Date)] = a
	return a
}

func (m *memAttendance) get(employeeID string, date time.Time) (attendance.Attendance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[dayKey(employeeID, date)]
	return a, ok
}

func (m *memAttendance) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memAttendance) EnsureForDate(ctx context.Context, a attendance.Attendance) error {
	if _, ok := m.get(a.EmployeeID, a.Date); !ok {
		m.put(a)
	}
	return nil
}

func (m *memAttendance) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	a, ok := m.get(employeeID, date)
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (m *memAttendance) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	a, ok := m.get(employeeID, date)
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memAttendance) GetOpenByEmployee(ctx context.Context, employeeID string) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var open *attendance.Attendance
	for _, a := range m.rows {
		if a.EmployeeID == employeeID && a.IsCurrentlyClockedIn && (open == nil || a.Date.After(open.Date)) {
			a := a
			open = &a
		}
	}
	return open, nil
}

func (m *memAttendance) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.ID == id && a.CompanyID == companyID {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memAttendance) Update(ctx context.Context, a attendance.Attendance) error {
	m.put(a)
	return nil
}

func (m *memAttendance) CreateIfAbsent(ctx context.Context, a attendance.Attendance) (bool, error) {
	if _, ok := m.get(a.EmployeeID, a.Date); ok {
		return false, nil
	}
	m.put(a)
	return true, nil
}

func (m *memAttendance) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

func (m *memAttendance) CountLateDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	return 0, nil
}

func (m *memAttendance) CountGraceUses(ctx context.Context, employeeID string, from, to time.Time, excludeID string) (int, error) {
	return 0, nil
}

func (m *memAttendance) ListClockedIn(ctx context.Context) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range m.rows {
		if a.IsCurrentlyClockedIn {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memAttendance) ExpireTracking(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, a := range m.rows {
		if a.LocationTrackingActive && a.LocationTrackingEndTime != nil && !a.LocationTrackingEndTime.After(now) {
			a.LocationTrackingActive = false
			m.rows[k] = a
			n++
		}
	}
	return n, nil
}

type memSessions struct {
	mu   sync.Mutex
	rows []attendance.Session
	seq  int
}

func (m *memSessions) add(s attendance.Session) attendance.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.ID = fmt.Sprintf("sess-%d", m.seq)
	m.rows = append(m.rows, s)
	return s
}

func (m *memSessions) byID(id string) attendance.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.ID == id {
			return s
		}
	}
	return attendance.Session{}
}

func (m *memSessions) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	return m.add(s), nil
}

func (m *memSessions) ExistsByNumber(ctx context.Context, employeeID string, date time.Time, number int) (bool, error) {
	return false, nil
}

func (m *memSessions) GetByID(ctx context.Context, id string, companyID string) (attendance.Session, error) {
	s := m.byID(id)
	if s.ID == "" || s.CompanyID != companyID {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) GetActive(ctx context.Context, attendanceID string) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.AttendanceID == attendanceID && s.IsOpen() {
			return s, nil
		}
	}
	return attendance.Session{}, attendance.ErrNoActiveSession
}

func (m *memSessions) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Session
	for _, s := range m.rows {
		if s.AttendanceID == attendanceID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionNumber < out[j].SessionNumber })
	return out, nil
}

func (m *memSessions) Update(ctx context.Context, s attendance.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == s.ID {
			m.rows[i] = s
			return nil
		}
	}
	return attendance.ErrSessionNotFound
}

type stubEmployees struct {
	employees []employee.Employee
}

func (s *stubEmployees) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range s.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployees) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployees) ListActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range s.employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEmployees) ListActiveCompanyIDs(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, e := range s.employees {
		if !seen[e.CompanyID] {
			seen[e.CompanyID] = true
			out = append(out, e.CompanyID)
		}
	}
	return out, nil
}

func (s *stubEmployees) GetManagerUserIDs(ctx context.Context, companyID string) ([]string, error) {
	return nil, nil
}

func (s *stubEmployees) UpdateShift(ctx context.Context, id string, companyID string, shiftID *string) error {
	return nil
}

// stubShifts serves shifts by employee ID; a missing entry means unassigned.
type stubShifts struct {
	byEmployee map[string]*shift.ShiftSchedule
}

func (s *stubShifts) Create(ctx context.Context, sh shift.ShiftSchedule) (shift.ShiftSchedule, error) {
	return sh, nil
}

func (s *stubShifts) GetByID(ctx context.Context, id string, companyID string) (shift.ShiftSchedule, error) {
	return shift.ShiftSchedule{}, shift.ErrShiftNotFound
}

func (s *stubShifts) List(ctx context.Context, companyID string, includeInactive bool) ([]shift.ShiftSchedule, error) {
	return nil, nil
}

func (s *stubShifts) Update(ctx context.Context, sh shift.ShiftSchedule) (shift.ShiftSchedule, error) {
	return sh, nil
}

func (s *stubShifts) Deactivate(ctx context.Context, id string, companyID string) error {
	return nil
}

func (s *stubShifts) GetByEmployeeID(ctx context.Context, employeeID string) (*shift.ShiftSchedule, error) {
	return s.byEmployee[employeeID], nil
}

type stubBranches struct{}

func (stubBranches) GetByID(ctx context.Context, id string, companyID string) (branch.Branch, error) {
	return branch.Branch{}, branch.ErrBranchNotFound
}

func (stubBranches) GetByEmployeeID(ctx context.Context, employeeID string) (*branch.Branch, error) {
	return nil, nil
}

type stubCalendar struct {
	holidays map[string]bool // companyID/date
	leaves   map[string]bool // employeeID/date
}

func (s *stubCalendar) ListHolidays(ctx context.Context, companyID string, from, to time.Time) ([]calendar.Holiday, error) {
	return nil, nil
}

func (s *stubCalendar) IsHoliday(ctx context.Context, companyID string, date time.Time) (bool, error) {
	return s.holidays[dayKey(companyID, date)], nil
}

func (s *stubCalendar) HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	return s.leaves[dayKey(employeeID, date)], nil
}

func (s *stubCalendar) ListLeaveDates(ctx context.Context, employeeID string, from, to time.Time) ([]time.Time, error) {
	return nil, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	queued []notification.CreateNotificationRequest
}

func (r *recordingNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, req)
	return nil
}
