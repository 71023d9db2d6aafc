package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/branch"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
)

type fakeTransactor struct{ calls int }

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "/" + date.Format("2006-01-02")
}

// memAttendance is an in-memory AttendanceRepository.
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

func (m *memAttendance) EnsureForDate(ctx context.Context, a attendance.Attendance) error {
	m.mu.Lock()
	_, ok := m.rows[dayKey(a.EmployeeID, a.Date)]
	m.mu.Unlock()
	if !ok {
		m.put(a)
	}
	return nil
}

func (m *memAttendance) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[dayKey(employeeID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (m *memAttendance) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[dayKey(employeeID, date)]
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
	m.mu.Lock()
	_, ok := m.rows[dayKey(a.EmployeeID, a.Date)]
	m.mu.Unlock()
	if ok {
		return false, nil
	}
	m.put(a)
	return true, nil
}

func (m *memAttendance) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range m.rows {
		if a.EmployeeID == employeeID && a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, int64(len(out)), nil
}

func (m *memAttendance) count(employeeID string, from, to time.Time, match func(attendance.Attendance) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.rows {
		if a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) && match(a) {
			n++
		}
	}
	return n
}

func (m *memAttendance) CountLateDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	return m.count(employeeID, from, to, func(a attendance.Attendance) bool { return a.IsLate || a.IsGraceUsed }), nil
}

func (m *memAttendance) CountGraceUses(ctx context.Context, employeeID string, from, to time.Time, excludeID string) (int, error) {
	return m.count(employeeID, from, to, func(a attendance.Attendance) bool { return a.IsGraceUsed && a.ID != excludeID }), nil
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

func (m *memAttendance) get(employeeID string, date time.Time) attendance.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[dayKey(employeeID, date)]
}

// memSessions is an in-memory SessionRepository.
type memSessions struct {
	mu   sync.Mutex
	rows []attendance.Session
	seq  int
}

func (m *memSessions) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.EmployeeID == s.EmployeeID && existing.Date.Equal(s.Date) && existing.SessionNumber == s.SessionNumber {
			return attendance.Session{}, attendance.ErrSessionConflict
		}
	}
	m.seq++
	s.ID = fmt.Sprintf("sess-%d", m.seq)
	m.rows = append(m.rows, s)
	return s, nil
}

func (m *memSessions) ExistsByNumber(ctx context.Context, employeeID string, date time.Time, number int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.EmployeeID == employeeID && s.Date.Equal(date) && s.SessionNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSessions) GetByID(ctx context.Context, id string, companyID string) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.ID == id && s.CompanyID == companyID {
			return s, nil
		}
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
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

func (m *memSessions) open() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.rows {
		if s.IsOpen() {
			n++
		}
	}
	return n
}

type memLocations struct {
	mu   sync.Mutex
	logs []tracking.LocationLog
}

func (m *memLocations) Create(ctx context.Context, log tracking.LocationLog) (tracking.LocationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.ID = fmt.Sprintf("log-%d", len(m.logs)+1)
	m.logs = append(m.logs, log)
	return log, nil
}

func (m *memLocations) LatestForSession(ctx context.Context, sessionID string, logType tracking.LogType) (*tracking.LocationLog, error) {
	return nil, nil
}

func (m *memLocations) ListByEmployee(ctx context.Context, employeeID, companyID string, scope tracking.Scope, from, to time.Time) ([]tracking.LocationLog, error) {
	return nil, nil
}

type stubEmployees struct {
	employees map[string]employee.Employee
}

func (s *stubEmployees) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := s.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *stubEmployees) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	for _, e := range s.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
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
	return nil, nil
}

func (s *stubEmployees) GetManagerUserIDs(ctx context.Context, companyID string) ([]string, error) {
	return nil, nil
}

func (s *stubEmployees) UpdateShift(ctx context.Context, id string, companyID string, shiftID *string) error {
	return nil
}

// stubShifts serves one shift for every employee; nil means unassigned.
type stubShifts struct {
	assigned *shift.ShiftSchedule
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
	return s.assigned, nil
}

type stubBranches struct {
	branch *branch.Branch
}

func (s *stubBranches) GetByID(ctx context.Context, id string, companyID string) (branch.Branch, error) {
	return branch.Branch{}, branch.ErrBranchNotFound
}

func (s *stubBranches) GetByEmployeeID(ctx context.Context, employeeID string) (*branch.Branch, error) {
	return s.branch, nil
}

type liveEvent struct {
	UserID string
	Event  string
	Data   interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	live   []liveEvent
	queued []notification.CreateNotificationRequest
}

func (r *recordingNotifier) PublishLive(userID string, event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live = append(r.live, liveEvent{UserID: userID, Event: event, Data: data})
}

func (r *recordingNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, req)
	return nil
}
