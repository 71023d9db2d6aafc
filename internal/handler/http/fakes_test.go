package http

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tracking"
)

type fakeAttendanceService struct {
	clockIn    func(ctx context.Context, req attendance.ClockInRequest) (attendance.ClockInResponse, error)
	clockOut   func(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockOutResult, error)
	listMine   func(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error)
	getByID    func(ctx context.Context, id string) (attendance.AttendanceResponse, error)
	regularize func(ctx context.Context, req attendance.RegularizeRequest) (attendance.AttendanceResponse, error)
}

func (f *fakeAttendanceService) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.ClockInResponse, error) {
	return f.clockIn(ctx, req)
}

func (f *fakeAttendanceService) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockOutResult, error) {
	return f.clockOut(ctx, req)
}

func (f *fakeAttendanceService) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	return attendance.TodayResponse{}, nil
}

func (f *fakeAttendanceService) ListMine(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return f.listMine(ctx, filter)
}

func (f *fakeAttendanceService) GetByID(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	return f.getByID(ctx, id)
}

func (f *fakeAttendanceService) Regularize(ctx context.Context, req attendance.RegularizeRequest) (attendance.AttendanceResponse, error) {
	return f.regularize(ctx, req)
}

type fakeTrackingService struct {
	submit  func(ctx context.Context, req tracking.SubmitLocationRequest) (tracking.SubmitLocationResponse, error)
	history func(ctx context.Context, req tracking.HistoryRequest) (tracking.HistoryResponse, error)
}

func (f *fakeTrackingService) SubmitLocation(ctx context.Context, req tracking.SubmitLocationRequest) (tracking.SubmitLocationResponse, error) {
	return f.submit(ctx, req)
}

func (f *fakeTrackingService) GetStatus(ctx context.Context) (tracking.TrackingStatusResponse, error) {
	return tracking.TrackingStatusResponse{}, nil
}

func (f *fakeTrackingService) GetHistory(ctx context.Context, req tracking.HistoryRequest) (tracking.HistoryResponse, error) {
	return f.history(ctx, req)
}

type fakeShiftService struct {
	create func(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error)
	assign func(ctx context.Context, employeeID string, req shift.AssignShiftRequest) error
}

func (f *fakeShiftService) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	return f.create(ctx, req)
}

func (f *fakeShiftService) GetByID(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return shift.ShiftResponse{ID: id}, nil
}

func (f *fakeShiftService) List(ctx context.Context, includeInactive bool) ([]shift.ShiftResponse, error) {
	return []shift.ShiftResponse{}, nil
}

func (f *fakeShiftService) Update(ctx context.Context, id string, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	return shift.ShiftResponse{ID: id}, nil
}

func (f *fakeShiftService) Deactivate(ctx context.Context, id string) error {
	return nil
}

func (f *fakeShiftService) AssignToEmployee(ctx context.Context, employeeID string, req shift.AssignShiftRequest) error {
	return f.assign(ctx, employeeID, req)
}

type fakeReportService struct {
	export func(ctx context.Context, req report.MonthlyReportRequest) (report.ExportFile, error)
}

func (f *fakeReportService) DailySummary(ctx context.Context, req report.DailySummaryRequest) (report.DailySummaryResponse, error) {
	return report.DailySummaryResponse{}, nil
}

func (f *fakeReportService) MonthlySummary(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReportResponse, error) {
	return report.MonthlyReportResponse{}, nil
}

func (f *fakeReportService) EmployeeReport(ctx context.Context, req report.EmployeeReportRequest) (report.EmployeeReportResponse, error) {
	return report.EmployeeReportResponse{}, nil
}

func (f *fakeReportService) ExportMonthly(ctx context.Context, req report.MonthlyReportRequest) (report.ExportFile, error) {
	return f.export(ctx, req)
}

type fakeAuthService struct {
	login   func(ctx context.Context, req auth.LoginRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error)
	refresh func(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error)
	logout  func(ctx context.Context, refreshToken string) error
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return f.login(ctx, req, sessionReq)
}

func (f *fakeAuthService) LoginWithGoogle(ctx context.Context, email string, googleID string, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return auth.TokenResponse{}, auth.ErrAccountNotProvisioned
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	return f.refresh(ctx, req)
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	return f.logout(ctx, refreshToken)
}

type fakeNotificationService struct {
	markAsRead func(ctx context.Context, userID string, req notification.MarkAsReadRequest) error
}

func (f *fakeNotificationService) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	return nil
}

func (f *fakeNotificationService) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	return nil
}

func (f *fakeNotificationService) PublishLive(userID string, event string, data interface{}) {}

func (f *fakeNotificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	return &notification.NotificationListResponse{Page: page, PageSize: pageSize}, nil
}

func (f *fakeNotificationService) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (f *fakeNotificationService) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	return f.markAsRead(ctx, userID, req)
}

func (f *fakeNotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return nil
}

func (f *fakeNotificationService) GetPreferences(ctx context.Context, userID string) ([]notification.PreferenceResponse, error) {
	return nil, nil
}

func (f *fakeNotificationService) UpdatePreference(ctx context.Context, userID string, req notification.UpdatePreferenceRequest) error {
	return nil
}

func (f *fakeNotificationService) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch := make(chan notification.SSEEvent)
	close(ch)
	return ch, func() {}
}

func (f *fakeNotificationService) Stop() {}
