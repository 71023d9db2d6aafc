package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timezone"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	notificationService "github.com/cmlabs-hris/hris-attendance-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	shiftService "github.com/cmlabs-hris/hris-attendance-go/internal/service/shift"
	trackingService "github.com/cmlabs-hris/hris-attendance-go/internal/service/tracking"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:          cfg.Database.MaxConns,
		MinConns:          cfg.Database.MinConns,
		HealthCheckPeriod: database.DefaultPoolOptions.HealthCheckPeriod,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	locationRepo := postgresql.NewLocationLogRepository(db)
	calendarRepo := postgresql.NewCalendarRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.SecureCookie)
	if err != nil {
		return fmt.Errorf("error creating jwt service: %w", err)
	}

	var GoogleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	} else {
		slog.Info("Google sign-in disabled, CLIENT_ID not set")
	}

	resolver := timezone.NewResolver(cfg.Attendance.DefaultTimezone)
	autoClockOutAt, err := cfg.Attendance.AutoClockOutAt()
	if err != nil {
		return err
	}

	hub := sse.NewHub()
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{})
	defer notificationSvc.Stop()

	authSvc := serviceAuth.NewAuthService(transactor, userRepo, JWTService, JWTRepository)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		sessionRepo,
		locationRepo,
		employeeRepo,
		shiftRepo,
		branchRepo,
		resolver,
		notificationSvc,
		attendanceService.Config{
			MaxDailySessions:  cfg.Attendance.MaxDailySessions,
			AccuracyThreshold: cfg.Attendance.AccuracyThreshold,
		},
	)
	trackingSvc := trackingService.NewTrackingService(
		transactor,
		attendanceRepo,
		sessionRepo,
		locationRepo,
		employeeRepo,
		branchRepo,
		resolver,
		trackingService.Config{AccuracyThreshold: cfg.Attendance.AccuracyThreshold},
	)
	shiftSvc := shiftService.NewShiftService(shiftRepo, employeeRepo, notificationSvc)
	reportSvc := reportService.NewReportService(reportRepo, employeeRepo, shiftRepo, branchRepo, calendarRepo, resolver)

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.RouterOptions{
			AppName:               cfg.App.Name,
			Version:               cfg.App.Version,
			Env:                   cfg.App.Env,
			AllowedOrigins:        cfg.CORS.AllowedOrigins,
			LogLevel:              cfg.App.SlogLevel(),
			LocationRatePerMinute: cfg.Attendance.LocationRatePerMinute,
		},
		appHTTP.Handlers{
			Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, cfg.App.FrontendURL, cfg.App.SecureCookie),
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
			Tracking:     appHTTP.NewTrackingHandler(trackingSvc),
			Shift:        appHTTP.NewShiftHandler(shiftSvc),
			Report:       appHTTP.NewReportHandler(reportSvc),
			Notification: appHTTP.NewNotificationHandler(notificationSvc, JWTService),
		},
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		transactor,
		attendanceRepo,
		sessionRepo,
		employeeRepo,
		shiftRepo,
		branchRepo,
		calendarRepo,
		notificationSvc,
		resolver,
		cron.AttendanceJobsConfig{
			AutoClockOutAt:   autoClockOutAt,
			MaxDailySessions: cfg.Attendance.MaxDailySessions,
		},
	)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Open SSE streams return once the hub closes.
	server.RegisterOnShutdown(hub.Close)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
