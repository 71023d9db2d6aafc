package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the deployment values the router needs.
type RouterOptions struct {
	AppName               string
	Version               string
	Env                   string
	AllowedOrigins        []string
	LogLevel              slog.Level
	LocationRatePerMinute int
}

type Handlers struct {
	Auth         AuthHandler
	Attendance   AttendanceHandler
	Tracking     TrackingHandler
	Shift        ShiftHandler
	Report       ReportHandler
	Notification NotificationHandler
}

func NewRouter(JWTService jwt.Service, opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	locationLimiter := middleware.NewUserRateLimiter(opts.LocationRatePerMinute)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})
		})

		// EventSource cannot send an Authorization header; Stream checks its own token.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RequireCompany)

			r.Route("/attendance", func(r chi.Router) {
				// Self-service
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.Use(middleware.RequirePermission(user.PermissionAttendanceOwn))

					r.Post("/clock-in", h.Attendance.ClockIn)
					r.Post("/clock-out", h.Attendance.ClockOut)
					r.Get("/today", h.Attendance.Today)
					r.Get("/my", h.Attendance.GetMyAttendance)

					r.Get("/location/status", h.Tracking.Status)
					r.With(locationLimiter.Handler).Post("/location", h.Tracking.SubmitLocation)
				})

				// Own history or tracking.view_all, checked by the service
				r.Get("/location/history/{employeeID}", h.Tracking.History)

				r.With(middleware.RequirePermission(user.PermissionAttendanceRegularize)).
					Put("/sessions/{id}/regularize", h.Attendance.Regularize)

				r.Get("/{id}", h.Attendance.Get)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftView))
					r.Get("/", h.Shift.List)
					r.Get("/{id}", h.Shift.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftManage))
					r.Post("/", h.Shift.Create)
					r.Put("/{id}", h.Shift.Update)
					r.Delete("/{id}", h.Shift.Delete)
					r.Put("/employees/{employeeID}", h.Shift.AssignToEmployee)
				})
			})

			r.Route("/reports/attendance", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))

				r.Get("/daily", h.Report.GetDailySummary)
				r.Get("/monthly", h.Report.GetMonthlySummary)
				r.With(middleware.RequirePermission(user.PermissionReportsExport)).
					Get("/monthly/export", h.Report.ExportMonthlySummary)
				r.Get("/employees/{employeeID}", h.Report.GetEmployeeReport)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Post("/{id}/read", h.Notification.MarkOneAsRead)
				r.Get("/preferences", h.Notification.GetPreferences)
				r.Put("/preferences", h.Notification.UpdatePreference)
				r.Get("/sse-token", h.Notification.GetSSEToken)
			})
		})
	})
	return r
}
