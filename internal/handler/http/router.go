package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/middleware"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
	// UploadsDir is served under /uploads when photos are kept on local disk.
	UploadsDir string
	// Metrics is exposed on /metrics when set.
	Metrics prometheus.Gatherer
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Exception  ExceptionHandler
	Employee   EmployeeHandler
	Leave      LeaveHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", SignupKeyHeader},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{}))
	}
	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/admin/signup", h.Auth.AdminSignup)
			r.Post("/admin/login", h.Auth.AdminLogin)
			r.Post("/employee/login", h.Auth.EmployeeLogin)
		})

		r.Get("/attendance/time", h.Attendance.ServerTime)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/leave/holidays", h.Leave.ListHolidays)

			// Employee only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEmployee)

				r.Get("/attendance/profile", h.Attendance.GetMyProfile)
				r.Get("/attendance/today", h.Attendance.GetMyToday)
				r.Get("/attendance/history", h.Attendance.GetMyHistory)
				r.Post("/attendance/check-in", h.Attendance.CheckIn)
				r.Post("/attendance/check-out", h.Attendance.CheckOut)
				r.Post("/attendance/requests", h.Exception.Submit)

				r.Get("/leave", h.Leave.ListMine)
				r.Post("/leave", h.Leave.Apply)
				r.Get("/leave/balances", h.Leave.GetMyBalances)
				r.Post("/leave/{id}/withdraw", h.Leave.Withdraw)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.List)
					r.Post("/", h.Employee.Register)
					r.Get("/{id}", h.Employee.Get)
					r.Put("/{id}", h.Employee.Update)
				})

				r.Get("/attendance/{employeeID}", h.Attendance.GetEmployeeHistory)

				r.Route("/exceptions", func(r chi.Router) {
					r.Get("/", h.Exception.ListPending)
					r.Get("/archive", h.Exception.ListArchive)
					r.Post("/{id}/review", h.Exception.Review)
				})

				r.Route("/leave", func(r chi.Router) {
					r.Get("/balances", h.Leave.ListAllBalances)
					r.Put("/balances", h.Leave.SetBalances)
					r.Get("/balances/{employeeID}", h.Leave.GetEmployeeBalances)
					r.Delete("/balances/{employeeID}", h.Leave.DeleteEmployeeBalances)
					r.Get("/requests", h.Leave.ListPending)
					r.Post("/requests/{id}/review", h.Leave.Review)
					r.Get("/handled", h.Leave.ListHandled)
					r.Put("/holidays", h.Leave.SetHolidays)
				})
			})
		})
	})
	return r
}
