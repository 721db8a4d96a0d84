package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/idempotency"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the cross-cutting pieces the routes need.
// Idempotency and BulkLimiter are optional.
type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	Idempotency    *idempotency.Store
	BulkLimiter    *middleware.UserRateLimiter
}

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler, reportHandler ReportHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", idempotency.HeaderKey},
		ExposedHeaders:   []string{"Link", "Content-Disposition", middleware.HeaderReplayed},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/", payrollHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollCalculate))
					r.Post("/calculate", payrollHandler.Calculate)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RateLimitByUser(opts.BulkLimiter))
						r.Use(middleware.Idempotency(opts.Idempotency, logger))
						r.Post("/calculate-all", payrollHandler.CalculateAll)
					})
				})

				r.Route("/{employeeId}/{year}/{month}", func(r chi.Router) {
					r.Get("/", payrollHandler.Get)
					r.Delete("/", payrollHandler.Delete)
					r.Get("/payslip", payrollHandler.Payslip)
					r.Post("/confirm", payrollHandler.Confirm)
					r.Post("/lock", payrollHandler.Lock)
					r.Post("/unlock", payrollHandler.Unlock)
				})
			})

			r.Route("/reports/payroll", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/summary", reportHandler.GetPayrollSummary)
				r.Get("/top-earners", reportHandler.GetTopEarners)
				r.Get("/by-department", reportHandler.GetByDepartment)
			})
		})
	})

	return r
}
