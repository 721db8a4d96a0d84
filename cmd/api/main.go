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

	"github.com/cmlabs-hris/hris-payroll/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/idempotency"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/payslip"
	"github.com/cmlabs-hris/hris-payroll/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/hris-payroll/internal/service/payroll"
	reportService "github.com/cmlabs-hris/hris-payroll/internal/service/report"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	cancel()
	if err != nil {
		logger.Error("Error connecting to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Repositories
	transactor := postgresql.NewTransactor(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	hoursAggregator := postgresql.NewAttendanceRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	// Services
	payslips := payslip.NewGenerator(cfg.Payroll.PayslipCompanyName, cfg.Payroll.PayslipCurrency)
	payrollSvc := payrollService.NewPayrollService(transactor, payrollRepo, employeeRepo, hoursAggregator, payslips, logger)
	reportSvc := reportService.NewReportService(reportRepo)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	// Idempotency keys are optional
	var idempotencyStore *idempotency.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unreachable, idempotency keys disabled", slog.Any("error", err))
		} else {
			idempotencyStore = idempotency.NewStore(rdb, cfg.Redis.IdempotencyTTL, idempotency.WithLockTTL(cfg.Redis.IdempotencyLockTTL))
		}
		pingCancel()
	}

	var bulkLimiter *middleware.UserRateLimiter
	if cfg.Payroll.BulkRateLimitPerMinute > 0 {
		bulkLimiter = middleware.PerMinute(cfg.Payroll.BulkRateLimitPerMinute)
	}

	// Handlers
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(JWTService, payrollHandler, reportHandler, appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		Idempotency:    idempotencyStore,
		BulkLimiter:    bulkLimiter,
	})

	// Scheduled jobs
	scheduler := cron.NewScheduler(logger)
	cron.NewPayrollJobs(payrollSvc, logger).RegisterJobs(scheduler, cfg.Payroll.DraftRefreshInterval)
	if bulkLimiter != nil {
		scheduler.AddJob("bulk_limiter_prune", 10*time.Minute, func(ctx context.Context) error {
			if n := bulkLimiter.Prune(); n > 0 {
				logger.Debug("Cron: pruned rate limiter buckets", "count", n)
			}
			return nil
		})
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server running", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", slog.Any("error", err))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.Any("error", err))
	}
	logger.Info("Server stopped")
}
