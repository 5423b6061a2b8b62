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

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hrms-timekeeping-go/internal/handler/http"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrms-timekeeping-go/internal/service/attendance"
	payrollService "github.com/cmlabs-hris/hrms-timekeeping-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loc := cfg.Location()

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	timestampRepo := postgresql.NewTimestampRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, timestampRepo, employeeRepo, loc)
	payrollSvc := payrollService.NewPayrollService(employeeRepo, attendanceRepo, leaveRequestRepo, payslipRepo, loc)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(cfg, JWTService, employeeRepo, attendanceHandler, payrollHandler)

	var scheduler *cron.Scheduler
	if cfg.Cron.Enabled {
		scheduler = cron.NewScheduler()
		cron.NewAttendanceJobs(attendanceSvc, cfg.Cron.StaleSessionMaxAge, cfg.Cron.StaleSessionInterval).RegisterJobs(scheduler)
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
}
