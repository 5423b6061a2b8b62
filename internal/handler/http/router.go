package http

import (
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/config"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(cfg *config.Config, JWTService jwt.Service, employees employee.EmployeeRepository, attendanceHandler AttendanceHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-timekeeping"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	r.Use(chiMiddleware.Heartbeat("/"))

	attendanceView := middleware.RequireEmployeeAccess(employees, middleware.EmployeeAccess{
		Own:           user.PermissionAttendanceViewOwn,
		All:           user.PermissionAttendanceViewAll,
		DirectReports: true,
	})
	attendanceWrite := middleware.RequireEmployeeAccess(employees, middleware.EmployeeAccess{
		Own: user.PermissionAttendanceCreate,
		All: user.PermissionAttendanceViewAll,
	})
	payrollView := middleware.RequireEmployeeAccess(employees, middleware.EmployeeAccess{
		Own: user.PermissionPayrollViewOwn,
		All: user.PermissionPayrollViewAll,
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/approved", attendanceHandler.ListApproved)

				// Approvers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceApprove))
					r.Get("/approvals/pending", attendanceHandler.ListPending)
					r.Post("/records/{id}/approve", attendanceHandler.Approve)
					r.Post("/records/{id}/reject", attendanceHandler.Reject)
				})

				r.Route("/{employeeRef}", func(r chi.Router) {
					r.With(attendanceView).Get("/", attendanceHandler.ListForEmployee)
					r.With(attendanceView).Get("/today", attendanceHandler.Today)

					r.Group(func(r chi.Router) {
						r.Use(attendanceWrite)
						r.Post("/clock-in", attendanceHandler.ClockIn)
						r.Post("/pause", attendanceHandler.Pause)
						r.Post("/resume", attendanceHandler.Resume)
						r.Post("/clock-out", attendanceHandler.ClockOut)
						r.Post("/submit", attendanceHandler.Submit)
					})
				})
			})

			r.Route("/payroll/{employeeRef}", func(r chi.Router) {
				r.With(payrollView).Get("/attendance-sheet", payrollHandler.GetAttendanceSheet)
				r.With(payrollView).Get("/payslip", payrollHandler.GetPayslip)
				r.With(payrollView).Get("/payslips", payrollHandler.ListPayslips)

				r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).
					Post("/payslips", payrollHandler.SavePayslip)
			})
		})
	})
	return r
}
