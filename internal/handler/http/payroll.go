package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/export"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const formatXLSX = "xlsx"

type PayrollHandler interface {
	GetAttendanceSheet(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	SavePayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) GetAttendanceSheet(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	employeeRef := chi.URLParam(r, "employeeRef")

	if r.URL.Query().Get("format") == formatXLSX {
		data, filename, err := h.payrollService.ExportAttendanceSheet(r.Context(), employeeRef, period)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Attachment(w, export.ContentTypeXLSX, filename, data)
		return
	}

	result, err := h.payrollService.GetAttendanceSheet(r.Context(), employeeRef, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	employeeRef := chi.URLParam(r, "employeeRef")

	if r.URL.Query().Get("format") == formatXLSX {
		data, filename, err := h.payrollService.ExportPayslip(r.Context(), employeeRef, period)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Attachment(w, export.ContentTypeXLSX, filename, data)
		return
	}

	result, err := h.payrollService.GeneratePayslip(r.Context(), employeeRef, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) SavePayslip(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.SavePayslip(r.Context(), chi.URLParam(r, "employeeRef"), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payslip saved", result)
}

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPayslipHistory(r.Context(), chi.URLParam(r, "employeeRef"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(result.Total)})
}

// parsePeriod reads ?month= and ?year=. Range checks happen in the service.
func parsePeriod(r *http.Request) (payroll.PeriodRequest, error) {
	var (
		period payroll.PeriodRequest
		errs   validator.ValidationErrors
	)

	q := r.URL.Query()
	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a number"})
		}
		period.Month = month
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a number"})
		}
		period.Year = year
	}

	if len(errs) > 0 {
		return payroll.PeriodRequest{}, errs
	}
	return period, nil
}
