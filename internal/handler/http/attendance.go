package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	Pause(w http.ResponseWriter, r *http.Request)
	Resume(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	ListForEmployee(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	ListApproved(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ClockIn(r.Context(), chi.URLParam(r, "employeeRef"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock in successful", result)
}

// Pause implements AttendanceHandler.
func (h *attendanceHandlerImpl) Pause(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Pause(r.Context(), chi.URLParam(r, "employeeRef"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance paused", result)
}

// Resume implements AttendanceHandler.
func (h *attendanceHandlerImpl) Resume(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Resume(r.Context(), chi.URLParam(r, "employeeRef"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance resumed", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ClockOut(r.Context(), chi.URLParam(r, "employeeRef"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Clock out successful"
	if result.HasManager {
		message = "Clock out successful, submitted to manager for approval"
	}
	response.SuccessWithMessage(w, message, result)
}

// Submit implements AttendanceHandler.
func (h *attendanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req attendance.SubmitForApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode submit request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.SubmitForApproval(r.Context(), chi.URLParam(r, "employeeRef"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance submitted for approval", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context(), chi.URLParam(r, "employeeRef"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListForEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListForEmployee(r.Context(), chi.URLParam(r, "employeeRef"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeList(w, result)
}

// ListPending implements AttendanceHandler. Admins may look at another
// approver's queue with ?approver_id=.
func (h *attendanceHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	approverID := requester.UserID
	if other := r.URL.Query().Get("approver_id"); other != "" && requester.IsAdmin() {
		approverID = other
	}

	result, err := h.attendanceService.ListPendingApprovals(r.Context(), approverID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeList(w, result)
}

// ListApproved implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListApproved(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.ListApproved(r.Context(), requester)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeList(w, result)
}

// Approve implements AttendanceHandler.
func (h *attendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.Approve(r.Context(), requester, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance approved", result)
}

// Reject implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.attendanceService.Reject(r.Context(), requester, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance rejected", result)
}

func writeList(w http.ResponseWriter, result attendance.ListAttendanceResponse) {
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(result.Total)})
}
