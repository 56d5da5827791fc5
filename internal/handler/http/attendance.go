package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/middleware"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMyHistory(w http.ResponseWriter, r *http.Request)
	GetMyToday(w http.ResponseWriter, r *http.Request)
	GetMyProfile(w http.ResponseWriter, r *http.Request)
	ServerTime(w http.ResponseWriter, r *http.Request)
	GetEmployeeHistory(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = identity.Subject

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = identity.Subject

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out successful", result)
}

// GetMyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.history(w, r, identity.Subject)
}

// GetEmployeeHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEmployeeHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, chi.URLParam(r, "employeeID"))
}

func (h *attendanceHandlerImpl) history(w http.ResponseWriter, r *http.Request, employeeID string) {
	filter := attendance.HistoryFilter{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	records, err := h.attendanceService.GetHistory(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, records)
}

// GetMyToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyToday(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.GetToday(r.Context(), identity.Subject)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// GetMyProfile implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	profile, err := h.attendanceService.GetProfile(r.Context(), identity.Subject)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

// ServerTime implements AttendanceHandler.
func (h *attendanceHandlerImpl) ServerTime(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.attendanceService.ServerTime())
}
