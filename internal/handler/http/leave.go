package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/middleware"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	// Employee
	GetMyBalances(w http.ResponseWriter, r *http.Request)
	Apply(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	// Admin
	SetBalances(w http.ResponseWriter, r *http.Request)
	ListAllBalances(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalances(w http.ResponseWriter, r *http.Request)
	DeleteEmployeeBalances(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	ListHandled(w http.ResponseWriter, r *http.Request)
	SetHolidays(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
	loc          *time.Location
}

func NewLeaveHandler(leaveService leave.LeaveService, loc *time.Location) LeaveHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &leaveHandlerImpl{
		leaveService: leaveService,
		loc:          loc,
	}
}

// yearParam reads ?year, defaulting to the current year.
func (h *leaveHandlerImpl) yearParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().In(h.loc).Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return year, true
}

// GetMyBalances implements LeaveHandler.
func (h *leaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.balances(w, r, identity.Subject)
}

// GetEmployeeBalances implements LeaveHandler.
func (h *leaveHandlerImpl) GetEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	h.balances(w, r, chi.URLParam(r, "employeeID"))
}

func (h *leaveHandlerImpl) balances(w http.ResponseWriter, r *http.Request, employeeID string) {
	year, ok := h.yearParam(r)
	if !ok {
		response.BadRequest(w, "Invalid year", nil)
		return
	}
	result, err := h.leaveService.GetBalances(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, result)
}

// Apply implements LeaveHandler.
func (h *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Apply leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = identity.Subject

	result, err := h.leaveService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave application submitted successfully", result)
}

// ListMine implements LeaveHandler.
func (h *leaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	result, err := h.leaveService.ListMine(r.Context(), identity.Subject)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, result)
}

// Withdraw implements LeaveHandler.
func (h *leaveHandlerImpl) Withdraw(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	result, err := h.leaveService.Withdraw(r.Context(), leave.WithdrawRequest{
		LeaveID:    chi.URLParam(r, "id"),
		EmployeeID: identity.Subject,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request withdrawn successfully", result)
}

// ListHolidays implements LeaveHandler.
func (h *leaveHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		response.BadRequest(w, "Invalid year", nil)
		return
	}
	var month *int
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			response.BadRequest(w, "Invalid month", nil)
			return
		}
		month = &m
	}

	result, err := h.leaveService.ListHolidays(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, result)
}

// SetBalances implements LeaveHandler.
func (h *leaveHandlerImpl) SetBalances(w http.ResponseWriter, r *http.Request) {
	var req leave.SetBalancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetBalances decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.leaveService.SetBalances(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave balances updated successfully", nil)
}

// ListAllBalances implements LeaveHandler.
func (h *leaveHandlerImpl) ListAllBalances(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		response.BadRequest(w, "Invalid year", nil)
		return
	}
	result, err := h.leaveService.ListAllBalances(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, result)
}

// DeleteEmployeeBalances implements LeaveHandler.
func (h *leaveHandlerImpl) DeleteEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(r)
	if !ok {
		response.BadRequest(w, "Invalid year", nil)
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	if err := h.leaveService.DeleteBalances(r.Context(), employeeID, year); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Balances for "+employeeID+" deleted successfully", nil)
}

// ListPending implements LeaveHandler.
func (h *leaveHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, result)
}

// Review implements LeaveHandler.
func (h *leaveHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.LeaveID = chi.URLParam(r, "id")
	req.ResolverEmail = identity.Email

	result, err := h.leaveService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListHandled implements LeaveHandler.
func (h *leaveHandlerImpl) ListHandled(w http.ResponseWriter, r *http.Request) {
	var employeeID *string
	if id := r.URL.Query().Get("emp_id"); id != "" {
		employeeID = &id
	}
	result, err := h.leaveService.ListHandled(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, result)
}

// SetHolidays implements LeaveHandler.
func (h *leaveHandlerImpl) SetHolidays(w http.ResponseWriter, r *http.Request) {
	var req leave.SetHolidaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetHolidays decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.leaveService.SetHolidays(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Holidays synchronized successfully", nil)
}
