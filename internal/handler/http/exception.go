package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/middleware"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/response"
)

// maxMultipartMemory bounds the in-memory part of multipart uploads.
const maxMultipartMemory = 10 << 20

type ExceptionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	ListArchive(w http.ResponseWriter, r *http.Request)
}

type exceptionHandlerImpl struct {
	exceptionService exception.ExceptionService
}

func NewExceptionHandler(exceptionService exception.ExceptionService) ExceptionHandler {
	return &exceptionHandlerImpl{
		exceptionService: exceptionService,
	}
}

// Submit implements ExceptionHandler.
func (h *exceptionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req exception.SubmitRequest

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	// Get JSON data from 'data' field
	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}
	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = identity.Subject

	// Captured face image is optional
	file, fileHeader, err := r.FormFile("photo")
	if err != nil && err != http.ErrMissingFile {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if err == nil {
		defer file.Close()
		req.Image = file
		req.ImageFilename = fileHeader.Filename
		req.ImageSize = fileHeader.Size
	}

	result, err := h.exceptionService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Request submitted for admin review", result)
}

// ListPending implements ExceptionHandler.
func (h *exceptionHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.exceptionService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, pending)
}

// Review implements ExceptionHandler.
func (h *exceptionHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req exception.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")
	req.ResolverEmail = identity.Email

	result, err := h.exceptionService.Resolve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request "+strings.ToLower(string(result.Status)), result)
}

// ListArchive implements ExceptionHandler.
func (h *exceptionHandlerImpl) ListArchive(w http.ResponseWriter, r *http.Request) {
	var filter exception.ArchiveFilter
	if status := r.URL.Query().Get("status"); status != "" {
		s := exception.Status(strings.ToUpper(status))
		filter.Status = &s
	}
	if employeeID := r.URL.Query().Get("emp_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	entries, err := h.exceptionService.ListArchive(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, entries)
}
