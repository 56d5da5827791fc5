package exception

import (
	"io"
	"path/filepath"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/storage"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/utils"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
)

const maxImageSize = 5 << 20 // 5MB

type SubmitRequest struct {
	EmployeeID     string      `json:"-"`
	Type           RequestType `json:"type"`
	Reason         string      `json:"reason"`
	Latitude       float64     `json:"latitude"`
	Longitude      float64     `json:"longitude"`
	LocationFailed bool        `json:"location_failed"`
	FaceFailed     bool        `json:"face_failed"`

	// Optional captured face image
	Image         io.Reader `json:"-"`
	ImageFilename string    `json:"-"`
	ImageSize     int64     `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if !r.Type.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be CHECK_IN or CHECK_OUT",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}
	if err := (utils.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}).Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if r.Image != nil {
		if !storage.IsAllowedImageExt(filepath.Ext(r.ImageFilename)) {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png, webp allowed",
			})
		} else if r.ImageSize > maxImageSize {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "photo size must not exceed 5MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	RequestID     string `json:"-"`
	Action        Action `json:"action"`
	ResolverEmail string `json:"-"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}
	if !r.Action.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be APPROVE or REJECT",
		})
	}
	if validator.IsEmpty(r.ResolverEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "resolver",
			Message: "resolver identity is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ArchiveFilter struct {
	Status     *Status
	EmployeeID *string
}

type RequestResponse struct {
	ID             string      `json:"id"`
	EmployeeID     string      `json:"emp_id"`
	EmployeeName   string      `json:"employee_name,omitempty"`
	Type           RequestType `json:"type"`
	Reason         string      `json:"reason"`
	AttemptedAt    string      `json:"timestamp"`
	Latitude       float64     `json:"location_lat"`
	Longitude      float64     `json:"location_lng"`
	LocationFailed bool        `json:"location_failed"`
	FaceFailed     bool        `json:"face_failed"`
	FaceImageURL   *string     `json:"face_image_url,omitempty"`
	Status         Status      `json:"status"`
}

type ArchiveResponse struct {
	RequestResponse
	RequestID  string `json:"request_id"`
	ResolvedAt string `json:"resolved_at"`
	ResolvedBy string `json:"resolved_by"`
}

type ReviewResponse struct {
	RequestID string                         `json:"request_id"`
	Status    Status                         `json:"status"`
	Date      string                         `json:"date"`
	Record    *attendance.AttendanceResponse `json:"attendance,omitempty"`
}

func ToRequestResponse(r Request, loc *time.Location) RequestResponse {
	return RequestResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		Type:           r.Type,
		Reason:         r.Reason,
		AttemptedAt:    r.AttemptedAt.In(loc).Format(time.RFC3339),
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		LocationFailed: r.LocationFailed,
		FaceFailed:     r.FaceFailed,
		Status:         r.Status,
	}
}

func ToArchiveResponse(e ArchiveEntry, loc *time.Location) ArchiveResponse {
	return ArchiveResponse{
		RequestResponse: RequestResponse{
			ID:             e.ID,
			EmployeeID:     e.EmployeeID,
			Type:           e.Type,
			Reason:         e.Reason,
			AttemptedAt:    e.AttemptedAt.In(loc).Format(time.RFC3339),
			Latitude:       e.Latitude,
			Longitude:      e.Longitude,
			LocationFailed: e.LocationFailed,
			FaceFailed:     e.FaceFailed,
			Status:         e.Status,
		},
		RequestID:  e.RequestID,
		ResolvedAt: e.ResolvedAt.In(loc).Format(time.RFC3339),
		ResolvedBy: e.ResolvedBy,
	}
}
