package attendance

import (
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/pkg/utils"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string  `json:"-"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func (r *CheckInRequest) Coordinate() utils.Coordinate {
	return utils.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

func (r *CheckInRequest) Validate() error {
	return validateAttempt(r.EmployeeID, r.Coordinate())
}

type CheckOutRequest struct {
	EmployeeID string  `json:"-"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func (r *CheckOutRequest) Coordinate() utils.Coordinate {
	return utils.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

func (r *CheckOutRequest) Validate() error {
	return validateAttempt(r.EmployeeID, r.Coordinate())
}

func validateAttempt(employeeID string, c utils.Coordinate) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if err := c.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HistoryFilter is an inclusive YYYY-MM-DD range.
type HistoryFilter struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(f.From); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be a date in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(f.To); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be a date in YYYY-MM-DD format",
		})
	}
	if len(errs) == 0 && f.From > f.To {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must not be after to",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Contains reports whether date falls inside the range. Dates are canonical
// YYYY-MM-DD so string comparison orders them.
func (f HistoryFilter) Contains(date string) bool {
	return f.From <= date && date <= f.To
}

type AttendanceResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"emp_id"`
	Date        string  `json:"date"`
	CheckInTime *string `json:"check_in_time"`
	LastInTime  *string `json:"last_in_time"`
	LastOutTime *string `json:"last_out_time"`
	WorkedHours *string `json:"worked_hours"`
	Status      Status  `json:"status"`
}

// CheckResponse is returned by successful check-in and check-out.
type CheckResponse struct {
	Status         string             `json:"status"`
	DistanceMeters float64            `json:"distance_meters"`
	Record         AttendanceResponse `json:"record"`
}

type ProfileResponse struct {
	EmployeeID     string   `json:"emp_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	WorkLatitude   float64  `json:"work_lat"`
	WorkLongitude  float64  `json:"work_lng"`
	GeofenceRadius float64  `json:"geofence_radius"`
	StdCheckIn     string   `json:"std_check_in"`
	StdCheckOut    string   `json:"std_check_out"`
	FacePhotos     []string `json:"face_photos"`
}

type ServerTimeResponse struct {
	ISOTime   string `json:"iso_time"`
	Timezone  string `json:"timezone"`
	LocalDate string `json:"local_date"`
}

// ToResponse formats timestamps as RFC3339 in loc.
func ToResponse(r Record, loc *time.Location) AttendanceResponse {
	return AttendanceResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Date:        r.Date,
		CheckInTime: formatTime(r.CheckInTime, loc),
		LastInTime:  formatTime(r.LastInTime, loc),
		LastOutTime: formatTime(r.LastOutTime, loc),
		WorkedHours: r.WorkedHours,
		Status:      r.Status,
	}
}

func formatTime(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}
