package employee

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pragyatmika/hrms-backend-go/internal/pkg/storage"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/utils"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
)

const maxPhotoSize = 5 << 20 // 5MB

// Photo is an uploaded face photo.
type Photo struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type RegisterEmployeeRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	PersonalEmail  string  `json:"personal_email"`
	WorkLatitude   float64 `json:"work_lat"`
	WorkLongitude  float64 `json:"work_lng"`
	GeofenceRadius float64 `json:"geofence_radius"`
	StdCheckIn     string  `json:"std_check_in"`
	StdCheckOut    string  `json:"std_check_out"`
	Photos         []Photo `json:"-"`
}

func (r *RegisterEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.PersonalEmail = strings.ToLower(strings.TrimSpace(r.PersonalEmail))

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if !validator.IsValidEmail(r.PersonalEmail) {
		errs = append(errs, validator.ValidationError{Field: "personal_email", Message: "personal_email must be a valid email address"})
	}

	errs = append(errs, validateWorkSite(r.WorkLatitude, r.WorkLongitude, r.GeofenceRadius)...)
	errs = append(errs, validateStandardTimes(r.StdCheckIn, r.StdCheckOut)...)

	for _, p := range r.Photos {
		if !storage.IsAllowedImageExt(filepath.Ext(p.Filename)) {
			errs = append(errs, validator.ValidationError{Field: "photos", Message: "invalid file type: only jpg, jpeg, png, webp allowed"})
			break
		}
		if p.Size > maxPhotoSize {
			errs = append(errs, validator.ValidationError{Field: "photos", Message: "each photo must not exceed 5MB"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest patches the profile. Nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	ID             string   `json:"-"`
	Name           *string  `json:"name"`
	PersonalEmail  *string  `json:"personal_email"`
	WorkLatitude   *float64 `json:"work_lat"`
	WorkLongitude  *float64 `json:"work_lng"`
	GeofenceRadius *float64 `json:"geofence_radius"`
	StdCheckIn     *string  `json:"std_check_in"`
	StdCheckOut    *string  `json:"std_check_out"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if r.PersonalEmail != nil && !validator.IsValidEmail(*r.PersonalEmail) {
		errs = append(errs, validator.ValidationError{Field: "personal_email", Message: "personal_email must be a valid email address"})
	}
	if (r.WorkLatitude == nil) != (r.WorkLongitude == nil) {
		errs = append(errs, validator.ValidationError{Field: "work_lat", Message: "work_lat and work_lng must be updated together"})
	}
	if r.WorkLatitude != nil && r.WorkLongitude != nil {
		if err := (utils.Coordinate{Latitude: *r.WorkLatitude, Longitude: *r.WorkLongitude}).Validate(); err != nil {
			errs = append(errs, err.(validator.ValidationErrors)...)
		}
	}
	if r.GeofenceRadius != nil && *r.GeofenceRadius <= 0 {
		errs = append(errs, validator.ValidationError{Field: "geofence_radius", Message: "geofence_radius must be greater than 0"})
	}
	if r.StdCheckIn != nil && !validator.IsValidClock(*r.StdCheckIn) {
		errs = append(errs, validator.ValidationError{Field: "std_check_in", Message: "std_check_in must be HH:MM"})
	}
	if r.StdCheckOut != nil && !validator.IsValidClock(*r.StdCheckOut) {
		errs = append(errs, validator.ValidationError{Field: "std_check_out", Message: "std_check_out must be HH:MM"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the set fields onto e.
func (r UpdateEmployeeRequest) Apply(e *Employee) {
	if r.Name != nil {
		e.Name = strings.TrimSpace(*r.Name)
	}
	if r.PersonalEmail != nil {
		v := strings.ToLower(strings.TrimSpace(*r.PersonalEmail))
		e.PersonalEmail = &v
	}
	if r.WorkLatitude != nil && r.WorkLongitude != nil {
		e.WorkLatitude = *r.WorkLatitude
		e.WorkLongitude = *r.WorkLongitude
	}
	if r.GeofenceRadius != nil {
		e.GeofenceRadius = *r.GeofenceRadius
	}
	if r.StdCheckIn != nil {
		e.StdCheckIn = *r.StdCheckIn
	}
	if r.StdCheckOut != nil {
		e.StdCheckOut = *r.StdCheckOut
	}
}

func validateWorkSite(lat, lng, radius float64) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if err := (utils.Coordinate{Latitude: lat, Longitude: lng}).Validate(); err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			e.Field = "work_" + e.Field
			errs = append(errs, e)
		}
	}
	if radius <= 0 {
		errs = append(errs, validator.ValidationError{Field: "geofence_radius", Message: "geofence_radius must be greater than 0"})
	}
	return errs
}

func validateStandardTimes(in, out string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !validator.IsValidClock(in) {
		errs = append(errs, validator.ValidationError{Field: "std_check_in", Message: "std_check_in must be HH:MM"})
	}
	if !validator.IsValidClock(out) {
		errs = append(errs, validator.ValidationError{Field: "std_check_out", Message: "std_check_out must be HH:MM"})
	}
	return errs
}

type EmployeeResponse struct {
	ID             string   `json:"emp_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	PersonalEmail  *string  `json:"personal_email,omitempty"`
	WorkLatitude   float64  `json:"work_lat"`
	WorkLongitude  float64  `json:"work_lng"`
	GeofenceRadius float64  `json:"geofence_radius"`
	StdCheckIn     string   `json:"std_check_in"`
	StdCheckOut    string   `json:"std_check_out"`
	FacePhotos     []string `json:"face_photos"`
}

type RegisterEmployeeResponse struct {
	EmployeeID string `json:"emp_id"`
	Email      string `json:"email"`
	EmailSent  bool   `json:"email_sent"`
}
