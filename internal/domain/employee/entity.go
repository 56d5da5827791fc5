package employee

import (
	"fmt"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/pkg/utils"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
)

// IDPrefix is prepended to the zero-padded sequence number of an employee.
const IDPrefix = "PRAGEMP"

// FormatID renders the n-th employee identifier, e.g. PRAGEMP001.
func FormatID(n int64) string {
	return fmt.Sprintf("%s%03d", IDPrefix, n)
}

type Employee struct {
	ID             string
	Name           string
	Email          string // organisation address, also the login identity
	PersonalEmail  *string
	WorkLatitude   float64
	WorkLongitude  float64
	GeofenceRadius float64 // meters
	StdCheckIn     string  // HH:MM
	StdCheckOut    string  // HH:MM
	FacePhotos     []string
	PasswordHash   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WorkSite is the center of the employee's geofence.
func (e Employee) WorkSite() utils.Coordinate {
	return utils.Coordinate{Latitude: e.WorkLatitude, Longitude: e.WorkLongitude}
}

// ScheduledAt combines a calendar date (YYYY-MM-DD) with an HH:MM clock time in loc.
func ScheduledAt(date string, clock string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	hour, minute, ok := validator.ParseClock(clock)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStandardTime, clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), nil
}
