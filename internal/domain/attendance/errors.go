package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrOutOfGeofence      = errors.New("outside the allowed geofence")
	ErrNoOpenSession      = errors.New("cannot check out without check-in")
	ErrNoPriorCheckIn     = errors.New("no check-in recorded for that date")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OutOfGeofenceError carries the measured distance of a rejected attempt.
type OutOfGeofenceError struct {
	Distance float64
	Radius   float64
}

func (e *OutOfGeofenceError) Error() string {
	return fmt.Sprintf("location violation: you are %dm away from work location", int(e.Distance))
}

func (e *OutOfGeofenceError) Is(target error) bool {
	return target == ErrOutOfGeofence
}
