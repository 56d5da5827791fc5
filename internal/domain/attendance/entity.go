package attendance

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date key of a record.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPresent           Status = "PRESENT"
	StatusExceptionApproved Status = "EXCEPTION_APPROVED"
)

// Record is one employee's attendance for one calendar day.
// Pointer fields are absent on legacy rows and on open sessions.
type Record struct {
	ID          string
	EmployeeID  string
	Date        string
	CheckInTime *time.Time // first check-in of the day
	LastInTime  *time.Time // most recent check-in of the current session
	LastOutTime *time.Time
	WorkedHours *string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRecord opens the first session of the day.
func NewRecord(employeeID, date string, ts time.Time, status Status) Record {
	r := Record{EmployeeID: employeeID, Date: date, Status: status}
	r.StartSession(ts)
	return r
}

// StartSession begins a new session at ts. Close-out fields of any earlier
// session that day are cleared.
func (r *Record) StartSession(ts time.Time) {
	if r.CheckInTime == nil {
		first := ts
		r.CheckInTime = &first
	}
	last := ts
	r.LastInTime = &last
	r.LastOutTime = nil
	r.WorkedHours = nil
}

// SessionStart is LastInTime, falling back to CheckInTime for legacy rows.
func (r Record) SessionStart() *time.Time {
	if r.LastInTime != nil {
		return r.LastInTime
	}
	return r.CheckInTime
}

// CloseSession records a check-out at ts and computes the worked duration.
func (r *Record) CloseSession(ts time.Time) error {
	start := r.SessionStart()
	if start == nil {
		return ErrNoOpenSession
	}
	out := ts
	r.LastOutTime = &out
	worked := FormatWorkedDuration(ts.Sub(*start))
	r.WorkedHours = &worked
	return nil
}

// FormatWorkedDuration renders d as H:MM:SS. Hours are not padded or capped;
// negative durations render as 0:00:00.
func FormatWorkedDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// LockKey is the serialization key for mutations of one employee-day.
func LockKey(employeeID, date string) string {
	return "attendance:" + employeeID + ":" + date
}
