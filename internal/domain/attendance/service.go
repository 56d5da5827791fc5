package attendance

import (
	"context"
	"time"
)

// AttendanceService is the employee-facing attendance surface.
type AttendanceService interface {
	// CheckIn gates on the geofence, then opens a new session for today
	CheckIn(ctx context.Context, req CheckInRequest) (CheckResponse, error)

	// CheckOut gates on the geofence, then closes today's session
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckResponse, error)

	GetHistory(ctx context.Context, employeeID string, filter HistoryFilter) ([]AttendanceResponse, error)

	// GetToday returns nil when the employee has no record today
	GetToday(ctx context.Context, employeeID string) (*AttendanceResponse, error)

	GetProfile(ctx context.Context, employeeID string) (ProfileResponse, error)

	ServerTime() ServerTimeResponse
}

// Ledger owns every mutation of attendance records. Mutations for the same
// employee-day are serialized.
type Ledger interface {
	RecordCheckIn(ctx context.Context, employeeID string, ts time.Time) (Record, error)
	RecordCheckOut(ctx context.Context, employeeID string, ts time.Time) (Record, error)
	ApplyExceptionCheckIn(ctx context.Context, employeeID string, date string, scheduled time.Time) (Record, error)
	ApplyExceptionCheckOut(ctx context.Context, employeeID string, date string, scheduled time.Time) (Record, error)

	// LockDay holds the employee-day lock until unlock is called. Ledger
	// calls made with the returned context reuse the held lock.
	LockDay(ctx context.Context, employeeID string, date string) (context.Context, func(), error)

	// DateOf is the ledger date of ts in the configured timezone.
	DateOf(ts time.Time) string
}
