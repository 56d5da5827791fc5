package attendance

import (
	"context"
)

// AttendanceRepository stores one record per (employee, date).
type AttendanceRepository interface {
	// GetForUpdate returns the record and locks it until the enclosing
	// transaction ends. Returns nil, nil when there is no record.
	GetForUpdate(ctx context.Context, employeeID string, date string) (*Record, error)

	// GetByEmployeeAndDate returns nil, nil when there is no record.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*Record, error)

	// Upsert inserts or replaces the record keyed by (employee, date).
	Upsert(ctx context.Context, record Record) (Record, error)

	// ListByEmployee returns records with From <= date <= To, newest first.
	ListByEmployee(ctx context.Context, employeeID string, filter HistoryFilter) ([]Record, error)
}
