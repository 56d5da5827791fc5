package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

func attendanceKey(employeeID, date string) string {
	return employeeID + "|" + date
}

// GetForUpdate relies on the transaction holding the whole store.
func (r *attendanceRepository) GetForUpdate(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	return r.GetByEmployeeAndDate(ctx, employeeID, date)
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	var found *attendance.Record
	err := r.store.do(ctx, func(st *state) error {
		if rec, ok := st.attendance[attendanceKey(employeeID, date)]; ok {
			found = &rec
		}
		return nil
	})
	return found, err
}

func (r *attendanceRepository) Upsert(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	err := r.store.do(ctx, func(st *state) error {
		key := attendanceKey(record.EmployeeID, record.Date)
		now := time.Now()
		if current, ok := st.attendance[key]; ok {
			record.ID = current.ID
			record.CreatedAt = current.CreatedAt
		} else {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			record.ID = id.String()
			record.CreatedAt = now
		}
		record.UpdatedAt = now
		st.attendance[key] = record
		return nil
	})
	return record, err
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Record, error) {
	var list []attendance.Record
	err := r.store.do(ctx, func(st *state) error {
		for _, rec := range st.attendance {
			if rec.EmployeeID == employeeID && filter.Contains(rec.Date) {
				list = append(list, rec)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b attendance.Record) int { return strings.Compare(b.Date, a.Date) })
	return list, err
}
