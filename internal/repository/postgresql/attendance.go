package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
)

const attendanceColumns = `id, employee_id, to_char(date, 'YYYY-MM-DD'), check_in_time, last_in_time,
	last_out_time, worked_hours, status, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Date, &r.CheckInTime, &r.LastInTime,
		&r.LastOutTime, &r.WorkedHours, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// GetForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) GetForUpdate(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	return a.get(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE employee_id = $1 AND date = $2 FOR UPDATE`, employeeID, date)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	return a.get(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE employee_id = $1 AND date = $2`, employeeID, date)
}

func (a *attendanceRepositoryImpl) get(ctx context.Context, query string, employeeID, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	record, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for %s on %s: %w", employeeID, date, err)
	}
	return &record, nil
}

// Upsert implements attendance.AttendanceRepository. An existing row keeps
// its id and created_at.
func (a *attendanceRepositoryImpl) Upsert(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	if record.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		record.ID = id.String()
	}

	query := `
		INSERT INTO attendance (
			id, employee_id, date, check_in_time, last_in_time, last_out_time, worked_hours, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT attendance_employee_date_key DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
			last_in_time = EXCLUDED.last_in_time,
			last_out_time = EXCLUDED.last_out_time,
			worked_hours = EXCLUDED.worked_hours,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.CheckInTime,
		record.LastInTime,
		record.LastOutTime,
		record.WorkedHours,
		record.Status,
	))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return saved, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}
	return records, nil
}
