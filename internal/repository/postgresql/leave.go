package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
)

// categoryOrder sorts balances in display order when passed to array_position.
func categoryOrder() []string {
	categories := leave.Categories()
	order := make([]string, len(categories))
	for i, c := range categories {
		order[i] = string(c)
	}
	return order
}

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(&b.EmployeeID, &b.Year, &b.Category, &b.Granted, &b.Used, &b.UpdatedAt)
	return b, err
}

// Get implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID string, year int, category leave.Category) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, year, category, granted, used, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2 AND category = $3
	`

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, year, category))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// Upsert implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, balance leave.Balance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, year, category, granted, used)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, year, category) DO UPDATE
		SET granted = EXCLUDED.granted, used = EXCLUDED.used, updated_at = NOW()
	`

	_, err := q.Exec(ctx, query, balance.EmployeeID, balance.Year, balance.Category, balance.Granted, balance.Used)
	if err != nil {
		return fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return nil
}

// ListByEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	return r.list(ctx, `
		SELECT employee_id, year, category, granted, used, updated_at
		FROM leave_balances
		WHERE year = $1 AND employee_id = $3
		ORDER BY employee_id, array_position($2::text[], category)
	`, year, categoryOrder(), employeeID)
}

// ListAll implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListAll(ctx context.Context, year int) ([]leave.Balance, error) {
	return r.list(ctx, `
		SELECT employee_id, year, category, granted, used, updated_at
		FROM leave_balances
		WHERE year = $1
		ORDER BY employee_id, array_position($2::text[], category)
	`, year, categoryOrder())
}

// DeleteByEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) DeleteByEmployee(ctx context.Context, employeeID string, year int) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_balances WHERE employee_id = $1 AND year = $2`, employeeID, year)
	if err != nil {
		return fmt.Errorf("failed to delete leave balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave balances: %w", err)
	}
	return balances, nil
}

const leaveRequestColumns = `id, employee_id, category, to_char(from_date, 'YYYY-MM-DD'), to_char(to_date, 'YYYY-MM-DD'),
	from_session, to_session, days, reason, status, applied_at, action_at, action_by`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var l leave.Request
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.Category, &l.FromDate, &l.ToDate,
		&l.FromSession, &l.ToSession, &l.Days, &l.Reason, &l.Status,
		&l.AppliedAt, &l.ActionAt, &l.ActionBy,
	)
	return l, err
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, category, from_date, to_date, from_session, to_session,
			days, reason, status, applied_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.Category, req.FromDate, req.ToDate, req.FromSession, req.ToSession,
		req.Days, req.Reason, req.Status, req.AppliedAt,
	))
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to insert leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	return r.get(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1`, id)
}

// GetForUpdate implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return r.get(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *leaveRequestRepositoryImpl) get(ctx context.Context, query, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return found, nil
}

// Update implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, req leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, action_at = $3, action_by = $4
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, req.ID, req.Status, req.ActionAt, req.ActionBy)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	return r.list(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE employee_id = $1 ORDER BY applied_at DESC`, employeeID)
}

// ListByStatus implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByStatus(ctx context.Context, status leave.Status) ([]leave.Request, error) {
	return r.list(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE status = $1 ORDER BY applied_at ASC`, status)
}

// ListHandled implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListHandled(ctx context.Context, employeeID *string) ([]leave.Request, error) {
	if employeeID != nil {
		return r.list(ctx, `
			SELECT `+leaveRequestColumns+`
			FROM leave_requests
			WHERE action_at IS NOT NULL AND employee_id = $1
			ORDER BY action_at DESC
		`, *employeeID)
	}
	return r.list(ctx, `
		SELECT `+leaveRequestColumns+`
		FROM leave_requests
		WHERE action_at IS NOT NULL
		ORDER BY action_at DESC
	`)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		l, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave requests: %w", err)
	}
	return requests, nil
}

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) leave.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ReplacePeriod implements leave.HolidayRepository. Callers run it inside a
// transaction so the period is never observed half replaced.
func (r *holidayRepositoryImpl) ReplacePeriod(ctx context.Context, year int, month *int, holidays []leave.Holiday) error {
	q := GetQuerier(ctx, r.db)

	var err error
	if month != nil {
		_, err = q.Exec(ctx, `DELETE FROM holidays WHERE year = $1 AND EXTRACT(MONTH FROM date) = $2`, year, *month)
	} else {
		_, err = q.Exec(ctx, `DELETE FROM holidays WHERE year = $1`, year)
	}
	if err != nil {
		return fmt.Errorf("failed to clear holidays: %w", err)
	}

	for _, h := range holidays {
		_, err := q.Exec(ctx, `
			INSERT INTO holidays (date, year, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (date) DO UPDATE SET year = EXCLUDED.year, name = EXCLUDED.name
		`, h.Date, h.Year, h.Name)
		if err != nil {
			return fmt.Errorf("failed to insert holiday %s: %w", h.Date, err)
		}
	}
	return nil
}

// List implements leave.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context, year int, month *int) ([]leave.Holiday, error) {
	if month != nil {
		return r.list(ctx, `
			SELECT to_char(date, 'YYYY-MM-DD'), year, name
			FROM holidays
			WHERE year = $1 AND EXTRACT(MONTH FROM date) = $2
			ORDER BY date
		`, year, *month)
	}
	return r.list(ctx, `SELECT to_char(date, 'YYYY-MM-DD'), year, name FROM holidays WHERE year = $1 ORDER BY date`, year)
}

// ListBetween implements leave.HolidayRepository.
func (r *holidayRepositoryImpl) ListBetween(ctx context.Context, from, to string) ([]leave.Holiday, error) {
	return r.list(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), year, name
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`, from, to)
}

func (r *holidayRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var h leave.Holiday
		if err := rows.Scan(&h.Date, &h.Year, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}
	return holidays, nil
}
