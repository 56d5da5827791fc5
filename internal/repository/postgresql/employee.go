package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
)

const employeeColumns = `id, name, email, personal_email, work_lat, work_lng, geofence_radius,
	std_check_in, std_check_out, face_photos, password_hash, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.PersonalEmail,
		&e.WorkLatitude, &e.WorkLongitude, &e.GeofenceRadius,
		&e.StdCheckIn, &e.StdCheckOut, &e.FacePhotos, &e.PasswordHash,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// NextID implements employee.EmployeeRepository. Sequence values are not
// returned on rollback, so identifiers may have gaps.
func (r *employeeRepositoryImpl) NextID(ctx context.Context) (string, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	if err := q.QueryRow(ctx, `SELECT nextval('employee_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to reserve employee id: %w", err)
	}
	return employee.FormatID(n), nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	photos := newEmployee.FacePhotos
	if photos == nil {
		photos = []string{}
	}

	query := `
		INSERT INTO employees (
			id, name, email, personal_email, work_lat, work_lng, geofence_radius,
			std_check_in, std_check_out, face_photos, password_hash
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.PersonalEmail,
		newEmployee.WorkLatitude,
		newEmployee.WorkLongitude,
		newEmployee.GeofenceRadius,
		newEmployee.StdCheckIn,
		newEmployee.StdCheckOut,
		photos,
		newEmployee.PasswordHash,
	))
	if err != nil {
		if isUniqueViolation(err, "employees_email_key") {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return found, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return found, nil
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	photos := e.FacePhotos
	if photos == nil {
		photos = []string{}
	}

	query := `
		UPDATE employees
		SET name = $2, email = $3, personal_email = $4, work_lat = $5, work_lng = $6,
			geofence_radius = $7, std_check_in = $8, std_check_out = $9, face_photos = $10,
			password_hash = $11, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		e.ID, e.Name, e.Email, e.PersonalEmail, e.WorkLatitude, e.WorkLongitude,
		e.GeofenceRadius, e.StdCheckIn, e.StdCheckOut, photos, e.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err, "employees_email_key") {
			return employee.ErrEmailExists
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SetFacePhotos implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetFacePhotos(ctx context.Context, id string, keys []string) error {
	q := GetQuerier(ctx, r.db)

	if keys == nil {
		keys = []string{}
	}

	tag, err := q.Exec(ctx, `UPDATE employees SET face_photos = $2, updated_at = NOW() WHERE id = $1`, id, keys)
	if err != nil {
		return fmt.Errorf("failed to set face photos: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
