package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
)

const exceptionRequestColumns = `id, employee_id, type, reason, attempted_at, location_lat, location_lng,
	location_failed, face_failed, face_image_key, status, created_at`

type exceptionRequestRepositoryImpl struct {
	db *database.DB
}

func NewExceptionRequestRepository(db *database.DB) exception.RequestRepository {
	return &exceptionRequestRepositoryImpl{db: db}
}

func scanExceptionRequest(row pgx.Row) (exception.Request, error) {
	var r exception.Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Type, &r.Reason, &r.AttemptedAt, &r.Latitude, &r.Longitude,
		&r.LocationFailed, &r.FaceFailed, &r.FaceImageKey, &r.Status, &r.CreatedAt,
	)
	return r, err
}

// Create implements exception.RequestRepository.
func (e *exceptionRequestRepositoryImpl) Create(ctx context.Context, req exception.Request) (exception.Request, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO exception_requests (
			id, employee_id, type, reason, attempted_at, location_lat, location_lng,
			location_failed, face_failed, face_image_key, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + exceptionRequestColumns

	created, err := scanExceptionRequest(q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.Type, req.Reason, req.AttemptedAt, req.Latitude, req.Longitude,
		req.LocationFailed, req.FaceFailed, req.FaceImageKey, req.Status,
	))
	if err != nil {
		return exception.Request{}, fmt.Errorf("failed to insert exception request: %w", err)
	}
	return created, nil
}

// GetByID implements exception.RequestRepository.
func (e *exceptionRequestRepositoryImpl) GetByID(ctx context.Context, id string) (exception.Request, error) {
	return e.get(ctx, `SELECT `+exceptionRequestColumns+` FROM exception_requests WHERE id = $1`, id)
}

// GetForUpdate implements exception.RequestRepository.
func (e *exceptionRequestRepositoryImpl) GetForUpdate(ctx context.Context, id string) (exception.Request, error) {
	return e.get(ctx, `SELECT `+exceptionRequestColumns+` FROM exception_requests WHERE id = $1 FOR UPDATE`, id)
}

func (e *exceptionRequestRepositoryImpl) get(ctx context.Context, query, id string) (exception.Request, error) {
	q := GetQuerier(ctx, e.db)

	found, err := scanExceptionRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exception.Request{}, exception.ErrRequestNotFound
		}
		return exception.Request{}, fmt.Errorf("failed to get exception request: %w", err)
	}
	return found, nil
}

// ListPending implements exception.RequestRepository.
func (e *exceptionRequestRepositoryImpl) ListPending(ctx context.Context) ([]exception.Request, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `
		SELECT `+exceptionRequestColumns+`
		FROM exception_requests
		WHERE status = $1
		ORDER BY attempted_at ASC
	`, exception.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending exception requests: %w", err)
	}
	defer rows.Close()

	var requests []exception.Request
	for rows.Next() {
		r, err := scanExceptionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exception request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exception requests: %w", err)
	}
	return requests, nil
}

// Delete implements exception.RequestRepository.
func (e *exceptionRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM exception_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exception request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return exception.ErrRequestNotFound
	}
	return nil
}

const archiveColumns = `id, request_id, employee_id, type, reason, attempted_at, location_lat, location_lng,
	location_failed, face_failed, face_image_key, status, resolved_at, resolved_by`

type exceptionArchiveRepositoryImpl struct {
	db *database.DB
}

func NewExceptionArchiveRepository(db *database.DB) exception.ArchiveRepository {
	return &exceptionArchiveRepositoryImpl{db: db}
}

func scanArchiveEntry(row pgx.Row) (exception.ArchiveEntry, error) {
	var a exception.ArchiveEntry
	err := row.Scan(
		&a.ID, &a.RequestID, &a.EmployeeID, &a.Type, &a.Reason, &a.AttemptedAt, &a.Latitude, &a.Longitude,
		&a.LocationFailed, &a.FaceFailed, &a.FaceImageKey, &a.Status, &a.ResolvedAt, &a.ResolvedBy,
	)
	return a, err
}

// Create implements exception.ArchiveRepository.
func (e *exceptionArchiveRepositoryImpl) Create(ctx context.Context, entry exception.ArchiveEntry) (exception.ArchiveEntry, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO exception_archive (
			id, request_id, employee_id, type, reason, attempted_at, location_lat, location_lng,
			location_failed, face_failed, face_image_key, status, resolved_at, resolved_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + archiveColumns

	created, err := scanArchiveEntry(q.QueryRow(ctx, query,
		entry.ID, entry.RequestID, entry.EmployeeID, entry.Type, entry.Reason, entry.AttemptedAt,
		entry.Latitude, entry.Longitude, entry.LocationFailed, entry.FaceFailed, entry.FaceImageKey,
		entry.Status, entry.ResolvedAt, entry.ResolvedBy,
	))
	if err != nil {
		if isUniqueViolation(err, "exception_archive_request_id_key") {
			return exception.ArchiveEntry{}, exception.ErrAlreadyProcessed
		}
		return exception.ArchiveEntry{}, fmt.Errorf("failed to archive exception request: %w", err)
	}
	return created, nil
}

// List implements exception.ArchiveRepository.
func (e *exceptionArchiveRepositoryImpl) List(ctx context.Context, filter exception.ArchiveFilter) ([]exception.ArchiveEntry, error) {
	q := GetQuerier(ctx, e.db)

	var conditions []string
	var args []interface{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}

	query := `SELECT ` + archiveColumns + ` FROM exception_archive`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY resolved_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exception archive: %w", err)
	}
	defer rows.Close()

	var entries []exception.ArchiveEntry
	for rows.Next() {
		a, err := scanArchiveEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive entry: %w", err)
		}
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archive entries: %w", err)
	}
	return entries, nil
}
