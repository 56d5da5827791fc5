package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
)

type adminRepositoryImpl struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) user.AdminRepository {
	return &adminRepositoryImpl{db: db}
}

// Create implements user.AdminRepository.
func (r *adminRepositoryImpl) Create(ctx context.Context, admin user.Admin) (user.Admin, error) {
	q := GetQuerier(ctx, r.db)

	if admin.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return user.Admin{}, fmt.Errorf("failed to generate admin id: %w", err)
		}
		admin.ID = id.String()
	}

	query := `
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, created_at, updated_at
	`

	var created user.Admin
	err := q.QueryRow(ctx, query, admin.ID, admin.Email, admin.PasswordHash).Scan(
		&created.ID,
		&created.Email,
		&created.PasswordHash,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "admins_email_key") {
			return user.Admin{}, user.ErrUserEmailExists
		}
		return user.Admin{}, fmt.Errorf("failed to insert admin: %w", err)
	}

	return created, nil
}

// GetByEmail implements user.AdminRepository.
func (r *adminRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM admins
		WHERE LOWER(email) = LOWER($1)
	`

	var found user.Admin
	err := q.QueryRow(ctx, query, email).Scan(
		&found.ID,
		&found.Email,
		&found.PasswordHash,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Admin{}, user.ErrUserNotFound
		}
		return user.Admin{}, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return found, nil
}
