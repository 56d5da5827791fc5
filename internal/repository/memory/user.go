package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
)

type adminRepository struct {
	store *Store
}

func NewAdminRepository(store *Store) user.AdminRepository {
	return &adminRepository{store: store}
}

func (r *adminRepository) Create(ctx context.Context, admin user.Admin) (user.Admin, error) {
	err := r.store.do(ctx, func(st *state) error {
		for _, a := range st.admins {
			if strings.EqualFold(a.Email, admin.Email) {
				return user.ErrUserEmailExists
			}
		}
		if admin.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			admin.ID = id.String()
		}
		now := time.Now()
		admin.CreatedAt, admin.UpdatedAt = now, now
		st.admins[admin.ID] = admin
		return nil
	})
	return admin, err
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (user.Admin, error) {
	var found user.Admin
	err := r.store.do(ctx, func(st *state) error {
		for _, a := range st.admins {
			if strings.EqualFold(a.Email, email) {
				found = a
				return nil
			}
		}
		return user.ErrUserNotFound
	})
	return found, err
}
