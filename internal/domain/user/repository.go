package user

import "context"

type AdminRepository interface {
	Create(ctx context.Context, admin Admin) (Admin, error)
	GetByEmail(ctx context.Context, email string) (Admin, error)
}
