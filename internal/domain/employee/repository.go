package employee

import "context"

type EmployeeRepository interface {
	// NextID reserves the next PRAGEMP identifier.
	NextID(ctx context.Context) (string, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e Employee) error
	SetFacePhotos(ctx context.Context, id string, keys []string) error
}
