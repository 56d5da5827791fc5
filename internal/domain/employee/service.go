package employee

import "context"

type EmployeeService interface {
	Register(ctx context.Context, req RegisterEmployeeRequest) (RegisterEmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
}
