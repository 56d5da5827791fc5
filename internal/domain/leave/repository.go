package leave

import "context"

type BalanceRepository interface {
	// Get returns ErrBalanceNotFound when nothing was granted.
	Get(ctx context.Context, employeeID string, year int, category Category) (Balance, error)
	Upsert(ctx context.Context, balance Balance) error
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]Balance, error)
	ListAll(ctx context.Context, year int) ([]Balance, error)
	// DeleteByEmployee removes every category of the year and returns
	// ErrBalanceNotFound when there was none.
	DeleteByEmployee(ctx context.Context, employeeID string, year int) error
}

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	GetForUpdate(ctx context.Context, id string) (Request, error)
	Update(ctx context.Context, req Request) error

	// ListByEmployee returns newest applications first.
	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
	// ListByStatus returns oldest applications first.
	ListByStatus(ctx context.Context, status Status) ([]Request, error)
	// ListHandled returns actioned requests, most recent action first.
	ListHandled(ctx context.Context, employeeID *string) ([]Request, error)
}

type HolidayRepository interface {
	// ReplacePeriod deletes the holidays of year (or of one month when month
	// is set) and stores holidays in their place.
	ReplacePeriod(ctx context.Context, year int, month *int, holidays []Holiday) error
	List(ctx context.Context, year int, month *int) ([]Holiday, error)
	ListBetween(ctx context.Context, from, to string) ([]Holiday, error)
}
