package leave

import "context"

type LeaveService interface {
	// Balance
	SetBalances(ctx context.Context, req SetBalancesRequest) error
	GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	ListAllBalances(ctx context.Context, year int) ([]BalanceResponse, error)
	DeleteBalances(ctx context.Context, employeeID string, year int) error
	// Request
	Apply(ctx context.Context, req ApplyRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	ListPending(ctx context.Context) ([]LeaveResponse, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (LeaveResponse, error)
	Review(ctx context.Context, req ReviewRequest) (LeaveResponse, error)
	ListHandled(ctx context.Context, employeeID *string) ([]LeaveResponse, error)
	// Holiday
	SetHolidays(ctx context.Context, req SetHolidaysRequest) error
	ListHolidays(ctx context.Context, year int, month *int) ([]HolidayResponse, error)
}
