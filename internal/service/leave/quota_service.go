package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/fixtures"
	"github.com/shopspring/decimal"
)

// QuotaService keeps granted and used leave per employee, year and category.
type QuotaService struct {
	leave.BalanceRepository
}

func NewQuotaService(balanceRepository leave.BalanceRepository) *QuotaService {
	return &QuotaService{BalanceRepository: balanceRepository}
}

// Grant sets the granted days of each category, keeping what was already used.
func (q *QuotaService) Grant(ctx context.Context, employeeID string, year int, granted map[leave.Category]decimal.Decimal) error {
	for _, category := range leave.Categories() {
		days, ok := granted[category]
		if !ok {
			continue
		}
		balance, err := q.BalanceRepository.Get(ctx, employeeID, year, category)
		if err != nil && !errors.Is(err, leave.ErrBalanceNotFound) {
			return fmt.Errorf("failed to get %s balance: %w", category, err)
		}
		balance.EmployeeID = employeeID
		balance.Year = year
		balance.Category = category
		balance.Granted = days
		if err := q.BalanceRepository.Upsert(ctx, balance); err != nil {
			return fmt.Errorf("failed to save %s balance: %w", category, err)
		}
	}
	return nil
}

// Balances lists every category for the employee, zero-filled.
func (q *QuotaService) Balances(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	stored, err := q.BalanceRepository.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return fixtures.FillMissingBalances(employeeID, year, stored), nil
}

// EnsureAvailable returns ErrInsufficientBalance when days exceed what
// remains of the category. Loss of Pay is never limited.
func (q *QuotaService) EnsureAvailable(ctx context.Context, employeeID string, year int, category leave.Category, days decimal.Decimal) error {
	if !category.RequiresBalance() {
		return nil
	}
	balance, err := q.BalanceRepository.Get(ctx, employeeID, year, category)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return leave.ErrInsufficientBalance
		}
		return fmt.Errorf("failed to get balance: %w", err)
	}
	if balance.Remaining().LessThan(days) {
		return leave.ErrInsufficientBalance
	}
	return nil
}

// Consume charges an approved request against its balance.
func (q *QuotaService) Consume(ctx context.Context, req leave.Request) error {
	year := req.Year()
	if err := q.EnsureAvailable(ctx, req.EmployeeID, year, req.Category, req.Days); err != nil {
		return err
	}
	balance, err := q.BalanceRepository.Get(ctx, req.EmployeeID, year, req.Category)
	if err != nil {
		if !errors.Is(err, leave.ErrBalanceNotFound) {
			return fmt.Errorf("failed to get balance: %w", err)
		}
		balance = leave.Balance{EmployeeID: req.EmployeeID, Year: year, Category: req.Category}
	}
	balance.Used = balance.Used.Add(req.Days)
	if err := q.BalanceRepository.Upsert(ctx, balance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}
