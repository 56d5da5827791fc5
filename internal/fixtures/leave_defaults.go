package fixtures

import (
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// ==========================================
// DEFAULT LEAVE BALANCES
// ==========================================

// DefaultLeaveBalances returns one zero-granted balance per leave category.
// New employees are seeded with these so every category is listed before an
// admin grants anything.
func DefaultLeaveBalances(employeeID string, year int) []leave.Balance {
	balances := make([]leave.Balance, 0, len(leave.Categories()))
	for _, c := range leave.Categories() {
		balances = append(balances, leave.Balance{
			EmployeeID: employeeID,
			Year:       year,
			Category:   c,
			Granted:    decimal.Zero,
			Used:       decimal.Zero,
		})
	}
	return balances
}

// FillMissingBalances appends a zero balance for every category absent from
// stored. The result follows category display order.
func FillMissingBalances(employeeID string, year int, stored []leave.Balance) []leave.Balance {
	byCategory := make(map[leave.Category]leave.Balance, len(stored))
	for _, b := range stored {
		byCategory[b.Category] = b
	}
	result := DefaultLeaveBalances(employeeID, year)
	for i, b := range result {
		if s, ok := byCategory[b.Category]; ok {
			result[i] = s
		}
	}
	return result
}
