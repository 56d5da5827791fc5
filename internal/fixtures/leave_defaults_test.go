package fixtures

import (
	"testing"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDefaultLeaveBalances(t *testing.T) {
	balances := DefaultLeaveBalances("PRAGEMP001", 2025)

	assert.Len(t, balances, len(leave.Categories()))
	for i, b := range balances {
		assert.Equal(t, leave.Categories()[i], b.Category)
		assert.True(t, b.Granted.IsZero())
		assert.True(t, b.Remaining().IsZero())
	}
}

func TestFillMissingBalances(t *testing.T) {
	stored := []leave.Balance{{
		EmployeeID: "PRAGEMP001",
		Year:       2025,
		Category:   leave.CategoryPaidLeave,
		Granted:    decimal.NewFromInt(12),
		Used:       decimal.NewFromFloat(1.5),
	}}

	result := FillMissingBalances("PRAGEMP001", 2025, stored)

	assert.Len(t, result, 6)
	assert.Equal(t, leave.CategoryLossOfPay, result[0].Category)
	last := result[len(result)-1]
	assert.Equal(t, leave.CategoryPaidLeave, last.Category)
	assert.Equal(t, "10.5", last.Remaining().String())
}
