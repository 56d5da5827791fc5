package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
	"github.com/pragyatmika/hrms-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingDispatcher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (d *capturingDispatcher) Dispatch(ctx context.Context, event notification.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

type fixture struct {
	svc        leave.LeaveService
	dispatcher *capturingDispatcher
	now        time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	empRepo := memory.NewEmployeeRepository(store)
	for _, e := range []employee.Employee{
		{ID: "PRAGEMP001", Name: "Asha Rao", Email: "asha@pragyatmika.com"},
		{ID: "PRAGEMP002", Name: "Ravi Kumar", Email: "ravi@pragyatmika.com"},
	} {
		_, err := empRepo.Create(context.Background(), e)
		require.NoError(t, err)
	}

	f := &fixture{
		dispatcher: &capturingDispatcher{},
		now:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewLeaveService(
		memory.NewTransactor(store),
		memory.NewLeaveBalanceRepository(store),
		memory.NewLeaveRequestRepository(store),
		memory.NewHolidayRepository(store),
		empRepo,
		f.dispatcher,
		nil,
		time.UTC,
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) grant(t *testing.T, employeeID string, category leave.Category, days int64) {
	t.Helper()
	err := f.svc.SetBalances(context.Background(), leave.SetBalancesRequest{
		EmployeeID: employeeID,
		Year:       2026,
		Granted:    map[leave.Category]decimal.Decimal{category: decimal.NewFromInt(days)},
	})
	require.NoError(t, err)
}

func (f *fixture) apply(employeeID string, category leave.Category, from, to string) (leave.LeaveResponse, error) {
	return f.svc.Apply(context.Background(), leave.ApplyRequest{
		EmployeeID: employeeID,
		Category:   category,
		FromDate:   from,
		ToDate:     to,
		Reason:     "family function",
	})
}

func balanceOf(t *testing.T, svc leave.LeaveService, employeeID string, category leave.Category) leave.BalanceResponse {
	t.Helper()
	balances, err := svc.GetBalances(context.Background(), employeeID, 2026)
	require.NoError(t, err)
	for _, b := range balances {
		if b.Category == category {
			return b
		}
	}
	t.Fatalf("no %s balance", category)
	return leave.BalanceResponse{}
}

func TestApply_SkipsHolidaysAndHalfDays(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.grant(t, "PRAGEMP001", leave.CategoryPaidLeave, 12)

	require.NoError(t, f.svc.SetHolidays(ctx, leave.SetHolidaysRequest{
		Year:     2026,
		Holidays: []leave.HolidayInput{{Date: "2026-03-04", Name: "Holi"}},
	}))

	resp, err := f.svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID:  "PRAGEMP001",
		Category:    leave.CategoryPaidLeave,
		FromDate:    "2026-03-03",
		ToDate:      "2026-03-06",
		FromSession: leave.SessionSecond,
		ToSession:   leave.SessionSecond,
		Reason:      "trip",
	})
	require.NoError(t, err)
	assert.Equal(t, "2.5", resp.Days.String())
	assert.Equal(t, leave.StatusPending, resp.Status)
}

func TestApply_Rejections(t *testing.T) {
	f := setup(t)
	f.grant(t, "PRAGEMP001", leave.CategoryPaidLeave, 1)

	_, err := f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-03", "2026-03-04")
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	_, err = f.apply("PRAGEMP001", leave.CategoryCompOff, "2026-03-03", "2026-03-03")
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	_, err = f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-05", "2026-03-03")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.apply("PRAGEMP404", leave.CategoryPaidLeave, "2026-03-03", "2026-03-03")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	require.NoError(t, f.svc.SetHolidays(context.Background(), leave.SetHolidaysRequest{
		Year:     2026,
		Holidays: []leave.HolidayInput{{Date: "2026-03-10", Name: "Local festival"}},
	}))
	_, err = f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-10", "2026-03-10")
	assert.ErrorIs(t, err, leave.ErrNoLeaveDays)
}

func TestApply_LossOfPayIgnoresBalance(t *testing.T) {
	f := setup(t)

	resp, err := f.apply("PRAGEMP001", leave.CategoryLossOfPay, "2026-03-03", "2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, "3", resp.Days.String())
}

func TestReview_ApproveConsumesBalance(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.grant(t, "PRAGEMP001", leave.CategoryPaidLeave, 5)

	applied, err := f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-03", "2026-03-04")
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	reviewed, err := f.svc.Review(ctx, leave.ReviewRequest{LeaveID: applied.ID, Action: leave.ActionApprove, ResolverEmail: "hr@pragyatmika.com"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ActionBy)
	assert.Equal(t, "hr@pragyatmika.com", *reviewed.ActionBy)
	require.NotNil(t, reviewed.ActionAt)

	b := balanceOf(t, f.svc, "PRAGEMP001", leave.CategoryPaidLeave)
	assert.Equal(t, "2", b.Used.String())
	assert.Equal(t, "3", b.Balance.String())

	require.Len(t, f.dispatcher.events, 1)
	resolved, ok := f.dispatcher.events[0].(notification.LeaveResolved)
	require.True(t, ok)
	assert.Equal(t, "asha@pragyatmika.com", resolved.EmployeeOrgEmail)
	assert.Equal(t, "APPROVED", resolved.Status)

	_, err = f.svc.Review(ctx, leave.ReviewRequest{LeaveID: applied.ID, Action: leave.ActionReject, ResolverEmail: "hr@pragyatmika.com"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
}

func TestReview_ApproveRechecksBalance(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.grant(t, "PRAGEMP001", leave.CategoryPaidLeave, 2)

	first, err := f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-03", "2026-03-04")
	require.NoError(t, err)
	second, err := f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, leave.ReviewRequest{LeaveID: first.ID, Action: leave.ActionApprove, ResolverEmail: "hr@pragyatmika.com"})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, leave.ReviewRequest{LeaveID: second.ID, Action: leave.ActionApprove, ResolverEmail: "hr@pragyatmika.com"})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestReview_RejectKeepsBalance(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.grant(t, "PRAGEMP001", leave.CategoryPaidLeave, 5)

	applied, err := f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-03", "2026-03-03")
	require.NoError(t, err)

	reviewed, err := f.svc.Review(ctx, leave.ReviewRequest{LeaveID: applied.ID, Action: leave.ActionReject, ResolverEmail: "hr@pragyatmika.com"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, reviewed.Status)

	b := balanceOf(t, f.svc, "PRAGEMP001", leave.CategoryPaidLeave)
	assert.True(t, b.Used.IsZero())

	_, err = f.svc.Review(ctx, leave.ReviewRequest{LeaveID: "missing", Action: leave.ActionApprove, ResolverEmail: "hr@pragyatmika.com"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.grant(t, "PRAGEMP001", leave.CategoryPaidLeave, 5)

	applied, err := f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-03", "2026-03-03")
	require.NoError(t, err)

	_, err = f.svc.Withdraw(ctx, leave.WithdrawRequest{LeaveID: applied.ID, EmployeeID: "PRAGEMP002"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	withdrawn, err := f.svc.Withdraw(ctx, leave.WithdrawRequest{LeaveID: applied.ID, EmployeeID: "PRAGEMP001"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusWithdrawn, withdrawn.Status)

	_, err = f.svc.Withdraw(ctx, leave.WithdrawRequest{LeaveID: applied.ID, EmployeeID: "PRAGEMP001"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
}

func TestListHandled_MostRecentActionFirst(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.grant(t, "PRAGEMP001", leave.CategoryPaidLeave, 10)
	f.grant(t, "PRAGEMP002", leave.CategoryPaidLeave, 10)

	a, err := f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-03", "2026-03-03")
	require.NoError(t, err)
	b, err := f.apply("PRAGEMP002", leave.CategoryPaidLeave, "2026-03-04", "2026-03-04")
	require.NoError(t, err)
	_, err = f.apply("PRAGEMP001", leave.CategoryPaidLeave, "2026-03-05", "2026-03-05")
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	_, err = f.svc.Review(ctx, leave.ReviewRequest{LeaveID: a.ID, Action: leave.ActionApprove, ResolverEmail: "hr@pragyatmika.com"})
	require.NoError(t, err)
	f.now = f.now.Add(time.Hour)
	_, err = f.svc.Review(ctx, leave.ReviewRequest{LeaveID: b.ID, Action: leave.ActionReject, ResolverEmail: "hr@pragyatmika.com"})
	require.NoError(t, err)

	handled, err := f.svc.ListHandled(ctx, nil)
	require.NoError(t, err)
	require.Len(t, handled, 2)
	assert.Equal(t, b.ID, handled[0].ID)
	assert.Equal(t, a.ID, handled[1].ID)

	emp := "PRAGEMP001"
	mine, err := f.svc.ListHandled(ctx, &emp)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	all, err := f.svc.ListMine(ctx, "PRAGEMP001")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHolidays_MonthReplaceKeepsOtherMonths(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.svc.SetHolidays(ctx, leave.SetHolidaysRequest{
		Year: 2026,
		Holidays: []leave.HolidayInput{
			{Date: "2026-01-26", Name: "Republic Day"},
			{Date: "2026-08-15", Name: "Independence Day"},
		},
	}))

	month := 1
	require.NoError(t, f.svc.SetHolidays(ctx, leave.SetHolidaysRequest{
		Year:     2026,
		Month:    &month,
		Holidays: []leave.HolidayInput{{Date: "2026-01-14", Name: "Sankranti"}},
	}))

	all, err := f.svc.ListHolidays(ctx, 2026, nil)
	require.NoError(t, err)
	assert.Equal(t, []leave.HolidayResponse{
		{Date: "2026-01-14", Name: "Sankranti"},
		{Date: "2026-08-15", Name: "Independence Day"},
	}, all)

	january, err := f.svc.ListHolidays(ctx, 2026, &month)
	require.NoError(t, err)
	assert.Len(t, january, 1)
}

func TestBalances_ZeroFilledAndListAll(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	balances, err := f.svc.GetBalances(ctx, "PRAGEMP001", 2026)
	require.NoError(t, err)
	assert.Len(t, balances, len(leave.Categories()))

	f.grant(t, "PRAGEMP002", leave.CategoryCompOff, 2)
	all, err := f.svc.ListAllBalances(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "PRAGEMP002", all[0].EmployeeID)

	_, err = f.svc.GetBalances(ctx, "PRAGEMP404", 2026)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeleteBalances(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.grant(t, "PRAGEMP001", leave.CategoryPaidLeave, 12)
	f.grant(t, "PRAGEMP001", leave.CategoryCompOff, 2)

	require.NoError(t, f.svc.DeleteBalances(ctx, "PRAGEMP001", 2026))

	all, err := f.svc.ListAllBalances(ctx, 2026)
	require.NoError(t, err)
	assert.Empty(t, all)

	err = f.svc.DeleteBalances(ctx, "PRAGEMP001", 2026)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}
