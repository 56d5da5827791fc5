package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/metrics"
	"github.com/pragyatmika/hrms-backend-go/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshPendingExceptions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	requests := memory.NewExceptionRequestRepository(store)
	m := metrics.New(prometheus.NewRegistry())
	jobs := NewHousekeepingJobs(requests, memory.NewEmployeeRepository(store), memory.NewLeaveBalanceRepository(store), m, time.UTC)

	for _, id := range []string{"r1", "r2"} {
		_, err := requests.Create(ctx, exception.Request{ID: id, EmployeeID: "PRAGEMP001", Type: exception.TypeCheckIn, Status: exception.StatusPending})
		require.NoError(t, err)
	}

	require.NoError(t, jobs.RefreshPendingExceptions(ctx))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PendingExceptions))
}

func TestSeedLeaveBalances_KeepsExistingGrants(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	balances := memory.NewLeaveBalanceRepository(store)
	jobs := NewHousekeepingJobs(memory.NewExceptionRequestRepository(store), employees, balances, nil, time.UTC)
	jobs.now = func() time.Time { return time.Date(2027, 1, 1, 0, 30, 0, 0, time.UTC) }

	_, err := employees.Create(ctx, employee.Employee{ID: "PRAGEMP001", Email: "a@example.com"})
	require.NoError(t, err)
	require.NoError(t, balances.Upsert(ctx, leave.Balance{
		EmployeeID: "PRAGEMP001", Year: 2027, Category: leave.CategoryPaidLeave,
		Granted: decimal.NewFromInt(12), Used: decimal.NewFromInt(1),
	}))

	require.NoError(t, jobs.SeedLeaveBalances(ctx))
	require.NoError(t, jobs.SeedLeaveBalances(ctx))

	list, err := balances.ListByEmployee(ctx, "PRAGEMP001", 2027)
	require.NoError(t, err)
	require.Len(t, list, len(leave.Categories()))

	paid, err := balances.Get(ctx, "PRAGEMP001", 2027, leave.CategoryPaidLeave)
	require.NoError(t, err)
	assert.True(t, paid.Granted.Equal(decimal.NewFromInt(12)))
	assert.True(t, paid.Used.Equal(decimal.NewFromInt(1)))
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	var ran []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "first")
		return errors.New("boom")
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "second")
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first: boom")
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
