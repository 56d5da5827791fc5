package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/fixtures"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/metrics"
)

// HousekeepingJobs keeps derived state current: the pending-queue gauge and
// the zero balance rows every employee gets for the running year.
type HousekeepingJobs struct {
	requestRepo  exception.RequestRepository
	employeeRepo employee.EmployeeRepository
	balanceRepo  leave.BalanceRepository
	metrics      *metrics.Metrics
	loc          *time.Location
	now          func() time.Time
}

func NewHousekeepingJobs(
	requestRepo exception.RequestRepository,
	employeeRepo employee.EmployeeRepository,
	balanceRepo leave.BalanceRepository,
	m *metrics.Metrics,
	loc *time.Location,
) *HousekeepingJobs {
	return &HousekeepingJobs{
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		balanceRepo:  balanceRepo,
		metrics:      m,
		loc:          loc,
		now:          time.Now,
	}
}

func (j *HousekeepingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_pending_exceptions", time.Minute, j.RefreshPendingExceptions)
	scheduler.AddJob("seed_leave_balances", time.Hour, j.SeedLeaveBalances)
}

// RefreshPendingExceptions publishes the queue length as a gauge.
func (j *HousekeepingJobs) RefreshPendingExceptions(ctx context.Context) error {
	pending, err := j.requestRepo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending exception requests: %w", err)
	}
	j.metrics.SetPendingExceptions(len(pending))
	return nil
}

// SeedLeaveBalances stores zero-granted balances for categories an employee
// has no row for in the current year. Existing rows are left untouched.
func (j *HousekeepingJobs) SeedLeaveBalances(ctx context.Context) error {
	year := j.now().In(j.loc).Year()

	employees, err := j.employeeRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	seeded := 0
	for _, e := range employees {
		stored, err := j.balanceRepo.ListByEmployee(ctx, e.ID, year)
		if err != nil {
			return fmt.Errorf("failed to list balances of %s: %w", e.ID, err)
		}
		if len(stored) == len(leave.Categories()) {
			continue
		}
		have := make(map[leave.Category]bool, len(stored))
		for _, b := range stored {
			have[b.Category] = true
		}
		for _, b := range fixtures.DefaultLeaveBalances(e.ID, year) {
			if have[b.Category] {
				continue
			}
			if err := j.balanceRepo.Upsert(ctx, b); err != nil {
				return fmt.Errorf("failed to seed %s balance of %s: %w", b.Category, e.ID, err)
			}
			seeded++
		}
	}

	if seeded > 0 {
		slog.Info("seeded leave balances", "year", year, "rows", seeded)
	}
	return nil
}
