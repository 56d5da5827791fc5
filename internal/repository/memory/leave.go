package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
)

type leaveBalanceRepository struct {
	store *Store
}

func NewLeaveBalanceRepository(store *Store) leave.BalanceRepository {
	return &leaveBalanceRepository{store: store}
}

func balanceKey(employeeID string, year int, category leave.Category) string {
	return fmt.Sprintf("%s|%d|%s", employeeID, year, category)
}

func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID string, year int, category leave.Category) (leave.Balance, error) {
	var found leave.Balance
	err := r.store.do(ctx, func(st *state) error {
		b, ok := st.balances[balanceKey(employeeID, year, category)]
		if !ok {
			return leave.ErrBalanceNotFound
		}
		found = b
		return nil
	})
	return found, err
}

func (r *leaveBalanceRepository) Upsert(ctx context.Context, balance leave.Balance) error {
	return r.store.do(ctx, func(st *state) error {
		balance.UpdatedAt = time.Now()
		st.balances[balanceKey(balance.EmployeeID, balance.Year, balance.Category)] = balance
		return nil
	})
}

func (r *leaveBalanceRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	var list []leave.Balance
	err := r.store.do(ctx, func(st *state) error {
		for _, b := range st.balances {
			if b.EmployeeID == employeeID && b.Year == year {
				list = append(list, b)
			}
		}
		return nil
	})
	sortBalances(list)
	return list, err
}

func (r *leaveBalanceRepository) ListAll(ctx context.Context, year int) ([]leave.Balance, error) {
	var list []leave.Balance
	err := r.store.do(ctx, func(st *state) error {
		for _, b := range st.balances {
			if b.Year == year {
				list = append(list, b)
			}
		}
		return nil
	})
	sortBalances(list)
	return list, err
}

func (r *leaveBalanceRepository) DeleteByEmployee(ctx context.Context, employeeID string, year int) error {
	return r.store.do(ctx, func(st *state) error {
		deleted := 0
		for key, b := range st.balances {
			if b.EmployeeID == employeeID && b.Year == year {
				delete(st.balances, key)
				deleted++
			}
		}
		if deleted == 0 {
			return leave.ErrBalanceNotFound
		}
		return nil
	})
}

func sortBalances(list []leave.Balance) {
	order := make(map[leave.Category]int)
	for i, c := range leave.Categories() {
		order[c] = i
	}
	slices.SortFunc(list, func(a, b leave.Balance) int {
		if c := strings.Compare(a.EmployeeID, b.EmployeeID); c != 0 {
			return c
		}
		return order[a.Category] - order[b.Category]
	})
}

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.RequestRepository {
	return &leaveRequestRepository{store: store}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	err := r.store.do(ctx, func(st *state) error {
		st.leaves[req.ID] = req
		return nil
	})
	return req, err
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	var found leave.Request
	err := r.store.do(ctx, func(st *state) error {
		req, ok := st.leaves[id]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		found = req
		return nil
	})
	return found, err
}

func (r *leaveRequestRepository) GetForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepository) Update(ctx context.Context, req leave.Request) error {
	return r.store.do(ctx, func(st *state) error {
		if _, ok := st.leaves[req.ID]; !ok {
			return leave.ErrLeaveRequestNotFound
		}
		st.leaves[req.ID] = req
		return nil
	})
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	list, err := r.filter(ctx, func(req leave.Request) bool { return req.EmployeeID == employeeID })
	slices.SortFunc(list, func(a, b leave.Request) int { return b.AppliedAt.Compare(a.AppliedAt) })
	return list, err
}

func (r *leaveRequestRepository) ListByStatus(ctx context.Context, status leave.Status) ([]leave.Request, error) {
	list, err := r.filter(ctx, func(req leave.Request) bool { return req.Status == status })
	slices.SortFunc(list, func(a, b leave.Request) int { return a.AppliedAt.Compare(b.AppliedAt) })
	return list, err
}

func (r *leaveRequestRepository) ListHandled(ctx context.Context, employeeID *string) ([]leave.Request, error) {
	list, err := r.filter(ctx, func(req leave.Request) bool {
		if req.ActionAt == nil {
			return false
		}
		return employeeID == nil || req.EmployeeID == *employeeID
	})
	slices.SortFunc(list, func(a, b leave.Request) int { return b.ActionAt.Compare(*a.ActionAt) })
	return list, err
}

func (r *leaveRequestRepository) filter(ctx context.Context, keep func(leave.Request) bool) ([]leave.Request, error) {
	var list []leave.Request
	err := r.store.do(ctx, func(st *state) error {
		for _, req := range st.leaves {
			if keep(req) {
				list = append(list, req)
			}
		}
		return nil
	})
	return list, err
}

type holidayRepository struct {
	store *Store
}

func NewHolidayRepository(store *Store) leave.HolidayRepository {
	return &holidayRepository{store: store}
}

func periodPrefix(year int, month *int) string {
	if month != nil {
		return fmt.Sprintf("%04d-%02d-", year, *month)
	}
	return fmt.Sprintf("%04d-", year)
}

func (r *holidayRepository) ReplacePeriod(ctx context.Context, year int, month *int, holidays []leave.Holiday) error {
	prefix := periodPrefix(year, month)
	return r.store.do(ctx, func(st *state) error {
		for date := range st.holidays {
			if strings.HasPrefix(date, prefix) {
				delete(st.holidays, date)
			}
		}
		for _, h := range holidays {
			st.holidays[h.Date] = h
		}
		return nil
	})
}

func (r *holidayRepository) List(ctx context.Context, year int, month *int) ([]leave.Holiday, error) {
	prefix := periodPrefix(year, month)
	return r.collect(ctx, func(h leave.Holiday) bool { return strings.HasPrefix(h.Date, prefix) })
}

func (r *holidayRepository) ListBetween(ctx context.Context, from, to string) ([]leave.Holiday, error) {
	return r.collect(ctx, func(h leave.Holiday) bool { return from <= h.Date && h.Date <= to })
}

func (r *holidayRepository) collect(ctx context.Context, keep func(leave.Holiday) bool) ([]leave.Holiday, error) {
	var list []leave.Holiday
	err := r.store.do(ctx, func(st *state) error {
		for _, h := range st.holidays {
			if keep(h) {
				list = append(list, h)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b leave.Holiday) int { return strings.Compare(a.Date, b.Date) })
	return list, err
}
