package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/metrics"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.BalanceRepository
	leave.RequestRepository
	leave.HolidayRepository
	employee.EmployeeRepository
	quotaService   *QuotaService
	requestService *RequestService
	dispatcher     notification.Dispatcher
	metrics        *metrics.Metrics
	loc            *time.Location
}

type Option func(*LeaveServiceImpl)

// WithClock replaces the wall clock used for application and action timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *LeaveServiceImpl) { l.requestService.now = now }
}

func NewLeaveService(
	tx database.Transactor,
	balanceRepository leave.BalanceRepository,
	requestRepository leave.RequestRepository,
	holidayRepository leave.HolidayRepository,
	employeeRepository employee.EmployeeRepository,
	dispatcher notification.Dispatcher,
	m *metrics.Metrics,
	loc *time.Location,
	opts ...Option,
) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	quotaService := NewQuotaService(balanceRepository)
	l := &LeaveServiceImpl{
		tx:                 tx,
		BalanceRepository:  balanceRepository,
		RequestRepository:  requestRepository,
		HolidayRepository:  holidayRepository,
		EmployeeRepository: employeeRepository,
		quotaService:       quotaService,
		requestService:     NewRequestService(tx, requestRepository, holidayRepository, quotaService),
		dispatcher:         dispatcher,
		metrics:            m,
		loc:                loc,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LeaveServiceImpl) requireEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := l.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (l *LeaveServiceImpl) toResponses(list []leave.Request) []leave.LeaveResponse {
	responses := make([]leave.LeaveResponse, 0, len(list))
	for _, r := range list {
		responses = append(responses, leave.ToLeaveResponse(r, l.loc))
	}
	return responses
}

// SetBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) SetBalances(ctx context.Context, req leave.SetBalancesRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := l.requireEmployee(ctx, req.EmployeeID); err != nil {
		return err
	}

	err := l.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return l.quotaService.Grant(txCtx, req.EmployeeID, req.Year, req.Granted)
	})
	if err != nil {
		return err
	}

	slog.Info("leave balances granted", "employee_id", req.EmployeeID, "year", req.Year, "categories", len(req.Granted))
	return nil
}

// GetBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalances(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	if _, err := l.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	balances, err := l.quotaService.Balances(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.ToBalanceResponse(b))
	}
	return responses, nil
}

// ListAllBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) ListAllBalances(ctx context.Context, year int) ([]leave.BalanceResponse, error) {
	balances, err := l.BalanceRepository.ListAll(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.ToBalanceResponse(b))
	}
	return responses, nil
}

// DeleteBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) DeleteBalances(ctx context.Context, employeeID string, year int) error {
	if err := l.BalanceRepository.DeleteByEmployee(ctx, employeeID, year); err != nil {
		return err
	}
	slog.Info("leave balances deleted", "employee_id", employeeID, "year", year)
	return nil
}

// Apply implements leave.LeaveService.
func (l *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, err := l.requireEmployee(ctx, req.EmployeeID); err != nil {
		return leave.LeaveResponse{}, err
	}

	created, err := l.requestService.Apply(ctx, req)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("leave applied",
		"leave_id", created.ID,
		"employee_id", created.EmployeeID,
		"category", created.Category,
		"days", created.Days.String(),
	)
	return leave.ToLeaveResponse(created, l.loc), nil
}

// ListMine implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMine(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	list, err := l.RequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return l.toResponses(list), nil
}

// ListPending implements leave.LeaveService.
func (l *LeaveServiceImpl) ListPending(ctx context.Context) ([]leave.LeaveResponse, error) {
	list, err := l.RequestRepository.ListByStatus(ctx, leave.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return l.toResponses(list), nil
}

// Withdraw implements leave.LeaveService.
func (l *LeaveServiceImpl) Withdraw(ctx context.Context, req leave.WithdrawRequest) (leave.LeaveResponse, error) {
	withdrawn, err := l.requestService.Withdraw(ctx, req.LeaveID, req.EmployeeID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	slog.Info("leave withdrawn", "leave_id", withdrawn.ID, "employee_id", withdrawn.EmployeeID)
	return leave.ToLeaveResponse(withdrawn, l.loc), nil
}

// Review implements leave.LeaveService.
func (l *LeaveServiceImpl) Review(ctx context.Context, req leave.ReviewRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	var reviewed leave.Request
	var err error
	switch req.Action {
	case leave.ActionApprove:
		reviewed, err = l.requestService.Approve(ctx, req.LeaveID, req.ResolverEmail)
	default:
		reviewed, err = l.requestService.Reject(ctx, req.LeaveID, req.ResolverEmail)
	}
	if err != nil {
		l.metrics.IncLeaveReview("failed")
		return leave.LeaveResponse{}, err
	}
	l.metrics.IncLeaveReview(string(reviewed.Status))

	slog.Info("leave reviewed",
		"leave_id", reviewed.ID,
		"employee_id", reviewed.EmployeeID,
		"status", reviewed.Status,
		"resolver", req.ResolverEmail,
	)

	emp, err := l.EmployeeRepository.GetByID(ctx, reviewed.EmployeeID)
	if err != nil {
		slog.Warn("leave resolved for unknown employee, skipping notification", "leave_id", reviewed.ID, "error", err)
	} else {
		l.dispatcher.Dispatch(ctx, notification.LeaveResolved{
			LeaveID:          reviewed.ID,
			EmployeeOrgEmail: emp.Email,
			EmployeeName:     emp.Name,
			ResolverEmail:    req.ResolverEmail,
			Status:           string(reviewed.Status),
			Category:         string(reviewed.Category),
			FromDate:         reviewed.FromDate,
			ToDate:           reviewed.ToDate,
		})
	}

	return leave.ToLeaveResponse(reviewed, l.loc), nil
}

// ListHandled implements leave.LeaveService.
func (l *LeaveServiceImpl) ListHandled(ctx context.Context, employeeID *string) ([]leave.LeaveResponse, error) {
	list, err := l.RequestRepository.ListHandled(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list handled leave requests: %w", err)
	}
	return l.toResponses(list), nil
}

// SetHolidays implements leave.LeaveService.
func (l *LeaveServiceImpl) SetHolidays(ctx context.Context, req leave.SetHolidaysRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	holidays := make([]leave.Holiday, 0, len(req.Holidays))
	for _, h := range req.Holidays {
		holidays = append(holidays, leave.Holiday{Date: h.Date, Year: req.Year, Name: h.Name})
	}

	err := l.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return l.HolidayRepository.ReplacePeriod(txCtx, req.Year, req.Month, holidays)
	})
	if err != nil {
		return fmt.Errorf("failed to replace holidays: %w", err)
	}

	slog.Info("holiday calendar updated", "year", req.Year, "month", req.Month, "count", len(holidays))
	return nil
}

// ListHolidays implements leave.LeaveService.
func (l *LeaveServiceImpl) ListHolidays(ctx context.Context, year int, month *int) ([]leave.HolidayResponse, error) {
	holidays, err := l.HolidayRepository.List(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	responses := make([]leave.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, leave.HolidayResponse{Date: h.Date, Name: h.Name})
	}
	return responses, nil
}
