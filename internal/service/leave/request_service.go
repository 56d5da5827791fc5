package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
)

// RequestService moves leave requests through their lifecycle.
type RequestService struct {
	tx database.Transactor
	leave.RequestRepository
	leave.HolidayRepository
	quotaService *QuotaService
	now          func() time.Time
}

func NewRequestService(tx database.Transactor, requestRepository leave.RequestRepository, holidayRepository leave.HolidayRepository, quotaService *QuotaService) *RequestService {
	return &RequestService{
		tx:                tx,
		RequestRepository: requestRepository,
		HolidayRepository: holidayRepository,
		quotaService:      quotaService,
		now:               time.Now,
	}
}

// CountDays is the number of leave days req covers after removing holidays.
func (r *RequestService) CountDays(ctx context.Context, req leave.ApplyRequest) (leave.Request, error) {
	from, err := time.Parse(leave.DateLayout, req.FromDate)
	if err != nil {
		return leave.Request{}, fmt.Errorf("invalid from_date: %w", err)
	}
	to, err := time.Parse(leave.DateLayout, req.ToDate)
	if err != nil {
		return leave.Request{}, fmt.Errorf("invalid to_date: %w", err)
	}

	holidays, err := r.HolidayRepository.ListBetween(ctx, req.FromDate, req.ToDate)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	closed := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		closed[h.Date] = true
	}

	return leave.Request{
		EmployeeID:  req.EmployeeID,
		Category:    req.Category,
		FromDate:    req.FromDate,
		ToDate:      req.ToDate,
		FromSession: req.FromSession,
		ToSession:   req.ToSession,
		Days:        leave.CountDays(from, to, req.FromSession, req.ToSession, closed),
		Reason:      req.Reason,
	}, nil
}

// Apply stores a pending request after checking the balance.
func (r *RequestService) Apply(ctx context.Context, req leave.ApplyRequest) (leave.Request, error) {
	newRequest, err := r.CountDays(ctx, req)
	if err != nil {
		return leave.Request{}, err
	}
	if newRequest.Days.IsZero() {
		return leave.Request{}, leave.ErrNoLeaveDays
	}
	if err := r.quotaService.EnsureAvailable(ctx, newRequest.EmployeeID, newRequest.Year(), newRequest.Category, newRequest.Days); err != nil {
		return leave.Request{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to generate leave id: %w", err)
	}
	newRequest.ID = id.String()
	newRequest.Status = leave.StatusPending
	newRequest.AppliedAt = r.now()

	created, err := r.RequestRepository.Create(ctx, newRequest)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// Withdraw cancels the employee's own pending request.
func (r *RequestService) Withdraw(ctx context.Context, leaveID, employeeID string) (leave.Request, error) {
	return r.transition(ctx, leaveID, func(txCtx context.Context, request *leave.Request) error {
		if request.EmployeeID != employeeID {
			return leave.ErrLeaveRequestNotFound
		}
		request.Status = leave.StatusWithdrawn
		request.ActionBy = &employeeID
		return nil
	})
}

func (r *RequestService) Approve(ctx context.Context, leaveID, approverEmail string) (leave.Request, error) {
	return r.transition(ctx, leaveID, func(txCtx context.Context, request *leave.Request) error {
		if err := r.quotaService.Consume(txCtx, *request); err != nil {
			return err
		}
		request.Status = leave.StatusApproved
		request.ActionBy = &approverEmail
		return nil
	})
}

func (r *RequestService) Reject(ctx context.Context, leaveID, approverEmail string) (leave.Request, error) {
	return r.transition(ctx, leaveID, func(txCtx context.Context, request *leave.Request) error {
		request.Status = leave.StatusRejected
		request.ActionBy = &approverEmail
		return nil
	})
}

// transition locks a pending request, applies change and stamps the action
// time, all in one transaction.
func (r *RequestService) transition(ctx context.Context, leaveID string, change func(context.Context, *leave.Request) error) (leave.Request, error) {
	var updated leave.Request
	err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		request, err := r.RequestRepository.GetForUpdate(txCtx, leaveID)
		if err != nil {
			if errors.Is(err, leave.ErrLeaveRequestNotFound) {
				return err
			}
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if request.Status != leave.StatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		if err := change(txCtx, &request); err != nil {
			return err
		}
		actionAt := r.now()
		request.ActionAt = &actionAt

		if err := r.RequestRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		updated = request
		return nil
	})
	return updated, err
}
