package exception

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
)

// Resolve implements exception.ExceptionService. The ledger mutation, the
// archive insert and the queue delete commit together or not at all.
func (s *ExceptionServiceImpl) Resolve(ctx context.Context, req exception.ReviewRequest) (exception.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return exception.ReviewResponse{}, err
	}
	started := s.now()

	resp, err := s.resolve(ctx, req)
	if err != nil {
		s.metrics.IncResolution(failureLabel(err))
		return exception.ReviewResponse{}, err
	}
	s.metrics.IncResolution(strings.ToLower(string(resp.Status)))
	s.metrics.ObserveResolveLatency(s.now().Sub(started))
	return resp, nil
}

func (s *ExceptionServiceImpl) resolve(ctx context.Context, req exception.ReviewRequest) (exception.ReviewResponse, error) {
	pending, err := s.requests.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, exception.ErrRequestNotFound) {
			return exception.ReviewResponse{}, exception.ErrRequestNotFound
		}
		return exception.ReviewResponse{}, fmt.Errorf("failed to get exception request: %w", err)
	}

	emp, err := s.employees.GetByID(ctx, pending.EmployeeID)
	if err != nil {
		return exception.ReviewResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	// Scheduled times apply to the day of the original attempt.
	date := s.ledger.DateOf(pending.AttemptedAt)

	if req.Action == exception.ActionApprove {
		lockedCtx, unlock, err := s.ledger.LockDay(ctx, emp.ID, date)
		if err != nil {
			return exception.ReviewResponse{}, err
		}
		defer unlock()
		ctx = lockedCtx
	}

	status := req.Action.Outcome()
	var record *attendance.Record

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.requests.GetForUpdate(ctx, req.RequestID)
		if err != nil {
			if errors.Is(err, exception.ErrRequestNotFound) {
				return exception.ErrRequestNotFound
			}
			return fmt.Errorf("failed to lock exception request: %w", err)
		}
		if current.Status != exception.StatusPending {
			return exception.ErrAlreadyProcessed
		}

		if req.Action == exception.ActionApprove {
			rec, err := s.applyToLedger(ctx, current, emp, date)
			if err != nil {
				return err
			}
			record = &rec
		}

		entryID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate archive id: %w", err)
		}
		if _, err := s.archive.Create(ctx, exception.Archive(entryID.String(), current, status, req.ResolverEmail, s.now())); err != nil {
			if errors.Is(err, exception.ErrAlreadyProcessed) {
				return exception.ErrAlreadyProcessed
			}
			return fmt.Errorf("failed to archive exception request: %w", err)
		}

		if err := s.requests.Delete(ctx, current.ID); err != nil {
			if errors.Is(err, exception.ErrRequestNotFound) {
				return exception.ErrAlreadyProcessed
			}
			return fmt.Errorf("failed to remove exception request: %w", err)
		}
		return nil
	})
	if err != nil {
		return exception.ReviewResponse{}, err
	}

	slog.Info("exception request resolved",
		"request_id", pending.ID,
		"employee_id", emp.ID,
		"type", pending.Type,
		"status", status,
		"resolved_by", req.ResolverEmail,
	)

	s.dispatcher.Dispatch(ctx, notification.RequestResolved{
		RequestID:        pending.ID,
		EmployeeOrgEmail: emp.Email,
		EmployeeName:     emp.Name,
		ResolverEmail:    req.ResolverEmail,
		Status:           string(status),
		RequestType:      string(pending.Type),
		Date:             date,
	})

	resp := exception.ReviewResponse{
		RequestID: pending.ID,
		Status:    status,
		Date:      date,
	}
	if record != nil {
		r := attendance.ToResponse(*record, s.loc)
		resp.Record = &r
	}
	return resp, nil
}

// applyToLedger writes the employee's standard time for the request type.
func (s *ExceptionServiceImpl) applyToLedger(ctx context.Context, req exception.Request, emp employee.Employee, date string) (attendance.Record, error) {
	switch req.Type {
	case exception.TypeCheckIn:
		scheduled, err := employee.ScheduledAt(date, emp.StdCheckIn, s.loc)
		if err != nil {
			return attendance.Record{}, err
		}
		return s.ledger.ApplyExceptionCheckIn(ctx, emp.ID, date, scheduled)
	case exception.TypeCheckOut:
		scheduled, err := employee.ScheduledAt(date, emp.StdCheckOut, s.loc)
		if err != nil {
			return attendance.Record{}, err
		}
		return s.ledger.ApplyExceptionCheckOut(ctx, emp.ID, date, scheduled)
	default:
		return attendance.Record{}, fmt.Errorf("unknown request type %q", req.Type)
	}
}

func failureLabel(err error) string {
	switch {
	case errors.Is(err, exception.ErrRequestNotFound):
		return "not_found"
	case errors.Is(err, exception.ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, attendance.ErrNoPriorCheckIn):
		return "no_prior_check_in"
	default:
		return "error"
	}
}
