package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/keylock"
)

type heldKey string

// LedgerImpl serializes every read-modify-write of an employee-day with a
// keyed lock around a transaction that re-reads the row FOR UPDATE.
type LedgerImpl struct {
	attendance.AttendanceRepository
	tx     database.Transactor
	locker keylock.Locker
	loc    *time.Location
}

func NewLedger(repo attendance.AttendanceRepository, tx database.Transactor, locker keylock.Locker, loc *time.Location) attendance.Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerImpl{
		AttendanceRepository: repo,
		tx:                   tx,
		locker:               locker,
		loc:                  loc,
	}
}

// DateOf implements attendance.Ledger.
func (l *LedgerImpl) DateOf(ts time.Time) string {
	return ts.In(l.loc).Format(attendance.DateLayout)
}

// LockDay implements attendance.Ledger.
func (l *LedgerImpl) LockDay(ctx context.Context, employeeID string, date string) (context.Context, func(), error) {
	key := attendance.LockKey(employeeID, date)
	if ctx.Value(heldKey(key)) != nil {
		return ctx, func() {}, nil
	}
	unlock, err := l.locker.Lock(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock attendance day: %w", err)
	}
	return context.WithValue(ctx, heldKey(key), true), unlock, nil
}

// mutate runs fn on the current record of the day (nil if none) and stores
// the record fn returns.
func (l *LedgerImpl) mutate(ctx context.Context, employeeID, date string, fn func(rec *attendance.Record) (attendance.Record, error)) (attendance.Record, error) {
	ctx, unlock, err := l.LockDay(ctx, employeeID, date)
	if err != nil {
		return attendance.Record{}, err
	}
	defer unlock()

	var saved attendance.Record
	err = l.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := l.AttendanceRepository.GetForUpdate(ctx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		saved, err = l.AttendanceRepository.Upsert(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to save attendance record: %w", err)
		}
		return nil
	})
	return saved, err
}

// RecordCheckIn implements attendance.Ledger.
func (l *LedgerImpl) RecordCheckIn(ctx context.Context, employeeID string, ts time.Time) (attendance.Record, error) {
	date := l.DateOf(ts)
	return l.mutate(ctx, employeeID, date, func(rec *attendance.Record) (attendance.Record, error) {
		if rec == nil {
			return attendance.NewRecord(employeeID, date, ts, attendance.StatusPresent), nil
		}
		rec.StartSession(ts)
		return *rec, nil
	})
}

// RecordCheckOut implements attendance.Ledger.
func (l *LedgerImpl) RecordCheckOut(ctx context.Context, employeeID string, ts time.Time) (attendance.Record, error) {
	date := l.DateOf(ts)
	return l.mutate(ctx, employeeID, date, func(rec *attendance.Record) (attendance.Record, error) {
		if rec == nil {
			return attendance.Record{}, attendance.ErrNoOpenSession
		}
		if err := rec.CloseSession(ts); err != nil {
			return attendance.Record{}, err
		}
		return *rec, nil
	})
}

// ApplyExceptionCheckIn implements attendance.Ledger.
func (l *LedgerImpl) ApplyExceptionCheckIn(ctx context.Context, employeeID string, date string, scheduled time.Time) (attendance.Record, error) {
	return l.mutate(ctx, employeeID, date, func(rec *attendance.Record) (attendance.Record, error) {
		if rec == nil {
			return attendance.NewRecord(employeeID, date, scheduled, attendance.StatusExceptionApproved), nil
		}
		rec.StartSession(scheduled)
		rec.Status = attendance.StatusExceptionApproved
		return *rec, nil
	})
}

// ApplyExceptionCheckOut implements attendance.Ledger.
func (l *LedgerImpl) ApplyExceptionCheckOut(ctx context.Context, employeeID string, date string, scheduled time.Time) (attendance.Record, error) {
	return l.mutate(ctx, employeeID, date, func(rec *attendance.Record) (attendance.Record, error) {
		if rec == nil {
			return attendance.Record{}, attendance.ErrNoPriorCheckIn
		}
		if err := rec.CloseSession(scheduled); err != nil {
			if errors.Is(err, attendance.ErrNoOpenSession) {
				return attendance.Record{}, attendance.ErrNoPriorCheckIn
			}
			return attendance.Record{}, err
		}
		return *rec, nil
	})
}
