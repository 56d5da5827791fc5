package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/keylock"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/storage"
	"github.com/pragyatmika/hrms-backend-go/internal/repository/memory"
	"github.com/pragyatmika/hrms-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

const (
	siteLat = 12.9716
	siteLng = 77.5946
)

type fixture struct {
	svc    attendance.AttendanceService
	ledger attendance.Ledger
	repo   attendance.AttendanceRepository
	now    time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	empRepo := memory.NewEmployeeRepository(store)
	attRepo := memory.NewAttendanceRepository(store)

	_, err := empRepo.Create(context.Background(), employee.Employee{
		ID:             "PRAGEMP001",
		Name:           "Asha Rao",
		Email:          "asha@pragyatmika.com",
		WorkLatitude:   siteLat,
		WorkLongitude:  siteLng,
		GeofenceRadius: 100,
		StdCheckIn:     "09:30",
		StdCheckOut:    "18:30",
	})
	require.NoError(t, err)

	fs, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	f := &fixture{
		repo: attRepo,
		now:  time.Date(2026, 1, 5, 9, 0, 0, 0, ist),
	}
	f.ledger = NewLedger(attRepo, memory.NewTransactor(store), keylock.NewLocal(), ist)
	f.svc = NewAttendanceService(attRepo, empRepo, f.ledger, file.NewFileService(fs), nil, ist,
		WithClock(func() time.Time { return f.now }))
	return f
}

func TestCheckIn_OutsideFence(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// 0.001 degrees north of the site is about 111 m away
	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{
		EmployeeID: "PRAGEMP001",
		Latitude:   siteLat + 0.001,
		Longitude:  siteLng,
	})
	require.ErrorIs(t, err, attendance.ErrOutOfGeofence)

	var geoErr *attendance.OutOfGeofenceError
	require.True(t, errors.As(err, &geoErr))
	assert.InDelta(t, 111.19, geoErr.Distance, 0.5)
	assert.Equal(t, "location violation: you are 111m away from work location", err.Error())

	rec, err := f.repo.GetByEmployeeAndDate(ctx, "PRAGEMP001", "2026-01-05")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCheckIn_UnknownEmployee(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{
		EmployeeID: "PRAGEMP999",
		Latitude:   siteLat,
		Longitude:  siteLng,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCheckIn_InvalidCoordinate(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{
		EmployeeID: "PRAGEMP001",
		Latitude:   91,
		Longitude:  siteLng,
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, attendance.ErrOutOfGeofence)
}

func TestCheckInCheckOut_SecondCheckInResetsSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	at := attendance.CheckInRequest{EmployeeID: "PRAGEMP001", Latitude: siteLat, Longitude: siteLng}

	resp, err := f.svc.CheckIn(ctx, at)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Record.Status)

	f.now = time.Date(2026, 1, 5, 18, 30, 45, 0, ist)
	out, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "PRAGEMP001", Latitude: siteLat, Longitude: siteLng})
	require.NoError(t, err)
	require.NotNil(t, out.Record.WorkedHours)
	assert.Equal(t, "9:30:45", *out.Record.WorkedHours)

	f.now = time.Date(2026, 1, 5, 19, 0, 0, 0, ist)
	_, err = f.svc.CheckIn(ctx, at)
	require.NoError(t, err)

	rec, err := f.repo.GetByEmployeeAndDate(ctx, "PRAGEMP001", "2026-01-05")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Nil(t, rec.LastOutTime)
	assert.Nil(t, rec.WorkedHours)
	assert.True(t, rec.CheckInTime.Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, ist)))
	assert.True(t, rec.LastInTime.Equal(f.now))
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "PRAGEMP001", Latitude: siteLat, Longitude: siteLng})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)

	rec, err := f.repo.GetByEmployeeAndDate(ctx, "PRAGEMP001", "2026-01-05")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetHistory_InclusiveNewestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, day := range []int{30, 31, 32} {
		ts := time.Date(2025, 1, day, 9, 0, 0, 0, ist)
		_, err := f.ledger.RecordCheckIn(ctx, "PRAGEMP001", ts)
		require.NoError(t, err)
	}

	history, err := f.svc.GetHistory(ctx, "PRAGEMP001", attendance.HistoryFilter{From: "2025-01-01", To: "2025-01-31"})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2025-01-31", history[0].Date)
	assert.Equal(t, "2025-01-30", history[1].Date)
}

func TestLedger_DateUsesConfiguredZone(t *testing.T) {
	f := setup(t)

	// 20:00 UTC is already the next day in IST
	ts := time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)
	rec, err := f.ledger.RecordCheckIn(context.Background(), "PRAGEMP001", ts)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-06", rec.Date)
}

func TestLedger_ExceptionCheckOutWithoutRecord(t *testing.T) {
	f := setup(t)

	_, err := f.ledger.ApplyExceptionCheckOut(context.Background(), "PRAGEMP001", "2026-01-05",
		time.Date(2026, 1, 5, 18, 30, 0, 0, ist))
	assert.ErrorIs(t, err, attendance.ErrNoPriorCheckIn)
}

func TestLedger_ExceptionCheckInMarksStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	scheduled := time.Date(2026, 1, 5, 9, 30, 0, 0, ist)

	rec, err := f.ledger.ApplyExceptionCheckIn(ctx, "PRAGEMP001", "2026-01-05", scheduled)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusExceptionApproved, rec.Status)
	assert.True(t, rec.LastInTime.Equal(scheduled))

	rec, err = f.ledger.ApplyExceptionCheckOut(ctx, "PRAGEMP001", "2026-01-05", scheduled.Add(9*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, rec.WorkedHours)
	assert.Equal(t, "9:00:00", *rec.WorkedHours)
}

func TestLedger_ConcurrentCheckInsKeepOneRecord(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ts := time.Date(2026, 1, 5, 9, i, 0, 0, ist)
			_, err := f.ledger.RecordCheckIn(ctx, "PRAGEMP001", ts)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := f.svc.GetHistory(ctx, "PRAGEMP001", attendance.HistoryFilter{From: "2026-01-05", To: "2026-01-05"})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestServerTime(t *testing.T) {
	f := setup(t)

	st := f.svc.ServerTime()
	assert.Equal(t, "2026-01-05", st.LocalDate)
	assert.Equal(t, "2026-01-05T09:00:00+05:30", st.ISOTime)
}
