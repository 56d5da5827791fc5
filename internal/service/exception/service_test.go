package exception

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/keylock"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/storage"
	"github.com/pragyatmika/hrms-backend-go/internal/repository/memory"
	attendancesvc "github.com/pragyatmika/hrms-backend-go/internal/service/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/service/file"
	notificationsvc "github.com/pragyatmika/hrms-backend-go/internal/service/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type capturingDispatcher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (d *capturingDispatcher) Dispatch(ctx context.Context, event notification.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *capturingDispatcher) last() notification.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.events) == 0 {
		return nil
	}
	return d.events[len(d.events)-1]
}

type fixture struct {
	svc        exception.ExceptionService
	ledger     attendance.Ledger
	attendance attendance.AttendanceRepository
	archive    exception.ArchiveRepository
	dispatcher *capturingDispatcher
	now        time.Time
}

func setup(t *testing.T, dispatcher notification.Dispatcher) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTransactor(store)
	empRepo := memory.NewEmployeeRepository(store)
	attRepo := memory.NewAttendanceRepository(store)

	_, err := empRepo.Create(context.Background(), employee.Employee{
		ID:             "PRAGEMP001",
		Name:           "Asha Rao",
		Email:          "asha@pragyatmika.com",
		WorkLatitude:   12.9716,
		WorkLongitude:  77.5946,
		GeofenceRadius: 100,
		StdCheckIn:     "09:30",
		StdCheckOut:    "18:30",
	})
	require.NoError(t, err)

	fs, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	f := &fixture{
		attendance: attRepo,
		archive:    memory.NewExceptionArchiveRepository(store),
		now:        time.Date(2026, 1, 5, 23, 30, 0, 0, ist),
	}
	if dispatcher == nil {
		f.dispatcher = &capturingDispatcher{}
		dispatcher = f.dispatcher
	}
	f.ledger = attendancesvc.NewLedger(attRepo, tx, keylock.NewLocal(), ist)
	f.svc = NewExceptionService(
		memory.NewExceptionRequestRepository(store),
		f.archive,
		empRepo,
		f.ledger,
		tx,
		file.NewFileService(fs),
		dispatcher,
		nil,
		"admin@pragyatmika.com",
		ist,
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) submit(t *testing.T, typ exception.RequestType) exception.RequestResponse {
	t.Helper()
	resp, err := f.svc.Submit(context.Background(), exception.SubmitRequest{
		EmployeeID:     "PRAGEMP001",
		Type:           typ,
		Reason:         "GPS drift inside the office",
		Latitude:       12.9726,
		Longitude:      77.5946,
		LocationFailed: true,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) review(id string, action exception.Action) (exception.ReviewResponse, error) {
	return f.svc.Resolve(context.Background(), exception.ReviewRequest{
		RequestID:     id,
		Action:        action,
		ResolverEmail: "admin@pragyatmika.com",
	})
}

func TestSubmit_QueuesAndNotifiesAdmin(t *testing.T) {
	f := setup(t, nil)

	resp := f.submit(t, exception.TypeCheckIn)
	assert.Equal(t, exception.StatusPending, resp.Status)
	assert.Equal(t, "Asha Rao", resp.EmployeeName)

	pending, err := f.svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, resp.ID, pending[0].ID)

	created, ok := f.dispatcher.last().(notification.ExceptionRequestCreated)
	require.True(t, ok)
	assert.Equal(t, "admin@pragyatmika.com", created.AdminEmail)
	assert.Equal(t, "CHECK_IN", created.RequestType)
}

func TestSubmit_NoDeduplication(t *testing.T) {
	f := setup(t, nil)

	first := f.submit(t, exception.TypeCheckIn)
	second := f.submit(t, exception.TypeCheckIn)
	assert.NotEqual(t, first.ID, second.ID)

	pending, err := f.svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestSubmit_WithCapturedImage(t *testing.T) {
	f := setup(t, nil)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	resp, err := f.svc.Submit(context.Background(), exception.SubmitRequest{
		EmployeeID:    "PRAGEMP001",
		Type:          exception.TypeCheckIn,
		Reason:        "face not recognised",
		Latitude:      12.9716,
		Longitude:     77.5946,
		FaceFailed:    true,
		Image:         &buf,
		ImageFilename: "capture.png",
		ImageSize:     int64(buf.Len()),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.FaceImageURL)
	assert.Contains(t, *resp.FaceImageURL, "requests/PRAGEMP001/"+resp.ID+".jpg")
}

func TestResolve_ApproveCheckIn(t *testing.T) {
	f := setup(t, nil)
	req := f.submit(t, exception.TypeCheckIn)

	// Reviewed the next morning; the attempt date still applies.
	f.now = time.Date(2026, 1, 6, 10, 0, 0, 0, ist)
	resp, err := f.review(req.ID, exception.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, exception.StatusApproved, resp.Status)
	assert.Equal(t, "2026-01-05", resp.Date)

	rec, err := f.attendance.GetByEmployeeAndDate(context.Background(), "PRAGEMP001", "2026-01-05")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.StatusExceptionApproved, rec.Status)
	assert.True(t, rec.LastInTime.Equal(time.Date(2026, 1, 5, 9, 30, 0, 0, ist)))

	entries, err := f.svc.ListArchive(context.Background(), exception.ArchiveFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, req.ID, entries[0].RequestID)
	assert.Equal(t, exception.StatusApproved, entries[0].Status)
	assert.Equal(t, "admin@pragyatmika.com", entries[0].ResolvedBy)

	pending, err := f.svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)

	resolved, ok := f.dispatcher.last().(notification.RequestResolved)
	require.True(t, ok)
	assert.Equal(t, "asha@pragyatmika.com", resolved.EmployeeOrgEmail)
	assert.Equal(t, "APPROVED", resolved.Status)
	assert.Equal(t, "2026-01-05", resolved.Date)
}

func TestResolve_ApproveCheckOutWithoutRecordStaysPending(t *testing.T) {
	f := setup(t, nil)
	req := f.submit(t, exception.TypeCheckOut)

	_, err := f.review(req.ID, exception.ActionApprove)
	assert.ErrorIs(t, err, attendance.ErrNoPriorCheckIn)

	pending, err := f.svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, exception.StatusPending, pending[0].Status)

	entries, err := f.archive.List(context.Background(), exception.ArchiveFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolve_ApproveCheckOutAfterCheckIn(t *testing.T) {
	f := setup(t, nil)
	_, err := f.ledger.RecordCheckIn(context.Background(), "PRAGEMP001", time.Date(2026, 1, 5, 9, 0, 0, 0, ist))
	require.NoError(t, err)

	req := f.submit(t, exception.TypeCheckOut)
	resp, err := f.review(req.ID, exception.ActionApprove)
	require.NoError(t, err)
	require.NotNil(t, resp.Record)
	require.NotNil(t, resp.Record.WorkedHours)
	assert.Equal(t, "9:30:00", *resp.Record.WorkedHours)
}

func TestResolve_ApproveCheckInResetsClosedSession(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	first := time.Date(2026, 1, 5, 8, 0, 0, 0, ist)
	_, err := f.ledger.RecordCheckIn(ctx, "PRAGEMP001", first)
	require.NoError(t, err)
	_, err = f.ledger.RecordCheckOut(ctx, "PRAGEMP001", time.Date(2026, 1, 5, 12, 0, 0, 0, ist))
	require.NoError(t, err)

	req := f.submit(t, exception.TypeCheckIn)
	_, err = f.review(req.ID, exception.ActionApprove)
	require.NoError(t, err)

	rec, err := f.attendance.GetByEmployeeAndDate(ctx, "PRAGEMP001", "2026-01-05")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Nil(t, rec.LastOutTime)
	assert.Nil(t, rec.WorkedHours)
	require.NotNil(t, rec.CheckInTime)
	assert.True(t, rec.CheckInTime.Equal(first))
	assert.True(t, rec.LastInTime.Equal(time.Date(2026, 1, 5, 9, 30, 0, 0, ist)))
	assert.Equal(t, attendance.StatusExceptionApproved, rec.Status)
}

func TestResolve_ApproveRacingLiveCheckOut(t *testing.T) {
	for i := 0; i < 50; i++ {
		f := setup(t, nil)
		ctx := context.Background()
		_, err := f.ledger.RecordCheckIn(ctx, "PRAGEMP001", time.Date(2026, 1, 5, 8, 0, 0, 0, ist))
		require.NoError(t, err)
		req := f.submit(t, exception.TypeCheckIn)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.review(req.ID, exception.ActionApprove)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordCheckOut(ctx, "PRAGEMP001", time.Date(2026, 1, 5, 12, 0, 0, 0, ist))
			assert.NoError(t, err)
		}()
		wg.Wait()

		rec, err := f.attendance.GetByEmployeeAndDate(ctx, "PRAGEMP001", "2026-01-05")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, attendance.StatusExceptionApproved, rec.Status)
		if rec.LastOutTime == nil {
			// approval landed last and reopened the session
			assert.Nil(t, rec.WorkedHours)
			continue
		}
		require.NotNil(t, rec.WorkedHours)
		want := attendance.FormatWorkedDuration(rec.LastOutTime.Sub(*rec.LastInTime))
		assert.Equal(t, want, *rec.WorkedHours, "iteration %d", i)
	}
}

func TestResolve_RejectArchivesWithoutLedgerChange(t *testing.T) {
	f := setup(t, nil)
	req := f.submit(t, exception.TypeCheckIn)

	resp, err := f.review(req.ID, exception.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, exception.StatusRejected, resp.Status)
	assert.Nil(t, resp.Record)

	rec, err := f.attendance.GetByEmployeeAndDate(context.Background(), "PRAGEMP001", "2026-01-05")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rejected := exception.StatusRejected
	entries, err := f.svc.ListArchive(context.Background(), exception.ArchiveFilter{Status: &rejected})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolve_Twice(t *testing.T) {
	f := setup(t, nil)
	req := f.submit(t, exception.TypeCheckIn)

	_, err := f.review(req.ID, exception.ActionApprove)
	require.NoError(t, err)

	_, err = f.review(req.ID, exception.ActionReject)
	assert.ErrorIs(t, err, exception.ErrRequestNotFound)

	entries, err := f.archive.List(context.Background(), exception.ArchiveFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolve_UnknownRequest(t *testing.T) {
	f := setup(t, nil)

	_, err := f.review("0190a5b0-0000-7000-8000-000000000000", exception.ActionApprove)
	assert.ErrorIs(t, err, exception.ErrRequestNotFound)
}

func TestResolve_InvalidAction(t *testing.T) {
	f := setup(t, nil)
	req := f.submit(t, exception.TypeCheckIn)

	_, err := f.review(req.ID, "MAYBE")
	assert.Error(t, err)
}

func TestResolve_ConcurrentOnlyOneWins(t *testing.T) {
	f := setup(t, nil)
	req := f.submit(t, exception.TypeCheckIn)

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			action := exception.ActionApprove
			if i%2 == 1 {
				action = exception.ActionReject
			}
			_, err := f.review(req.ID, action)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.True(t,
				errors.Is(err, exception.ErrRequestNotFound) || errors.Is(err, exception.ErrAlreadyProcessed),
				"unexpected error: %v", err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	entries, err := f.archive.List(context.Background(), exception.ArchiveFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type failingSink struct{}

func (failingSink) Name() string { return "failing" }

func (failingSink) Deliver(ctx context.Context, event notification.Event) error {
	return errors.New("smtp unavailable")
}

func TestResolve_NotificationFailureDoesNotRollBack(t *testing.T) {
	d := notificationsvc.NewDispatcher([]notification.Sink{failingSink{}}, nil, notificationsvc.Config{WorkerCount: 1})
	f := setup(t, d)
	req := f.submit(t, exception.TypeCheckIn)

	resp, err := f.review(req.ID, exception.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, exception.StatusApproved, resp.Status)
	require.NoError(t, d.Stop(context.Background()))

	entries, err := f.archive.List(context.Background(), exception.ArchiveFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
