package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/metrics"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/utils"
	"github.com/pragyatmika/hrms-backend-go/internal/service/file"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	ledger      attendance.Ledger
	fileService file.FileService
	metrics     *metrics.Metrics
	loc         *time.Location
	now         func() time.Time
}

// Option customizes an AttendanceServiceImpl.
type Option func(*AttendanceServiceImpl)

// WithClock replaces the wall clock used for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *AttendanceServiceImpl) { a.now = now }
}

// gate loads the employee and measures the claimed position against their work site.
func (a *AttendanceServiceImpl) gate(ctx context.Context, employeeID string, claimed utils.Coordinate) (float64, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return 0, employee.ErrEmployeeNotFound
		}
		return 0, fmt.Errorf("failed to get employee: %w", err)
	}

	distance := utils.Distance(claimed, emp.WorkSite())
	if !utils.WithinFence(distance, emp.GeofenceRadius) {
		slog.Info("attempt outside geofence",
			"employee_id", employeeID,
			"distance_m", int(distance),
			"radius_m", emp.GeofenceRadius,
		)
		return distance, &attendance.OutOfGeofenceError{Distance: distance, Radius: emp.GeofenceRadius}
	}
	return distance, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckResponse{}, err
	}

	distance, err := a.gate(ctx, req.EmployeeID, req.Coordinate())
	if err != nil {
		a.metrics.IncCheckIn(outcome(err))
		return attendance.CheckResponse{}, err
	}

	rec, err := a.ledger.RecordCheckIn(ctx, req.EmployeeID, a.now())
	if err != nil {
		a.metrics.IncCheckIn(outcome(err))
		return attendance.CheckResponse{}, fmt.Errorf("failed to record check-in: %w", err)
	}
	a.metrics.IncCheckIn("ok")

	return attendance.CheckResponse{
		Status:         "checked_in",
		DistanceMeters: distance,
		Record:         attendance.ToResponse(rec, a.loc),
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckResponse{}, err
	}

	distance, err := a.gate(ctx, req.EmployeeID, req.Coordinate())
	if err != nil {
		a.metrics.IncCheckOut(outcome(err))
		return attendance.CheckResponse{}, err
	}

	rec, err := a.ledger.RecordCheckOut(ctx, req.EmployeeID, a.now())
	if err != nil {
		a.metrics.IncCheckOut(outcome(err))
		if errors.Is(err, attendance.ErrNoOpenSession) {
			return attendance.CheckResponse{}, attendance.ErrNoOpenSession
		}
		return attendance.CheckResponse{}, fmt.Errorf("failed to record check-out: %w", err)
	}
	a.metrics.IncCheckOut("ok")

	return attendance.CheckResponse{
		Status:         "checked_out",
		DistanceMeters: distance,
		Record:         attendance.ToResponse(rec, a.loc),
	}, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, attendance.ErrOutOfGeofence):
		return "out_of_geofence"
	case errors.Is(err, attendance.ErrNoOpenSession):
		return "no_open_session"
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return "unknown_employee"
	default:
		return "error"
	}
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec, a.loc))
	}
	return responses, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, a.ledger.DateOf(a.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	resp := attendance.ToResponse(*rec, a.loc)
	return &resp, nil
}

// GetProfile implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetProfile(ctx context.Context, employeeID string) (attendance.ProfileResponse, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.ProfileResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.ProfileResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return attendance.ProfileResponse{
		EmployeeID:     emp.ID,
		Name:           emp.Name,
		Email:          emp.Email,
		WorkLatitude:   emp.WorkLatitude,
		WorkLongitude:  emp.WorkLongitude,
		GeofenceRadius: emp.GeofenceRadius,
		StdCheckIn:     emp.StdCheckIn,
		StdCheckOut:    emp.StdCheckOut,
		FacePhotos:     a.fileService.GetFileURLs(ctx, emp.FacePhotos),
	}, nil
}

// ServerTime implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ServerTime() attendance.ServerTimeResponse {
	now := a.now().In(a.loc)
	return attendance.ServerTimeResponse{
		ISOTime:   now.Format(time.RFC3339),
		Timezone:  a.loc.String(),
		LocalDate: now.Format(attendance.DateLayout),
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	ledger attendance.Ledger,
	fileService file.FileService,
	m *metrics.Metrics,
	loc *time.Location,
	opts ...Option,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	a := &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		ledger:               ledger,
		fileService:          fileService,
		metrics:              m,
		loc:                  loc,
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
