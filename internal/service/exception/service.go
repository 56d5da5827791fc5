package exception

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/metrics"
	"github.com/pragyatmika/hrms-backend-go/internal/service/file"
)

type ExceptionServiceImpl struct {
	requests    exception.RequestRepository
	archive     exception.ArchiveRepository
	employees   employee.EmployeeRepository
	ledger      attendance.Ledger
	tx          database.Transactor
	fileService file.FileService
	dispatcher  notification.Dispatcher
	metrics     *metrics.Metrics
	adminEmail  string
	loc         *time.Location
	now         func() time.Time
}

type Option func(*ExceptionServiceImpl)

// WithClock replaces the wall clock used for attempt and resolution timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ExceptionServiceImpl) { s.now = now }
}

// Submit implements exception.ExceptionService.
func (s *ExceptionServiceImpl) Submit(ctx context.Context, req exception.SubmitRequest) (exception.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return exception.RequestResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return exception.RequestResponse{}, employee.ErrEmployeeNotFound
		}
		return exception.RequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return exception.RequestResponse{}, fmt.Errorf("failed to generate request id: %w", err)
	}

	newRequest := exception.Request{
		ID:             id.String(),
		EmployeeID:     emp.ID,
		Type:           req.Type,
		Reason:         req.Reason,
		AttemptedAt:    s.now(),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		LocationFailed: req.LocationFailed,
		FaceFailed:     req.FaceFailed,
		Status:         exception.StatusPending,
	}

	if req.Image != nil {
		key, err := s.fileService.UploadRequestImage(ctx, emp.ID, newRequest.ID, req.Image, filepath.Base(req.ImageFilename))
		if err != nil {
			return exception.RequestResponse{}, fmt.Errorf("failed to store captured image: %w", err)
		}
		newRequest.FaceImageKey = &key
	}

	created, err := s.requests.Create(ctx, newRequest)
	if err != nil {
		if newRequest.FaceImageKey != nil {
			if delErr := s.fileService.DeleteFile(ctx, *newRequest.FaceImageKey); delErr != nil {
				slog.Warn("failed to clean up captured image", "key", *newRequest.FaceImageKey, "error", delErr)
			}
		}
		return exception.RequestResponse{}, fmt.Errorf("failed to create exception request: %w", err)
	}
	s.metrics.IncExceptionRequest(string(created.Type))

	slog.Info("exception request submitted",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
		"type", created.Type,
		"location_failed", created.LocationFailed,
		"face_failed", created.FaceFailed,
	)

	s.dispatcher.Dispatch(ctx, notification.ExceptionRequestCreated{
		RequestID:    created.ID,
		AdminEmail:   s.adminEmail,
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		RequestType:  string(created.Type),
		Reason:       created.Reason,
		Latitude:     created.Latitude,
		Longitude:    created.Longitude,
	})

	resp := exception.ToRequestResponse(created, s.loc)
	resp.EmployeeName = emp.Name
	resp.FaceImageURL = s.imageURL(ctx, created.FaceImageKey)
	return resp, nil
}

// ListPending implements exception.ExceptionService.
func (s *ExceptionServiceImpl) ListPending(ctx context.Context) ([]exception.RequestResponse, error) {
	pending, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	names := s.employeeNames(ctx)
	responses := make([]exception.RequestResponse, 0, len(pending))
	for _, req := range pending {
		resp := exception.ToRequestResponse(req, s.loc)
		resp.EmployeeName = names(req.EmployeeID)
		resp.FaceImageURL = s.imageURL(ctx, req.FaceImageKey)
		responses = append(responses, resp)
	}
	return responses, nil
}

// ListArchive implements exception.ExceptionService.
func (s *ExceptionServiceImpl) ListArchive(ctx context.Context, filter exception.ArchiveFilter) ([]exception.ArchiveResponse, error) {
	entries, err := s.archive.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived requests: %w", err)
	}

	names := s.employeeNames(ctx)
	responses := make([]exception.ArchiveResponse, 0, len(entries))
	for _, e := range entries {
		resp := exception.ToArchiveResponse(e, s.loc)
		resp.EmployeeName = names(e.EmployeeID)
		resp.FaceImageURL = s.imageURL(ctx, e.FaceImageKey)
		responses = append(responses, resp)
	}
	return responses, nil
}

// employeeNames memoizes employee name lookups for one listing.
func (s *ExceptionServiceImpl) employeeNames(ctx context.Context) func(id string) string {
	cache := make(map[string]string)
	return func(id string) string {
		if name, ok := cache[id]; ok {
			return name
		}
		name := ""
		if emp, err := s.employees.GetByID(ctx, id); err == nil {
			name = emp.Name
		}
		cache[id] = name
		return name
	}
}

func (s *ExceptionServiceImpl) imageURL(ctx context.Context, key *string) *string {
	if key == nil {
		return nil
	}
	url, err := s.fileService.GetFileURL(ctx, *key)
	if err != nil {
		slog.Warn("failed to resolve image url", "key", *key, "error", err)
		return nil
	}
	return &url
}

func NewExceptionService(
	requestRepo exception.RequestRepository,
	archiveRepo exception.ArchiveRepository,
	employeeRepo employee.EmployeeRepository,
	ledger attendance.Ledger,
	tx database.Transactor,
	fileService file.FileService,
	dispatcher notification.Dispatcher,
	m *metrics.Metrics,
	adminEmail string,
	loc *time.Location,
	opts ...Option,
) exception.ExceptionService {
	if loc == nil {
		loc = time.UTC
	}
	s := &ExceptionServiceImpl{
		requests:    requestRepo,
		archive:     archiveRepo,
		employees:   employeeRepo,
		ledger:      ledger,
		tx:          tx,
		fileService: fileService,
		dispatcher:  dispatcher,
		metrics:     m,
		adminEmail:  adminEmail,
		loc:         loc,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
