package employee

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/fixtures"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
	"github.com/pragyatmika/hrms-backend-go/internal/service/file"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordLength   = 8
	passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	balanceRepo  leave.BalanceRepository
	tx           database.Transactor
	fileService  file.FileService
	dispatcher   notification.Dispatcher
	loc          *time.Location
	now          func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	balanceRepo leave.BalanceRepository,
	tx database.Transactor,
	fileService file.FileService,
	dispatcher notification.Dispatcher,
	loc *time.Location,
) employee.EmployeeService {
	if loc == nil {
		loc = time.UTC
	}
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		balanceRepo:  balanceRepo,
		tx:           tx,
		fileService:  fileService,
		dispatcher:   dispatcher,
		loc:          loc,
		now:          time.Now,
	}
}

// generatePassword returns a random alphanumeric temporary password.
func generatePassword() (string, error) {
	buf := make([]byte, passwordLength)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func (s *EmployeeServiceImpl) mapEmployeeToResponse(ctx context.Context, e employee.Employee) employee.EmployeeResponse {
	photos := s.fileService.GetFileURLs(ctx, e.FacePhotos)
	if photos == nil {
		photos = []string{}
	}
	return employee.EmployeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		Email:          e.Email,
		PersonalEmail:  e.PersonalEmail,
		WorkLatitude:   e.WorkLatitude,
		WorkLongitude:  e.WorkLongitude,
		GeofenceRadius: e.GeofenceRadius,
		StdCheckIn:     e.StdCheckIn,
		StdCheckOut:    e.StdCheckOut,
		FacePhotos:     photos,
	}
}

// Register implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Register(ctx context.Context, req employee.RegisterEmployeeRequest) (employee.RegisterEmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.RegisterEmployeeResponse{}, err
	}

	password, err := generatePassword()
	if err != nil {
		return employee.RegisterEmployeeResponse{}, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return employee.RegisterEmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created employee.Employee
	var uploaded []string
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := s.employeeRepo.ExistsByEmail(txCtx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return employee.ErrEmailExists
		}

		id, err := s.employeeRepo.NextID(txCtx)
		if err != nil {
			return fmt.Errorf("failed to allocate employee id: %w", err)
		}

		personalEmail := req.PersonalEmail
		created, err = s.employeeRepo.Create(txCtx, employee.Employee{
			ID:             id,
			Name:           req.Name,
			Email:          req.Email,
			PersonalEmail:  &personalEmail,
			WorkLatitude:   req.WorkLatitude,
			WorkLongitude:  req.WorkLongitude,
			GeofenceRadius: req.GeofenceRadius,
			StdCheckIn:     req.StdCheckIn,
			StdCheckOut:    req.StdCheckOut,
			PasswordHash:   string(hash),
		})
		if err != nil {
			if errors.Is(err, employee.ErrEmailExists) {
				return err
			}
			return fmt.Errorf("failed to create employee: %w", err)
		}

		for i, photo := range req.Photos {
			key, err := s.fileService.UploadFacePhoto(txCtx, created.ID, i+1, photo.Content, photo.Filename)
			if err != nil {
				return fmt.Errorf("failed to upload face photo %d: %w", i+1, err)
			}
			uploaded = append(uploaded, key)
		}
		if len(uploaded) > 0 {
			if err := s.employeeRepo.SetFacePhotos(txCtx, created.ID, uploaded); err != nil {
				return fmt.Errorf("failed to save face photos: %w", err)
			}
			created.FacePhotos = uploaded
		}

		year := s.now().In(s.loc).Year()
		for _, b := range fixtures.DefaultLeaveBalances(created.ID, year) {
			if err := s.balanceRepo.Upsert(txCtx, b); err != nil {
				return fmt.Errorf("failed to seed leave balances: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		for _, key := range uploaded {
			if delErr := s.fileService.DeleteFile(ctx, key); delErr != nil {
				slog.Warn("failed to clean up face photo", "key", key, "error", delErr)
			}
		}
		return employee.RegisterEmployeeResponse{}, err
	}

	slog.Info("employee registered", "employee_id", created.ID, "email", created.Email, "photos", len(created.FacePhotos))

	recipient := req.PersonalEmail
	if recipient == "" {
		recipient = created.Email
	}
	s.dispatcher.Dispatch(ctx, notification.CredentialsIssued{
		PersonalEmail:     recipient,
		EmployeeName:      created.Name,
		EmployeeID:        created.ID,
		LoginEmail:        created.Email,
		TemporaryPassword: password,
	})

	return employee.RegisterEmployeeResponse{
		EmployeeID: created.ID,
		Email:      created.Email,
		EmailSent:  true,
	}, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return s.mapEmployeeToResponse(ctx, e), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	list, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	responses := make([]employee.EmployeeResponse, 0, len(list))
	for _, e := range list {
		responses = append(responses, s.mapEmployeeToResponse(ctx, e))
	}
	return responses, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.employeeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			return fmt.Errorf("failed to get employee: %w", err)
		}
		req.Apply(&e)
		if err := s.employeeRepo.Update(txCtx, e); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee profile updated", "employee_id", updated.ID)
	return s.mapEmployeeToResponse(ctx, updated), nil
}
