package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/auth"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.AdminRepository
	employee.EmployeeRepository
	jwt.Service
	signupKey string
}

// NewAuthService issues access tokens for admins and employees. An empty
// signupKey disables admin signup.
func NewAuthService(adminRepository user.AdminRepository, employeeRepository employee.EmployeeRepository, jwtService jwt.Service, signupKey string) auth.AuthService {
	return &AuthServiceImpl{
		AdminRepository:    adminRepository,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		signupKey:          signupKey,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AdminSignup implements auth.AuthService.
func (a *AuthServiceImpl) AdminSignup(ctx context.Context, req auth.AdminSignupRequest) error {
	if a.signupKey == "" || subtle.ConstantTimeCompare([]byte(req.SignupKey), []byte(a.signupKey)) != 1 {
		return auth.ErrInvalidSignupKey
	}
	if err := req.Validate(); err != nil {
		return err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := a.AdminRepository.Create(ctx, user.Admin{
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return err
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin registered", "admin_id", admin.ID, "email", admin.Email)
	return nil
}

// AdminLogin implements auth.AuthService.
func (a *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	admin, err := a.AdminRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get admin by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issue(admin.ID, admin.Email, admin.Email, user.RoleAdmin)
}

// EmployeeLogin implements auth.AuthService.
func (a *AuthServiceImpl) EmployeeLogin(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if emp.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issue(emp.ID, emp.Email, emp.Name, user.RoleEmployee)
}

func (a *AuthServiceImpl) issue(subject, email, name string, role user.Role) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(subject, email, name, role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		Role:        string(role),
		ExpiresAt:   expiresAt,
	}, nil
}
