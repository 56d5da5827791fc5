package auth

import (
	"context"
)

type AuthService interface {
	AdminSignup(ctx context.Context, req AdminSignupRequest) error
	AdminLogin(ctx context.Context, req LoginRequest) (TokenResponse, error)
	EmployeeLogin(ctx context.Context, req LoginRequest) (TokenResponse, error)
}
