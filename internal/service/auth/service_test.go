package auth

import (
	"context"
	"testing"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/auth"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/jwt"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
	"github.com/pragyatmika/hrms-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret    = "test-secret-key-for-jwt"
	testSignupKey = "let-me-in"
)

type fixture struct {
	svc       auth.AuthService
	jwt       jwt.Service
	employees employee.EmployeeRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	jwtService, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	employees := memory.NewEmployeeRepository(store)
	return fixture{
		svc:       NewAuthService(memory.NewAdminRepository(store), employees, jwtService, testSignupKey),
		jwt:       jwtService,
		employees: employees,
	}
}

func TestAdminSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.AdminSignup(ctx, auth.AdminSignupRequest{
		Email:     " HR@Example.com ",
		Password:  "password123",
		SignupKey: testSignupKey,
	})
	require.NoError(t, err)

	resp, err := f.svc.AdminLogin(ctx, auth.LoginRequest{Email: "hr@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, string(user.RoleAdmin), resp.Role)

	token, err := f.jwt.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	role, ok := token.Get("role")
	require.True(t, ok)
	assert.Equal(t, "admin", role)
}

func TestAdminSignup_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.AdminSignup(ctx, auth.AdminSignupRequest{Email: "hr@example.com", Password: "password123", SignupKey: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidSignupKey)

	err = f.svc.AdminSignup(ctx, auth.AdminSignupRequest{Email: "not-an-email", Password: "short", SignupKey: testSignupKey})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)

	require.NoError(t, f.svc.AdminSignup(ctx, auth.AdminSignupRequest{Email: "hr@example.com", Password: "password123", SignupKey: testSignupKey}))
	err = f.svc.AdminSignup(ctx, auth.AdminSignupRequest{Email: "hr@example.com", Password: "password456", SignupKey: testSignupKey})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestAdminSignup_DisabledWithoutKey(t *testing.T) {
	store := memory.NewStore()
	jwtService, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	svc := NewAuthService(memory.NewAdminRepository(store), memory.NewEmployeeRepository(store), jwtService, "")

	err = svc.AdminSignup(context.Background(), auth.AdminSignupRequest{Email: "hr@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidSignupKey)
}

func TestAdminLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.svc.AdminSignup(ctx, auth.AdminSignupRequest{Email: "hr@example.com", Password: "password123", SignupKey: testSignupKey}))

	_, err := f.svc.AdminLogin(ctx, auth.LoginRequest{Email: "hr@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.AdminLogin(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestEmployeeLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Temp1234"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = f.employees.Create(ctx, employee.Employee{
		ID:           "PRAGEMP001",
		Name:         "Asha Rao",
		Email:        "asha@pragyatmika.com",
		StdCheckIn:   "09:30",
		StdCheckOut:  "18:30",
		PasswordHash: string(hash),
	})
	require.NoError(t, err)

	resp, err := f.svc.EmployeeLogin(ctx, auth.LoginRequest{Email: "Asha@Pragyatmika.com", Password: "Temp1234"})
	require.NoError(t, err)
	assert.Equal(t, string(user.RoleEmployee), resp.Role)

	token, err := f.jwt.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "PRAGEMP001", token.Subject())

	_, err = f.svc.EmployeeLogin(ctx, auth.LoginRequest{Email: "asha@pragyatmika.com", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// An admin token is not issued through the employee login.
	_, err = f.svc.AdminLogin(ctx, auth.LoginRequest{Email: "asha@pragyatmika.com", Password: "Temp1234"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
