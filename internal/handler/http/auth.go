package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/auth"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/response"
)

// SignupKeyHeader carries the shared secret that guards admin signup.
const SignupKeyHeader = "X-Admin-Signup-Key"

type AuthHandler interface {
	AdminSignup(w http.ResponseWriter, r *http.Request)
	AdminLogin(w http.ResponseWriter, r *http.Request)
	EmployeeLogin(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// AdminSignup implements AuthHandler.
func (a *AuthHandlerImpl) AdminSignup(w http.ResponseWriter, r *http.Request) {
	var signupReq auth.AdminSignupRequest

	if err := json.NewDecoder(r.Body).Decode(&signupReq); err != nil {
		slog.Error("AdminSignup decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	signupReq.SignupKey = r.Header.Get(SignupKeyHeader)

	if err := a.authService.AdminSignup(r.Context(), signupReq); err != nil {
		slog.Error("AdminSignup service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Admin registered successfully", nil)
}

// AdminLogin implements AuthHandler.
func (a *AuthHandlerImpl) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("AdminLogin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.AdminLogin(r.Context(), loginReq)
	if err != nil {
		slog.Error("AdminLogin service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, tokenResponse)
}

// EmployeeLogin implements AuthHandler.
func (a *AuthHandlerImpl) EmployeeLogin(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("EmployeeLogin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.EmployeeLogin(r.Context(), loginReq)
	if err != nil {
		slog.Error("EmployeeLogin service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, tokenResponse)
}
