package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
	"github.com/pragyatmika/hrms-backend-go/internal/handler/http/response"
)

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(user.RoleAdmin, user.ErrAdminPrivilegeRequired)(next)
}

// RequireEmployee requires employee role
func RequireEmployee(next http.Handler) http.Handler {
	return requireRole(user.RoleEmployee, user.ErrEmployeeRoleRequired)(next)
}

func requireRole(want user.Role, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, denied)
				return
			}

			role, ok := claims["role"].(string)
			if !ok || user.Role(role) != want {
				response.HandleError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
