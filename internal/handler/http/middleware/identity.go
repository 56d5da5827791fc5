package middleware

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/auth"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
)

// Identity is the authenticated caller taken from the access token.
type Identity struct {
	Subject string // admin id or employee id
	Email   string
	Name    string
	Role    user.Role
}

func IdentityFromContext(ctx context.Context) (Identity, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Identity{}, auth.ErrInvalidToken
	}

	id := Identity{Subject: token.Subject()}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	if role, ok := claims["role"].(string); ok {
		id.Role = user.Role(role)
	}
	if id.Subject == "" {
		return Identity{}, auth.ErrInvalidToken
	}
	return id, nil
}
