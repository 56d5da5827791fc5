package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Reviews exception and leave requests, registers employees
	RoleEmployee Role = "employee" // Checks in and out, submits requests
)

// Admin is an HR administrator account.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
