package models

import "time"

// User is an application account. PasswordHash never leaves the repository
// layer except for credential checks.
type User struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Roles recognized by the permission middleware.
const (
	RoleUser               = "user"
	RoleOperationsApprover = "operations_approver"
	RoleAdmin              = "admin"
)
