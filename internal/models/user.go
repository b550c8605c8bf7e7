package models

import "time"

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleStaff    UserRole = "STAFF"
	UserRoleManager  UserRole = "MANAGER"
	UserRoleAdmin    UserRole = "ADMIN"
)

// User is the account record owned by the registration and login flows.
// Everything except LastLoginAt and Role is immutable after creation.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	Role         UserRole
	LastLoginAt  *time.Time
	RegisteredAt time.Time
}
