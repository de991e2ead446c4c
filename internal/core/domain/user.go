package domain

import (
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleCompany  = "company"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrProfileNotFound    = errors.New("profile not found")
)

// User is the base account every customer and company signs up with.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsCustomer   bool      `json:"is_customer"`
	IsCompany    bool      `json:"is_company"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role derives the marketplace side from the role flags. Empty for plain users.
func (u *User) Role() string {
	switch {
	case u.IsCustomer:
		return RoleCustomer
	case u.IsCompany:
		return RoleCompany
	default:
		return ""
	}
}
