package ports

import (
	"context"

	"github.com/homefix/marketplace/internal/core/domain"
)

// SignUpInput carries the fields shared by both sign-up forms.
type SignUpInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// CustomerSignUpInput is the raw customer form submission. Birth is YYYY-MM-DD.
type CustomerSignUpInput struct {
	SignUpInput
	Birth string
}

// CompanySignUpInput is the raw company form submission.
type CompanySignUpInput struct {
	SignUpInput
	FieldOfWork string
}

// LoginInput is the raw login form submission.
type LoginInput struct {
	Email    string
	Password string
}

type AuthService interface {
	RegisterCustomer(ctx context.Context, in CustomerSignUpInput) (*domain.User, error)
	RegisterCompany(ctx context.Context, in CompanySignUpInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.Profile, error)
}
