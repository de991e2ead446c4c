package forms

import (
	"strings"

	"github.com/homefix/marketplace/internal/core/ports"
)

// UserLoginForm only checks that the credentials are present and well-formed;
// authentication happens in the auth service.
type UserLoginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`

	errors FieldErrors
}

func NewUserLoginForm(in ports.LoginInput) *UserLoginForm {
	return &UserLoginForm{
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
}

func (f *UserLoginForm) Validate() error {
	errs, err := structErrors(f)
	if err != nil {
		return err
	}
	f.errors = errs
	return fieldErrorsOrNil(errs)
}

func (f *UserLoginForm) Errors() FieldErrors {
	return f.errors
}
