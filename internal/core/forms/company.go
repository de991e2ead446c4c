package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/ports"
)

// CompanySignUpForm registers a user that offers services in one trade.
type CompanySignUpForm struct {
	UserCreationForm
	FieldOfWork string `form:"field_of_work" validate:"required,field_of_work"`

	field domain.FieldOfWork
}

func NewCompanySignUpForm(users ports.UserRepository, in ports.CompanySignUpInput) *CompanySignUpForm {
	return &CompanySignUpForm{
		UserCreationForm: newUserCreationForm(users, in.SignUpInput),
		FieldOfWork:      strings.TrimSpace(in.FieldOfWork),
	}
}

func (f *CompanySignUpForm) Validate(ctx context.Context) error {
	errs, err := structErrors(f)
	if err != nil {
		return err
	}
	f.field = ""
	if !errs.Has("field_of_work") {
		f.field = domain.FieldOfWork(f.FieldOfWork)
	}
	return f.finish(ctx, errs)
}

// Save marks the user as a company. On commit it stores the user and then,
// when a field of work was chosen, the linked Company row.
func (f *CompanySignUpForm) Save(ctx context.Context, commit bool) (*domain.User, error) {
	user, err := f.UserCreationForm.Save(ctx, false)
	if err != nil {
		return nil, err
	}
	user.IsCompany = true

	if commit {
		if err := f.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
		if f.field != "" {
			company := &domain.Company{UserID: user.ID, Field: f.field}
			if err := f.users.CreateCompany(ctx, company); err != nil {
				return nil, fmt.Errorf("save company: %w", err)
			}
		}
	}
	return user, nil
}

// Choices lists the options rendered in the field-of-work select.
func (f *CompanySignUpForm) Choices() []domain.Choice {
	return domain.FieldsOfWork
}
