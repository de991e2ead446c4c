package forms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/ports"
)

// DateLayout is the wire format of a date input.
const DateLayout = "2006-01-02"

// CustomerSignUpForm registers a user that books services.
type CustomerSignUpForm struct {
	UserCreationForm
	Birth string `form:"birth" validate:"required,datetime=2006-01-02"`

	birth time.Time
}

func NewCustomerSignUpForm(users ports.UserRepository, in ports.CustomerSignUpInput) *CustomerSignUpForm {
	return &CustomerSignUpForm{
		UserCreationForm: newUserCreationForm(users, in.SignUpInput),
		Birth:            strings.TrimSpace(in.Birth),
	}
}

func (f *CustomerSignUpForm) Validate(ctx context.Context) error {
	errs, err := structErrors(f)
	if err != nil {
		return err
	}
	f.birth = time.Time{}
	if !errs.Has("birth") && f.Birth != "" {
		f.birth, _ = time.Parse(DateLayout, f.Birth)
	}
	return f.finish(ctx, errs)
}

// Save marks the user as a customer. On commit it stores the user and then,
// when a birth date was given, the linked Customer row.
func (f *CustomerSignUpForm) Save(ctx context.Context, commit bool) (*domain.User, error) {
	user, err := f.UserCreationForm.Save(ctx, false)
	if err != nil {
		return nil, err
	}
	user.IsCustomer = true

	if commit {
		if err := f.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
		if !f.birth.IsZero() {
			customer := &domain.Customer{UserID: user.ID, Birth: f.birth}
			if err := f.users.CreateCustomer(ctx, customer); err != nil {
				return nil, fmt.Errorf("save customer: %w", err)
			}
		}
	}
	return user, nil
}
