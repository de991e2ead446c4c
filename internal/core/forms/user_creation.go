package forms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/ports"
)

// passwordCost is a variable so tests can trade hash strength for speed.
var passwordCost = bcrypt.DefaultCost

// ValidateEmail rejects an email that already belongs to a stored user.
func ValidateEmail(ctx context.Context, users ports.UserRepository, email string) error {
	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return &ValidationError{Fields: FieldErrors{"email": {email + " is already taken."}}}
	}
	return nil
}

// UserCreationForm holds the account fields shared by both sign-up forms.
type UserCreationForm struct {
	Username  string `form:"username"  validate:"required,max=150,username"`
	Email     string `form:"email"     validate:"required,max=254,email"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required"`

	users  ports.UserRepository
	errors FieldErrors
	valid  bool
}

func newUserCreationForm(users ports.UserRepository, in ports.SignUpInput) UserCreationForm {
	return UserCreationForm{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		Password1: in.Password1,
		Password2: in.Password2,
		users:     users,
	}
}

// NewUserCreationForm binds a plain sign-up submission.
func NewUserCreationForm(users ports.UserRepository, in ports.SignUpInput) *UserCreationForm {
	f := newUserCreationForm(users, in)
	return &f
}

// Validate runs the field rules plus the lookups against stored users.
// Field problems come back as *ValidationError; anything else is a storage failure.
func (f *UserCreationForm) Validate(ctx context.Context) error {
	errs, err := structErrors(f)
	if err != nil {
		return err
	}
	return f.finish(ctx, errs)
}

// Errors returns the messages collected by the last Validate call.
func (f *UserCreationForm) Errors() FieldErrors {
	return f.errors
}

// finish applies the cross-field and storage checks and records the outcome.
func (f *UserCreationForm) finish(ctx context.Context, errs FieldErrors) error {
	f.valid = false
	if err := f.clean(ctx, errs); err != nil {
		return err
	}
	f.errors = errs
	if err := fieldErrorsOrNil(errs); err != nil {
		return err
	}
	f.valid = true
	return nil
}

func (f *UserCreationForm) clean(ctx context.Context, errs FieldErrors) error {
	if !errs.Has("username") {
		taken, err := f.users.UsernameExists(ctx, f.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			errs.Add("username", "A user with that username already exists.")
		}
	}

	if !errs.Has("email") {
		if err := ValidateEmail(ctx, f.users, f.Email); err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return err
			}
			for field, msgs := range ve.Fields {
				for _, m := range msgs {
					errs.Add(field, m)
				}
			}
		}
	}

	if errs.Has("password1") || errs.Has("password2") {
		return nil
	}
	if f.Password1 != f.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
		return nil
	}
	for _, msg := range passwordProblems(f.Password2, f.Username, f.Email) {
		errs.Add("password2", msg)
	}
	return nil
}

// Save builds the user with a hashed password and persists it when commit is set.
// The returned user carries an ID only after a commit.
func (f *UserCreationForm) Save(ctx context.Context, commit bool) (*domain.User, error) {
	if !f.valid {
		return nil, ErrFormNotValid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password1), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     f.Username,
		Email:        f.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if commit {
		if err := f.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
	}
	return user, nil
}
