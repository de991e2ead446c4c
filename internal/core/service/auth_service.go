package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/forms"
	"github.com/homefix/marketplace/internal/core/ports"
	"github.com/homefix/marketplace/internal/pkg/metrics"
)

// LoginThrottle abstracts the failed-attempt counter (Redis).
type LoginThrottle interface {
	IsLocked(ctx context.Context, email string) (bool, error)
	RegisterFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements sign-up and login on top of the forms package.
type AuthService struct {
	users     ports.UserRepository
	throttle  LoginThrottle
	events    ports.EventPublisher
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	throttle LoginThrottle,
	events ports.EventPublisher,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		throttle:  throttle,
		events:    events,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// signUpForm is what both sign-up forms expose to the service.
type signUpForm interface {
	Validate(ctx context.Context) error
	Save(ctx context.Context, commit bool) (*domain.User, error)
}

func (s *AuthService) RegisterCustomer(ctx context.Context, in ports.CustomerSignUpInput) (*domain.User, error) {
	form := forms.NewCustomerSignUpForm(s.users, in)
	return s.register(ctx, form, domain.RoleCustomer, domain.EventCustomerRegistered)
}

func (s *AuthService) RegisterCompany(ctx context.Context, in ports.CompanySignUpInput) (*domain.User, error) {
	form := forms.NewCompanySignUpForm(s.users, in)
	return s.register(ctx, form, domain.RoleCompany, domain.EventCompanyRegistered)
}

func (s *AuthService) register(ctx context.Context, form signUpForm, role string, event domain.AccountEventType) (*domain.User, error) {
	if err := form.Validate(ctx); err != nil {
		if ve, ok := forms.AsValidationError(err); ok {
			for field := range ve.Fields {
				metrics.SignupValidationErrorsTotal.WithLabelValues(role, field).Inc()
			}
			return nil, err
		}
		s.log.Error().Err(err).Str("role", role).Msg("sign-up validation failed")
		return nil, err
	}

	user, err := form.Save(ctx, true)
	if err != nil {
		s.log.Error().Err(err).Str("role", role).Msg("failed to save sign-up")
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(role).Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("account registered")
	s.publish(event, user.ID, user.Email)
	return user, nil
}

// Login checks the credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
	form := forms.NewUserLoginForm(in)
	if err := form.Validate(); err != nil {
		return "", nil, err
	}

	locked, err := s.throttle.IsLocked(ctx, form.Email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", form.Email).Msg("throttle check failed, continuing")
	} else if locked {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, "", form.Email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		s.loginFailed(ctx, user.ID, form.Email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, form.Email); err != nil {
		s.log.Warn().Err(err).Str("email", form.Email).Msg("failed to reset throttle")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.publish(domain.EventLoginSucceeded, user.ID, user.Email)
	return token, user, nil
}

func (s *AuthService) loginFailed(ctx context.Context, userID, email string) {
	metrics.LoginsTotal.WithLabelValues("invalid").Inc()
	if err := s.throttle.RegisterFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
	}
	s.publish(domain.EventLoginFailed, userID, email)
}

// Profile returns the user together with its customer or company row.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{User: user}
	switch {
	case user.IsCustomer:
		c, err := s.users.FindCustomer(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		profile.Customer = c
	case user.IsCompany:
		c, err := s.users.FindCompany(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		profile.Company = c
	}
	return profile, nil
}

func (s *AuthService) publish(t domain.AccountEventType, userID, email string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.AccountEvent{
		Type:      t,
		UserID:    userID,
		Email:     email,
		Timestamp: time.Now().UTC(),
	})
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role(),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
