package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/forms"
	"github.com/homefix/marketplace/internal/core/ports"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	customers map[string]*domain.Customer
	companies map[string]*domain.Company
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:     make(map[string]*domain.User),
		customers: make(map[string]*domain.Customer),
		companies: make(map[string]*domain.Company),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	user.ID = "user_" + strconv.Itoa(len(r.users)+1)
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) CreateCustomer(_ context.Context, c *domain.Customer) error {
	clone := *c
	r.customers[c.UserID] = &clone
	return nil
}

func (r *stubUserRepo) CreateCompany(_ context.Context, c *domain.Company) error {
	clone := *c
	r.companies[c.UserID] = &clone
	return nil
}

func (r *stubUserRepo) FindCustomer(_ context.Context, userID string) (*domain.Customer, error) {
	c, ok := r.customers[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return c, nil
}

func (r *stubUserRepo) FindCompany(_ context.Context, userID string) (*domain.Company, error) {
	c, ok := r.companies[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return c, nil
}

type stubThrottle struct {
	failures map[string]int
	limit    int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) IsLocked(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[email] >= t.limit, nil
}

func (t *stubThrottle) RegisterFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

type recordingPublisher struct {
	events []domain.AccountEvent
}

func (p *recordingPublisher) Enqueue(e domain.AccountEvent) {
	p.events = append(p.events, e)
}

func newTestService(repo *stubUserRepo, throttle *stubThrottle, pub *recordingPublisher) *AuthService {
	return NewAuthService(repo, throttle, pub, "secret", time.Hour, zerolog.Nop())
}

func customerInput(username, email, password string) ports.CustomerSignUpInput {
	return ports.CustomerSignUpInput{
		SignUpInput: ports.SignUpInput{Username: username, Email: email, Password1: password, Password2: password},
		Birth:       "1988-01-30",
	}
}

func TestAuthService_RegisterCustomer_Success(t *testing.T) {
	repo := newStubUserRepo()
	pub := &recordingPublisher{}
	svc := newTestService(repo, newStubThrottle(5), pub)

	user, err := svc.RegisterCustomer(context.Background(), customerInput("alice", "alice@example.com", "pass12345"))
	if err != nil {
		t.Fatalf("RegisterCustomer returned error: %v", err)
	}
	if !user.IsCustomer || user.IsCompany {
		t.Fatalf("unexpected role flags: %+v", user)
	}
	if user.PasswordHash == "pass12345" {
		t.Fatalf("expected password to be hashed")
	}
	if _, ok := repo.customers[user.ID]; !ok {
		t.Fatalf("expected customer row for %s", user.ID)
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.EventCustomerRegistered {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestAuthService_RegisterCompany_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, newStubThrottle(5), &recordingPublisher{})

	user, err := svc.RegisterCompany(context.Background(), ports.CompanySignUpInput{
		SignUpInput: ports.SignUpInput{Username: "acme", Email: "acme@example.com", Password1: "pass12345", Password2: "pass12345"},
		FieldOfWork: "HK",
	})
	if err != nil {
		t.Fatalf("RegisterCompany returned error: %v", err)
	}
	company, ok := repo.companies[user.ID]
	if !ok || company.Field != domain.FieldHousekeeping {
		t.Fatalf("unexpected company row: %+v", company)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	pub := &recordingPublisher{}
	svc := newTestService(repo, newStubThrottle(5), pub)

	if _, err := svc.RegisterCustomer(context.Background(), customerInput("bob", "bob@example.com", "pass12345")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.RegisterCustomer(context.Background(), customerInput("bob2", "bob@example.com", "pass12345"))
	ve, ok := forms.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := ve.Fields["email"]; len(got) != 1 || got[0] != "bob@example.com is already taken." {
		t.Fatalf("unexpected email errors: %v", got)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(repo.users))
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected only the first registration to publish, got %d", len(pub.events))
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, newStubThrottle(5), &recordingPublisher{})

	if _, err := svc.RegisterCustomer(context.Background(), customerInput("carol", "carol@example.com", "s3cret-pass")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleCustomer {
		t.Fatalf("expected role %s, got %v", domain.RoleCustomer, claims["role"])
	}
	if claims["user_id"] != user.ID {
		t.Fatalf("expected user_id %s, got %v", user.ID, claims["user_id"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle(5)
	svc := newTestService(repo, throttle, &recordingPublisher{})

	_, _ = svc.RegisterCustomer(context.Background(), customerInput("dave", "dave@example.com", "goodpass1"))
	if _, _, err := svc.Login(context.Background(), ports.LoginInput{Email: "dave@example.com", Password: "badpass1"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if throttle.failures["dave@example.com"] != 1 {
		t.Fatalf("expected failure to be recorded")
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestService(newStubUserRepo(), newStubThrottle(5), &recordingPublisher{})

	if _, _, err := svc.Login(context.Background(), ports.LoginInput{Email: "ghost@example.com", Password: "pass"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle(2)
	svc := newTestService(repo, throttle, &recordingPublisher{})

	_, _ = svc.RegisterCustomer(context.Background(), customerInput("erin", "erin@example.com", "goodpass1"))
	for i := 0; i < 2; i++ {
		_, _, _ = svc.Login(context.Background(), ports.LoginInput{Email: "erin@example.com", Password: "wrong"})
	}

	if _, _, err := svc.Login(context.Background(), ports.LoginInput{Email: "erin@example.com", Password: "goodpass1"}); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ThrottleDown(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle(5)
	throttle.err = errors.New("redis down")
	svc := newTestService(repo, throttle, &recordingPublisher{})

	_, _ = svc.RegisterCustomer(context.Background(), customerInput("fay", "fay@example.com", "goodpass1"))
	if _, _, err := svc.Login(context.Background(), ports.LoginInput{Email: "fay@example.com", Password: "goodpass1"}); err != nil {
		t.Fatalf("expected login to proceed without throttle, got %v", err)
	}
}

func TestAuthService_Login_InvalidForm(t *testing.T) {
	svc := newTestService(newStubUserRepo(), newStubThrottle(5), &recordingPublisher{})

	_, _, err := svc.Login(context.Background(), ports.LoginInput{Email: "nope"})
	if _, ok := forms.AsValidationError(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, newStubThrottle(5), &recordingPublisher{})

	user, err := svc.RegisterCustomer(context.Background(), customerInput("gus", "gus@example.com", "goodpass1"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	profile, err := svc.Profile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.Customer == nil || profile.Customer.Birth.Format("2006-01-02") != "1988-01-30" {
		t.Fatalf("unexpected customer: %+v", profile.Customer)
	}
	if profile.Company != nil {
		t.Fatalf("unexpected company: %+v", profile.Company)
	}

	if _, err := svc.Profile(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
