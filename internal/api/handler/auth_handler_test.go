package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/forms"
	"github.com/homefix/marketplace/internal/core/ports"
)

type stubAuthService struct {
	customerFn func(ctx context.Context, in ports.CustomerSignUpInput) (*domain.User, error)
	companyFn  func(ctx context.Context, in ports.CompanySignUpInput) (*domain.User, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (string, *domain.User, error)
	profileFn  func(ctx context.Context, userID string) (*domain.Profile, error)
}

func (s *stubAuthService) RegisterCustomer(ctx context.Context, in ports.CustomerSignUpInput) (*domain.User, error) {
	return s.customerFn(ctx, in)
}

func (s *stubAuthService) RegisterCompany(ctx context.Context, in ports.CompanySignUpInput) (*domain.User, error) {
	return s.companyFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profileFn(ctx, userID)
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_RegisterCustomer_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		customerFn: func(ctx context.Context, in ports.CustomerSignUpInput) (*domain.User, error) {
			if in.Username != "alice" || in.Birth != "1990-04-12" || in.Password2 != "pass12345" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Username: in.Username, Email: in.Email, IsCustomer: true}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/signup/customer",
		`{"username":"alice","email":"a@example.com","password1":"pass12345","password2":"pass12345","birth":"1990-04-12"}`)

	if err := handler.RegisterCustomer(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "alice" || user["is_customer"] != true {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_RegisterCompany_FormEncoded(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		companyFn: func(ctx context.Context, in ports.CompanySignUpInput) (*domain.User, error) {
			if in.Username != "acme" || in.FieldOfWork != "CAR" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u2", Username: in.Username, IsCompany: true}, nil
		},
	}
	handler := NewAuthHandler(stub)

	form := url.Values{
		"username":      {"acme"},
		"email":         {"acme@example.com"},
		"password1":     {"pass12345"},
		"password2":     {"pass12345"},
		"field_of_work": {"CAR"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/signup/company", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.RegisterCompany(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_FieldErrors(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		customerFn: func(ctx context.Context, in ports.CustomerSignUpInput) (*domain.User, error) {
			return nil, &forms.ValidationError{Fields: forms.FieldErrors{"email": {in.Email + " is already taken."}}}
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/signup/customer", `{"email":"bob@example.com"}`)
	if err := handler.RegisterCustomer(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp fieldErrorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got := resp.Errors["email"]; len(got) != 1 || got[0] != "bob@example.com is already taken." {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		companyFn: func(ctx context.Context, in ports.CompanySignUpInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/signup/company", "not-json")
	_ = handler.RegisterCompany(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_UnexpectedError(t *testing.T) {
	e := echo.New()
	boom := errors.New("mongo down")
	stub := &stubAuthService{
		customerFn: func(ctx context.Context, in ports.CustomerSignUpInput) (*domain.User, error) {
			return nil, boom
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/auth/signup/customer", `{}`)
	if err := handler.RegisterCustomer(c); !errors.Is(err, boom) {
		t.Fatalf("expected error to reach the central handler, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
			if in.Email != "alice@example.com" || in.Password != "secret" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return "token123", &domain.User{Username: "alice", IsCompany: true}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{"bad form", &forms.ValidationError{Fields: forms.FieldErrors{"email": {"Enter a valid email address."}}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			stub := &stubAuthService{
				loginFn: func(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
					return "", nil, tt.err
				},
			}
			handler := NewAuthHandler(stub)

			c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)
			_ = handler.Login(c)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestAuthHandler_FieldsOfWork(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := jsonContext(e, http.MethodGet, "/auth/fields-of-work", "")
	if err := handler.FieldsOfWork(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp choicesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Choices) != 12 || resp.Choices[0].Code != domain.FieldAirConditioner {
		t.Fatalf("unexpected choices: %+v", resp.Choices)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, userID string) (*domain.Profile, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id %s", userID)
			}
			return &domain.Profile{
				User:    &domain.User{ID: "u1", IsCompany: true},
				Company: &domain.Company{UserID: "u1", Field: domain.FieldLocks},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/v1/me", "")
	c.Set("user_id", "u1")
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"LOC"`) {
		t.Fatalf("expected company field in body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := jsonContext(e, http.MethodGet, "/v1/me", "")
	if err := handler.Me(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
