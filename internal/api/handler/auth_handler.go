package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/forms"
	"github.com/homefix/marketplace/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterCustomer creates a customer account.
//
// @Summary      Sign up as a customer
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      customerSignUpRequest  true  "Customer sign-up form"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup/customer [post]
func (h *AuthHandler) RegisterCustomer(c echo.Context) error {
	var req customerSignUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	user, err := h.authService.RegisterCustomer(c.Request().Context(), ports.CustomerSignUpInput{
		SignUpInput: signUpInput(req.Username, req.Email, req.Password1, req.Password2),
		Birth:       req.Birth,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// RegisterCompany creates a company account.
//
// @Summary      Sign up as a company
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      companySignUpRequest  true  "Company sign-up form"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup/company [post]
func (h *AuthHandler) RegisterCompany(c echo.Context) error {
	var req companySignUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	user, err := h.authService.RegisterCompany(c.Request().Context(), ports.CompanySignUpInput{
		SignUpInput: signUpInput(req.Username, req.Email, req.Password1, req.Password2),
		FieldOfWork: req.FieldOfWork,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	token, user, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// FieldsOfWork lists the trades a company can register under.
//
// @Summary      Company field-of-work choices
// @Tags         auth
// @Produce      json
// @Success      200  {object}  choicesResponse
// @Router       /auth/fields-of-work [get]
func (h *AuthHandler) FieldsOfWork(c echo.Context) error {
	return c.JSON(http.StatusOK, choicesResponse{Choices: domain.FieldsOfWork})
}

// Me returns the authenticated user with its profile.
//
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func signUpInput(username, email, password1, password2 string) ports.SignUpInput {
	return ports.SignUpInput{
		Username:  username,
		Email:     email,
		Password1: password1,
		Password2: password2,
	}
}

// writeError renders field and known domain errors; anything else goes to the
// central error handler.
func writeError(c echo.Context, err error) error {
	if ve, ok := forms.AsValidationError(err); ok {
		return c.JSON(http.StatusBadRequest, fieldErrorsResponse{Errors: ve.Fields})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, domain.ErrTooManyAttempts):
		return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many login attempts, try again later"})
	case errors.Is(err, domain.ErrUserExists):
		return c.JSON(http.StatusConflict, errorResponse{Error: "user already exists"})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
	}
	return err
}
