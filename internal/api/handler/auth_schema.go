package handler

import "github.com/homefix/marketplace/internal/core/domain"

// errorResponse is the envelope for non-field errors.
type errorResponse struct {
	Error string `json:"error"`
}

// fieldErrorsResponse is returned with 400 when form validation fails.
type fieldErrorsResponse struct {
	Errors map[string][]string `json:"errors"`
}

type customerSignUpRequest struct {
	Username  string `json:"username"  form:"username"`
	Email     string `json:"email"     form:"email"`
	Password1 string `json:"password1" form:"password1"`
	Password2 string `json:"password2" form:"password2"`
	Birth     string `json:"birth"     form:"birth"`
}

type companySignUpRequest struct {
	Username    string `json:"username"      form:"username"`
	Email       string `json:"email"         form:"email"`
	Password1   string `json:"password1"     form:"password1"`
	Password2   string `json:"password2"     form:"password2"`
	FieldOfWork string `json:"field_of_work" form:"field_of_work"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type choicesResponse struct {
	Choices []domain.Choice `json:"choices"`
}
