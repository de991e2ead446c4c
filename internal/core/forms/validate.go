package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/homefix/marketplace/internal/core/domain"
)

const (
	msgRequired = "This field is required."
	msgUsername = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// validate is shared by every form; validator.Validate caches struct metadata
// and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report errors under the submitted field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("field_of_work", func(fl validator.FieldLevel) bool {
		return domain.FieldOfWork(fl.Field().String()).Valid()
	})
	return v
}

// structErrors runs the tag rules on form and collects messages per field.
func structErrors(form any) (FieldErrors, error) {
	errs := FieldErrors{}
	if err := validate.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return nil, err
		}
		for _, fe := range ve {
			if errs.Has(fe.Field()) {
				continue
			}
			errs.Add(fe.Field(), fieldError(fe))
		}
	}
	return errs, nil
}

// fieldError converts a single FieldError into the message shown next to the input.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "username":
		return msgUsername
	case "datetime":
		return "Enter a valid date."
	case "field_of_work":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", fe.Value())
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}
