package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/taskapp/auth-service/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct-tag validation and maps the first failure to a
// domain error (missing_field for "required", invalid_field otherwise).
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInvalidField("body", err.Error())
	}

	fe := verrs[0]
	field := jsonFieldName(fe)
	if fe.Tag() == "required" {
		return domain.ErrMissingField(field)
	}
	return domain.ErrInvalidField(field, reasonFor(fe))
}

func jsonFieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "TwoFactorToken":
		return "twoFactorToken"
	case "Token":
		return "token"
	default:
		return fe.Field()
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
