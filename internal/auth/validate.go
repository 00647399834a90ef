package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateCredentials checks login inputs before any request
func ValidateCredentials(creds models.Credentials) error {
	creds.Identifier = strings.TrimSpace(creds.Identifier)
	if strings.TrimSpace(creds.Secret) == "" {
		creds.Secret = ""
	}
	return toValidationError(validate.Struct(creds), map[string]string{
		"Identifier": "email",
		"Secret":     "password",
	})
}

// ValidateSignup checks the signup form before any request
func ValidateSignup(req models.SignupRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if strings.TrimSpace(req.Password) == "" {
		req.Password = ""
	}
	return toValidationError(validate.Struct(req), map[string]string{
		"Username": "username",
		"Email":    "email",
		"Password": "password",
	})
}

// toValidationError reports the first failing field
func toValidationError(err error, names map[string]string) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apierrors.NewValidationError("", err.Error())
	}

	fe := verrs[0]
	field := names[fe.Field()]
	if field == "" {
		field = strings.ToLower(fe.Field())
	}

	switch fe.Tag() {
	case "required":
		return apierrors.NewValidationError(field, "cannot be empty")
	case "email":
		return apierrors.NewValidationError(field, "must be a valid email address")
	case "max":
		return apierrors.NewValidationError(field, "must be at most "+fe.Param()+" characters")
	case "min":
		return apierrors.NewValidationError(field, "must be at least "+fe.Param()+" characters")
	default:
		return apierrors.NewValidationError(field, "is invalid")
	}
}
