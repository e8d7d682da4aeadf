package auth

import (
	"fmt"

	"pairchat/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// VerificationRequest is what the user types before any provider call.
// The number is the national part only: exactly 10 digits, no formatting
// characters; the country calling prefix is added by the session service.
type VerificationRequest struct {
	PhoneNumber string `validate:"required,len=10,number"`
}

// ConfirmRequest carries the out-of-band verification code.
type ConfirmRequest struct {
	Code string `validate:"required,len=6,number"`
}

// ValidatePhoneNumber rejects malformed numbers locally, before any
// external service is contacted.
func ValidatePhoneNumber(number string) error {
	if err := validate.Struct(VerificationRequest{PhoneNumber: number}); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPhoneNumber, err)
	}
	return nil
}

// ValidateCode rejects malformed codes locally, before submission.
func ValidateCode(code string) error {
	if err := validate.Struct(ConfirmRequest{Code: code}); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCode, err)
	}
	return nil
}
