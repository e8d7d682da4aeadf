package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrInvalidPhoneNumber   = fmt.Errorf("phone number must be exactly 10 digits")
	ErrInvalidCode          = fmt.Errorf("verification code must be exactly 6 digits")
	ErrCodeMismatch         = fmt.Errorf("verification code does not match")
	ErrVerificationExpired  = fmt.Errorf("verification handle expired")
	ErrTooManyAttempts      = fmt.Errorf("too many verification attempts")
	ErrNoVerification       = fmt.Errorf("no verification in progress")
	ErrProfileNotFound      = fmt.Errorf("profile not found")
	ErrProfileAlreadyExists = fmt.Errorf("profile already exists")
	ErrInvalidProfile       = fmt.Errorf("invalid profile")
	ErrTokenGeneration      = fmt.Errorf("session token generation failed")
)
