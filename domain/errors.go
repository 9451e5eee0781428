package domain

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthExpired        = errors.New("authentication expired")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Registration and OTP errors
var (
	ErrValidation          = errors.New("validation failed")
	ErrOTPExpiredOrInvalid = errors.New("otp expired or invalid")
	ErrOTPResendTooSoon    = errors.New("otp resend requested before cooldown elapsed")
	ErrRegistrationState   = errors.New("operation not allowed in current registration state")
	ErrConflict            = errors.New("conflicting account already exists")
)

// Transport errors
var (
	ErrNetwork = errors.New("network error")
)

// Client slot errors
var (
	ErrSlotTokenInvalid = errors.New("invalid client slot token")
)
