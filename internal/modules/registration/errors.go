package registration

import "errors"

var (
	ErrEmailNotVerified = errors.New("email not verified")
	ErrInvalidDraft     = errors.New("draft has validation errors")
	ErrSubmitInFlight   = errors.New("submission already in flight")
	ErrRequestInFlight  = errors.New("code request already in flight")
	ErrVerifyInFlight   = errors.New("code verification already in flight")
	ErrInvalidEmail     = errors.New("enter a valid email before requesting a code")
	ErrEmptyCode        = errors.New("verification code is empty")
	ErrCodeNotRequested = errors.New("no verification code was requested")
	ErrAlreadyVerified  = errors.New("email already verified")
)
