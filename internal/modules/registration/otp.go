package registration

import (
	"context"
	"strings"

	"github.com/prasanthpraju/Regeve-sub001/internal/domain"
)

// User-facing OTP panel messages. API-provided messages take precedence
// over the generic fallbacks.
const (
	msgCodeSent      = "Verification code sent. Check your inbox."
	msgVerified      = "Email verified."
	msgSendFailed    = "Failed to send verification code. Try again."
	msgVerifyFailed  = "Verification failed. Check the code and try again."
	msgNoConnection  = "Could not reach the server. Check your connection and try again."
	msgEmailRequired = "Enter a valid email before requesting a code."
)

// RequestCode drives Idle -> Sending -> Sent. Guarded by the email
// validation rule; single-flight while Sending. On failure the phase
// returns to where it was, carrying a status message.
func (f *Flow) RequestCode(ctx context.Context) error {
	f.mu.Lock()
	switch f.otp.Phase {
	case domain.OtpSending:
		f.mu.Unlock()
		return ErrRequestInFlight
	case domain.OtpVerifying:
		f.mu.Unlock()
		return ErrVerifyInFlight
	case domain.OtpVerified:
		f.mu.Unlock()
		return ErrAlreadyVerified
	}

	email := strings.TrimSpace(f.draft.Email)
	if !ValidEmail(email) {
		f.touched["email"] = true
		f.errors = Validate(f.draft)
		f.otp.StatusMessage = msgEmailRequired
		f.mu.Unlock()
		return ErrInvalidEmail
	}

	prev := f.otp.Phase // Idle, or Sent on a resend
	f.otp.Phase = domain.OtpSending
	f.otp.StatusMessage = ""
	f.mu.Unlock()

	err := f.api.RequestOTP(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.otp.Phase = prev
		f.otp.StatusMessage = otpFailureMessage(err, msgSendFailed)
		return err
	}
	if strings.TrimSpace(f.draft.Email) != email {
		// Email was edited while the request was in flight; the response
		// is stale, drop it.
		f.otp = domain.NewOtpSession()
		return nil
	}
	f.otp.Phase = domain.OtpSent
	f.otp.Email = email
	f.otp.StatusMessage = msgCodeSent
	return nil
}

// SubmitCode drives Sent -> Verifying -> Verified against the email bound
// at request time. Guarded by a non-empty code; single-flight while
// Verifying. Failure lands back in Sent with a message.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	f.mu.Lock()
	switch f.otp.Phase {
	case domain.OtpSending:
		f.mu.Unlock()
		return ErrRequestInFlight
	case domain.OtpVerifying:
		f.mu.Unlock()
		return ErrVerifyInFlight
	case domain.OtpVerified:
		f.mu.Unlock()
		return ErrAlreadyVerified
	case domain.OtpIdle:
		f.mu.Unlock()
		return ErrCodeNotRequested
	}

	code = strings.TrimSpace(code)
	if code == "" {
		f.otp.StatusMessage = "Enter the verification code from your email."
		f.mu.Unlock()
		return ErrEmptyCode
	}

	email := f.otp.Email
	f.otp.Phase = domain.OtpVerifying
	f.otp.Code = code
	f.otp.StatusMessage = ""
	f.mu.Unlock()

	err := f.api.VerifyOTP(ctx, email, code)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.otp.Email != email {
		// Reset raced with the verify call; whatever came back refers to
		// an email the user no longer wants.
		return err
	}
	if err != nil {
		f.otp.Phase = domain.OtpSent
		f.otp.StatusMessage = otpFailureMessage(err, msgVerifyFailed)
		return err
	}
	if strings.TrimSpace(f.draft.Email) != email {
		f.otp = domain.NewOtpSession()
		return nil
	}
	f.otp.Phase = domain.OtpVerified
	f.otp.StatusMessage = msgVerified
	return nil
}

// otpFailureMessage prefers the server's own message, falls back to a
// generic one, and keeps transport failures distinct.
func otpFailureMessage(err error, fallback string) string {
	if IsTransport(err) {
		return msgNoConnection
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
