package registration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prasanthpraju/Regeve-sub001/internal/domain"
)

// Submission panel messages.
const (
	msgVerifyFirst  = "Verify your email before submitting."
	msgFixFields    = "Fix the highlighted fields and try again."
	msgSubmitFailed = "Registration failed. Try again."
	msgServerError  = "The server had a problem. Try again later."
	msgRejected     = "The server rejected the registration data."
)

// Flow owns one in-progress admin registration: the draft, its validation
// state, the OTP sub-flow and submission. All methods are safe for
// concurrent use; network calls run outside the lock so the state stays
// observable while a request is in flight.
type Flow struct {
	mu      sync.Mutex
	api     AccountAPI
	store   SessionStore
	logger  *slog.Logger
	now     func() time.Time
	draft   domain.RegistrationDraft
	errors  domain.FieldErrors
	touched map[string]bool
	otp     domain.OtpSession

	submitting    bool
	submitted     bool
	submitMessage string
}

// FlowState is the snapshot the presentation layer renders from. Maps are
// copies; mutating them does not affect the flow.
type FlowState struct {
	Draft         domain.RegistrationDraft
	Errors        domain.FieldErrors
	Touched       map[string]bool
	Otp           domain.OtpSession
	Submitting    bool
	Submitted     bool
	SubmitMessage string
}

type FlowOption func(*Flow)

// WithLogger sets the logger used for non-fatal housekeeping failures
// (session persistence). Defaults to slog.Default().
func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) {
		f.logger = logger
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) FlowOption {
	return func(f *Flow) {
		f.now = now
	}
}

func NewFlow(api AccountAPI, store SessionStore, opts ...FlowOption) *Flow {
	f := &Flow{
		api:     api,
		store:   store,
		logger:  slog.Default(),
		now:     time.Now,
		errors:  domain.FieldErrors{},
		touched: map[string]bool{},
		otp:     domain.NewOtpSession(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetField applies a form input event. Field names are the json names the
// presentation layer uses. Editing the email while a code has been sent or
// verified resets the OTP session, so a verified flag can never refer to a
// different email than the one submitted.
func (f *Flow) SetField(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case "companyName":
		f.draft.CompanyName = value
	case "fullName":
		f.draft.FullName = value
	case "email":
		if f.draft.Email != value && (f.otp.Sent() || f.otp.Verified()) {
			f.otp = domain.NewOtpSession()
		}
		f.draft.Email = value
	case "dateOfBirth":
		f.draft.DateOfBirth = value
	case "gender":
		f.draft.Gender = domain.Gender(strings.ToLower(strings.TrimSpace(value)))
	case "occupation":
		f.draft.Occupation = value
	case "phoneNumber":
		f.draft.PhoneNumber = value
	case "idCardNumber":
		f.draft.IDCardNumber = value
	case "password":
		f.draft.Password = value
	case "confirmPassword":
		f.draft.ConfirmPassword = value
	default:
		return
	}

	f.errors = Validate(f.draft)
	f.submitted = false
}

// Touch marks a field as visited so the presentation layer starts showing
// its error.
func (f *Flow) Touch(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[field] = true
}

// Submit runs the final create-account call. It refuses while another
// submission is in flight, while the email is unverified, or while any
// field fails validation (marking every field touched so all errors
// surface at once). On success the draft and OTP session reset and the
// session token and profile land in the store for the dashboard.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	if !f.otp.Verified() {
		f.submitMessage = msgVerifyFirst
		f.mu.Unlock()
		return ErrEmailNotVerified
	}

	f.errors = Validate(f.draft)
	if !f.errors.Empty() {
		for _, field := range domain.DraftFields {
			f.touched[field] = true
		}
		f.submitMessage = msgFixFields
		f.mu.Unlock()
		return ErrInvalidDraft
	}

	req := buildCreateRequest(f.draft)
	f.submitting = true
	f.submitMessage = ""
	f.mu.Unlock()

	result, err := f.api.CreateAccount(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.submitMessage = submitFailureMessage(err)
		return err
	}

	f.persistSession(ctx, result)
	f.resetLocked()
	f.submitted = true
	return nil
}

// persistSession writes the returned token and profile for the dashboard
// screens. The account already exists at this point, so a store failure
// is logged rather than failing the registration.
func (f *Flow) persistSession(ctx context.Context, result *CreateAccountResult) {
	if f.store == nil || result == nil {
		return
	}
	session := domain.Session{
		Token:   result.Token,
		Profile: result.Account,
		SavedAt: f.now(),
	}
	profile, err := json.Marshal(session.Profile)
	if err != nil {
		f.logger.Warn("encode session profile", "error", err)
		return
	}
	if err := f.store.Set(ctx, SessionTokenKey, session.Token); err != nil {
		f.logger.Warn("persist session token", "error", err)
	}
	if err := f.store.Set(ctx, SessionProfileKey, string(profile)); err != nil {
		f.logger.Warn("persist session profile", "error", err)
	}
}

// DismissError clears the standalone submission message.
func (f *Flow) DismissError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitMessage = ""
}

// AcknowledgeSubmitted clears the submitted signal after the presentation
// layer has shown its confirmation.
func (f *Flow) AcknowledgeSubmitted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = false
}

// Reset abandons the current flow: empty draft, fresh OTP session.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
	f.submitted = false
}

func (f *Flow) resetLocked() {
	f.draft = domain.RegistrationDraft{}
	f.errors = domain.FieldErrors{}
	f.touched = map[string]bool{}
	f.otp = domain.NewOtpSession()
	f.submitMessage = ""
}

// State returns a render snapshot. The contained maps are copies.
func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := make(domain.FieldErrors, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	touched := make(map[string]bool, len(f.touched))
	for k, v := range f.touched {
		touched[k] = v
	}

	return FlowState{
		Draft:         f.draft,
		Errors:        errs,
		Touched:       touched,
		Otp:           f.otp,
		Submitting:    f.submitting,
		Submitted:     f.submitted,
		SubmitMessage: f.submitMessage,
	}
}

// submitFailureMessage picks the most specific message available: the
// API's structured validation errors, then its message field, then a
// fallback keyed by status. Transport failures get the connection message.
func submitFailureMessage(err error) string {
	if IsTransport(err) {
		return msgNoConnection
	}
	apiErr, ok := AsAPIError(err)
	if !ok {
		return msgSubmitFailed
	}
	if len(apiErr.Validation) > 0 {
		return fmt.Sprintf("Validation errors: %s", strings.Join(apiErr.Validation, ", "))
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case apiErr.Status >= 500:
		return msgServerError
	case apiErr.Status == 400:
		return msgRejected
	default:
		return msgSubmitFailed
	}
}
