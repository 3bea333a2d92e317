package registration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prasanthpraju/Regeve-sub001/internal/domain"
)

// Mock Account API implementing the interface
type mockAccountAPI struct {
	mock.Mock
}

func (m *mockAccountAPI) RequestOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *mockAccountAPI) VerifyOTP(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *mockAccountAPI) CreateAccount(ctx context.Context, req CreateAccountRequest) (*CreateAccountResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreateAccountResult), args.Error(1)
}

// Mock Session Store
type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockSessionStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockSessionStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func applyDraft(f *Flow, d domain.RegistrationDraft) {
	f.SetField("companyName", d.CompanyName)
	f.SetField("fullName", d.FullName)
	f.SetField("email", d.Email)
	f.SetField("dateOfBirth", d.DateOfBirth)
	f.SetField("gender", string(d.Gender))
	f.SetField("occupation", d.Occupation)
	f.SetField("phoneNumber", d.PhoneNumber)
	f.SetField("idCardNumber", d.IDCardNumber)
	f.SetField("password", d.Password)
	f.SetField("confirmPassword", d.ConfirmPassword)
}

// verifyEmail walks the flow through a successful OTP round trip.
func verifyEmail(t *testing.T, f *Flow, api *mockAccountAPI, email string) {
	t.Helper()
	api.On("RequestOTP", mock.Anything, email).Return(nil).Once()
	api.On("VerifyOTP", mock.Anything, email, "482913").Return(nil).Once()

	require.NoError(t, f.RequestCode(context.Background()))
	require.NoError(t, f.SubmitCode(context.Background(), "482913"))
	require.Equal(t, domain.OtpVerified, f.State().Otp.Phase)
}

func TestFlow_Submit_RefusedUntilVerified(t *testing.T) {
	api := new(mockAccountAPI)
	flow := NewFlow(api, nil)
	applyDraft(flow, validDraft())

	err := flow.Submit(context.Background())

	assert.ErrorIs(t, err, ErrEmailNotVerified)
	assert.Equal(t, "Verify your email before submitting.", flow.State().SubmitMessage)
	api.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestFlow_Submit_InvalidDraftTouchesEveryField(t *testing.T) {
	api := new(mockAccountAPI)
	flow := NewFlow(api, nil)
	applyDraft(flow, validDraft())
	verifyEmail(t, flow, api, "asha@regeve.io")

	// Breaking a non-email field keeps the verification but fails validation.
	flow.SetField("fullName", "")

	err := flow.Submit(context.Background())

	require.ErrorIs(t, err, ErrInvalidDraft)
	state := flow.State()
	for _, field := range domain.DraftFields {
		assert.True(t, state.Touched[field], "field %s not touched", field)
	}
	assert.True(t, state.Errors.Has("fullName"))
	api.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestFlow_Submit_TransformsDraft(t *testing.T) {
	api := new(mockAccountAPI)
	flow := NewFlow(api, nil)

	draft := validDraft()
	draft.CompanyName = "  Regeve Labs  "
	draft.Gender = domain.GenderOther
	draft.PhoneNumber = "(555) 123-4567"
	applyDraft(flow, draft)
	verifyEmail(t, flow, api, "asha@regeve.io")

	api.On("CreateAccount", mock.Anything, mock.MatchedBy(func(req CreateAccountRequest) bool {
		return req.CompanyName == "Regeve Labs" &&
			req.Gender == "Others" &&
			req.PhoneNumber == 5551234567 &&
			req.EmailVerify &&
			!req.ApprovedAdmin
	})).Return(&CreateAccountResult{Token: "tok"}, nil).Once()

	require.NoError(t, flow.Submit(context.Background()))
	api.AssertExpectations(t)
}

func TestFlow_Submit_SuccessResetsAndStoresSession(t *testing.T) {
	api := new(mockAccountAPI)
	store := new(mockSessionStore)
	flow := NewFlow(api, store)
	applyDraft(flow, validDraft())
	verifyEmail(t, flow, api, "asha@regeve.io")

	result := &CreateAccountResult{
		Token: "jwt-token",
		Account: domain.AdminAccount{
			ID:          42,
			Email:       "asha@regeve.io",
			EmailVerify: true,
		},
	}
	api.On("CreateAccount", mock.Anything, mock.Anything).Return(result, nil).Once()
	store.On("Set", mock.Anything, SessionTokenKey, "jwt-token").Return(nil).Once()
	store.On("Set", mock.Anything, SessionProfileKey, mock.MatchedBy(func(v string) bool {
		return v != ""
	})).Return(nil).Once()

	require.NoError(t, flow.Submit(context.Background()))

	state := flow.State()
	assert.True(t, state.Submitted)
	assert.Equal(t, domain.RegistrationDraft{}, state.Draft)
	assert.Equal(t, domain.OtpIdle, state.Otp.Phase)
	assert.Empty(t, state.Touched)
	assert.Empty(t, state.SubmitMessage)
	store.AssertExpectations(t)

	flow.AcknowledgeSubmitted()
	assert.False(t, flow.State().Submitted)
}

func TestFlow_Submit_StoreFailureDoesNotFailRegistration(t *testing.T) {
	api := new(mockAccountAPI)
	store := new(mockSessionStore)
	flow := NewFlow(api, store)
	applyDraft(flow, validDraft())
	verifyEmail(t, flow, api, "asha@regeve.io")

	api.On("CreateAccount", mock.Anything, mock.Anything).
		Return(&CreateAccountResult{Token: "tok"}, nil).Once()
	store.On("Set", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	require.NoError(t, flow.Submit(context.Background()))
	assert.True(t, flow.State().Submitted)
}

func TestFlow_Submit_StructuredValidationErrors(t *testing.T) {
	api := new(mockAccountAPI)
	flow := NewFlow(api, nil)
	applyDraft(flow, validDraft())
	verifyEmail(t, flow, api, "asha@regeve.io")

	api.On("CreateAccount", mock.Anything, mock.Anything).Return(nil, &APIError{
		Status:     400,
		Message:    "ValidationError",
		Validation: []string{"Email already taken"},
	}).Once()

	err := flow.Submit(context.Background())

	require.Error(t, err)
	state := flow.State()
	assert.Equal(t, "Validation errors: Email already taken", state.SubmitMessage)
	// Draft survives so the user can retry without re-entering everything.
	assert.Equal(t, "asha@regeve.io", state.Draft.Email)
	assert.False(t, state.Submitted)
	assert.Equal(t, domain.OtpVerified, state.Otp.Phase)
}

func TestFlow_Submit_FailureMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &APIError{Status: 403, Message: "Registration closed"}, "Registration closed"},
		{"server error fallback", &APIError{Status: 500}, msgServerError},
		{"bad request fallback", &APIError{Status: 400}, msgRejected},
		{"unknown status fallback", &APIError{Status: 418}, msgSubmitFailed},
		{"transport", &TransportError{Err: errors.New("dial tcp: no route")}, msgNoConnection},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := new(mockAccountAPI)
			flow := NewFlow(api, nil)
			applyDraft(flow, validDraft())
			verifyEmail(t, flow, api, "asha@regeve.io")

			api.On("CreateAccount", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			require.Error(t, flow.Submit(context.Background()))
			assert.Equal(t, tc.want, flow.State().SubmitMessage)
		})
	}
}

func TestFlow_Submit_SingleFlight(t *testing.T) {
	api := new(mockAccountAPI)
	flow := NewFlow(api, nil)
	applyDraft(flow, validDraft())
	verifyEmail(t, flow, api, "asha@regeve.io")

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("CreateAccount", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&CreateAccountResult{Token: "tok"}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, flow.Submit(context.Background()))
	}()

	<-started
	assert.True(t, flow.State().Submitting)
	assert.ErrorIs(t, flow.Submit(context.Background()), ErrSubmitInFlight)

	close(release)
	wg.Wait()
	assert.False(t, flow.State().Submitting)
}

func TestFlow_State_ReturnsCopies(t *testing.T) {
	flow := NewFlow(new(mockAccountAPI), nil)
	flow.SetField("email", "bad")
	flow.Touch("email")

	state := flow.State()
	state.Errors["email"] = "mutated"
	state.Touched["email"] = false

	fresh := flow.State()
	assert.NotEqual(t, "mutated", fresh.Errors["email"])
	assert.True(t, fresh.Touched["email"])
}

func TestFlow_Reset(t *testing.T) {
	api := new(mockAccountAPI)
	flow := NewFlow(api, nil)
	applyDraft(flow, validDraft())
	verifyEmail(t, flow, api, "asha@regeve.io")

	flow.Reset()

	state := flow.State()
	assert.Equal(t, domain.RegistrationDraft{}, state.Draft)
	assert.Equal(t, domain.OtpIdle, state.Otp.Phase)
	assert.Empty(t, state.Touched)
}
