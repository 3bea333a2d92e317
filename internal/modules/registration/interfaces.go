package registration

import "context"

// AccountAPI covers only the remote operations the flow uses.
type AccountAPI interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*CreateAccountResult, error)
}

// SessionStore is the opaque key-value persistence the dashboard screens
// read the signed-in session from. Injected so the flow is testable
// without touching disk.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store keys written after a successful registration.
const (
	SessionTokenKey   = "session.token"
	SessionProfileKey = "session.profile"
)
