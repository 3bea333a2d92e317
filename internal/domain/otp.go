package domain

type OtpPhase string

const (
	OtpIdle      OtpPhase = "idle"
	OtpSending   OtpPhase = "sending"
	OtpSent      OtpPhase = "sent"
	OtpVerifying OtpPhase = "verifying"
	OtpVerified  OtpPhase = "verified"
)

// OtpSession tracks the email-verification sub-flow. Email is bound at the
// moment the code was requested; editing the draft email afterwards resets
// the whole session so a verified flag can never outlive its email.
type OtpSession struct {
	Phase         OtpPhase `json:"phase"`
	Email         string   `json:"email"`
	Code          string   `json:"code"`
	StatusMessage string   `json:"statusMessage,omitempty"`
}

func NewOtpSession() OtpSession {
	return OtpSession{Phase: OtpIdle}
}

func (s OtpSession) Sent() bool {
	return s.Phase == OtpSent || s.Phase == OtpVerifying || s.Phase == OtpVerified
}

func (s OtpSession) Verified() bool {
	return s.Phase == OtpVerified
}

// InFlight reports whether a send or verify request is outstanding.
func (s OtpSession) InFlight() bool {
	return s.Phase == OtpSending || s.Phase == OtpVerifying
}
