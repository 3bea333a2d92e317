package registration

import (
	"strconv"
	"strings"

	"github.com/prasanthpraju/Regeve-sub001/internal/domain"
)

// CreateAccountRequest is the shape the hosted content API expects for a
// new admin record. Field names follow the API collection schema.
type CreateAccountRequest struct {
	CompanyName   string `json:"Company_Name"`
	FullName      string `json:"Full_Name"`
	Email         string `json:"Email"`
	DateOfBirth   string `json:"DOB"`
	Gender        string `json:"Gender"`
	Occupation    string `json:"Occupation"`
	PhoneNumber   int64  `json:"Phone_Number"`
	IDCardNumber  string `json:"ID_Card_Number"`
	Password      string `json:"Password"`
	EmailVerify   bool   `json:"Email_Verify"`
	ApprovedAdmin bool   `json:"Approved_Admin"`
}

// CreateAccountResult is what the API returns on success.
type CreateAccountResult struct {
	Account domain.AdminAccount
	Token   string
}

// buildCreateRequest normalizes a validated draft into the API payload:
// strings trimmed, gender canonicalized, phone collapsed to digits and
// coerced to a number. New accounts start email-verified (the OTP flow
// just proved it) and not admin-approved.
func buildCreateRequest(draft domain.RegistrationDraft) CreateAccountRequest {
	phone, _ := strconv.ParseInt(domain.StripNonDigits(draft.PhoneNumber), 10, 64)

	return CreateAccountRequest{
		CompanyName:   strings.TrimSpace(draft.CompanyName),
		FullName:      strings.TrimSpace(draft.FullName),
		Email:         strings.TrimSpace(draft.Email),
		DateOfBirth:   strings.TrimSpace(draft.DateOfBirth),
		Gender:        domain.CanonicalGender(draft.Gender),
		Occupation:    strings.TrimSpace(draft.Occupation),
		PhoneNumber:   phone,
		IDCardNumber:  strings.TrimSpace(draft.IDCardNumber),
		Password:      draft.Password,
		EmailVerify:   true,
		ApprovedAdmin: false,
	}
}
