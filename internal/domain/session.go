package domain

import "time"

// AdminAccount is the record the Account API returns after a successful
// create-account call.
type AdminAccount struct {
	ID            int64  `json:"id"`
	CompanyName   string `json:"companyName"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	Occupation    string `json:"occupation"`
	PhoneNumber   int64  `json:"phoneNumber"`
	IDCardNumber  string `json:"idCardNumber"`
	EmailVerify   bool   `json:"emailVerify"`
	ApprovedAdmin bool   `json:"approvedAdmin"`
}

// Session is what the dashboard screens read back from the local store.
type Session struct {
	Token   string       `json:"token"`
	Profile AdminAccount `json:"profile"`
	SavedAt time.Time    `json:"savedAt"`
}
