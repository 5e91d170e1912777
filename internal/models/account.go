package models

import "strings"

// DefaultCountry is assumed whenever an account carries no explicit country.
const DefaultCountry = "USA"

// CustomerAccount is the wire representation of a customer record.
//
// AccountID is the server-assigned canonical identity. Some older API
// consumers still read and write the record identity as "id", so both
// fields are kept on the wire; AccountID wins whenever it is set.
type CustomerAccount struct {
	AccountID   int64   `json:"accountId,omitempty"`
	ID          int64   `json:"id,omitempty"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country,omitempty"`
	DateCreated string  `json:"dateCreated,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	Joined      string  `json:"joined,omitempty"`
	Company     string  `json:"company,omitempty"`
	Status      string  `json:"status,omitempty"`
	Balance     float64 `json:"balance,omitempty"`
}

// Identity returns the canonical identity of the account: AccountID when
// set, otherwise the legacy ID field.
func (a *CustomerAccount) Identity() int64 {
	if a.AccountID != 0 {
		return a.AccountID
	}
	return a.ID
}

// Validate performs basic validation on account data
func (a *CustomerAccount) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrInvalidInput("email is required")
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidInput("email is not a valid address")
	}
	// The edit flow sends a dialable "+<countryCode><digits>" form;
	// everything else on the wire is bare digits.
	for _, r := range strings.TrimPrefix(a.PhoneNumber, "+") {
		if r < '0' || r > '9' {
			return ErrInvalidInput("phoneNumber must contain digits only")
		}
	}
	return nil
}
