package service

import "github.com/mwasonga/customer-console/internal/models"

// UpdateAccountRequest is a partial account payload. Nil fields are
// left at their stored values; set fields overwrite, including to the
// empty string.
type UpdateAccountRequest struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Country     *string `json:"country,omitempty"`
}

// ApplyTo overlays the set fields onto an existing account
func (r *UpdateAccountRequest) ApplyTo(account *models.CustomerAccount) {
	if r.FirstName != nil {
		account.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		account.LastName = *r.LastName
	}
	if r.Email != nil {
		account.Email = *r.Email
	}
	if r.PhoneNumber != nil {
		account.PhoneNumber = *r.PhoneNumber
	}
	if r.Address != nil {
		account.Address = *r.Address
	}
	if r.City != nil {
		account.City = *r.City
	}
	if r.State != nil {
		account.State = *r.State
	}
	if r.Country != nil {
		account.Country = *r.Country
	}
}
