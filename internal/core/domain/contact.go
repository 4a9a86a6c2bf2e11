package domain

import "time"

// Contact is an address-book entry owned by exactly one user. Email is
// globally unique; Birthday carries a calendar date only (UTC midnight).
type Contact struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Birthday    time.Time `json:"birthday"`
	Note        string    `json:"note,omitempty"`
}
