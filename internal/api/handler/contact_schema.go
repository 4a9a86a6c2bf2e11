package handler

import (
	"time"

	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

const birthdayLayout = "2006-01-02"

type contactRequest struct {
	FirstName   string `json:"first_name"   validate:"required"`
	LastName    string `json:"last_name"    validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Birthday    string `json:"birthday"     validate:"required,datetime=2006-01-02"`
	Note        string `json:"note"`
}

type contactResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Birthday    string `json:"birthday"`
	Note        string `json:"note,omitempty"`
}

func (r contactRequest) toInput() ports.ContactInput {
	// Birthday format is enforced by the datetime validator.
	birthday, _ := time.Parse(birthdayLayout, r.Birthday)
	return ports.ContactInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Birthday:    birthday,
		Note:        r.Note,
	}
}

func toContactResponse(c *domain.Contact) contactResponse {
	return contactResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Birthday:    c.Birthday.Format(birthdayLayout),
		Note:        c.Note,
	}
}

func toContactResponses(contacts []*domain.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}
	return out
}
