package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered customer account. PasswordHash is a bcrypt hash and
// never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	CountryCode  string    `json:"countryCode,omitempty"`
	City         string    `json:"city,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
