package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderCreatedEvent is published after an order commits and drives the
// confirmation email.
type OrderCreatedEvent struct {
	OrderUID   uuid.UUID `json:"order_uid"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name"`
	PartsCount int       `json:"parts_count"`
	NewAccount bool      `json:"new_account"`
	CreatedAt  time.Time `json:"created_at"`
}
