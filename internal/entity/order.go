package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDone       OrderStatus = "done"
)

// Order is a persisted part request assembled by the wizard. UserID is nil
// for guest orders.
type Order struct {
	OrderUID  uuid.UUID   `json:"order_uid"         validate:"required"`
	UserID    *uuid.UUID  `json:"user_id,omitempty"`
	Status    OrderStatus `json:"status"            validate:"required"`
	Vehicle   *Vehicle    `json:"vehicle"           validate:"required"`
	Parts     []*Part     `json:"parts"             validate:"required,min=1,dive"`
	Contact   *Contact    `json:"contactInfo"       validate:"required"`
	CreatedAt time.Time   `json:"created_at"`
}
