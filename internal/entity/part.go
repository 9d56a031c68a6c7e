package entity

// MinPartQuantity is the floor every requested part quantity is clamped to.
const MinPartQuantity = 1

// Part is one requested line item. Position keeps the order the customer
// entered the rows in; it is meaningful for display and submission.
type Part struct {
	Name        string `json:"name"                  validate:"required,max=200"`
	Quantity    int    `json:"quantity"              validate:"gte=1"`
	SKU         string `json:"sku,omitempty"         validate:"max=100"`
	Brand       string `json:"brand,omitempty"       validate:"max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	Position    int    `json:"-"`
}
