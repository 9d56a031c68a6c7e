package entity

// MinPhoneDigits is the minimum number of raw digits a phone number must
// carry. Display formatting is stripped before counting.
const MinPhoneDigits = 10

// Contact holds the final-step contact details of an order.
type Contact struct {
	Name        string `json:"name"               validate:"required,max=200"`
	Email       string `json:"email,omitempty"    validate:"omitempty,email"`
	Phone       string `json:"phone"              validate:"required"`
	CountryCode string `json:"countryCode"        validate:"required"`
	City        string `json:"city,omitempty"     validate:"max=100"`
	Comments    string `json:"comments,omitempty" validate:"max=2000"`
}
