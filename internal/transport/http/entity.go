package httpt

import (
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse is the field-error shape every validation failure uses.
// The frontend keys off Field to highlight the offending input.
type ValidationResponse struct {
	Message string        `json:"message"`
	Errors  wizard.Issues `json:"errors"`
}

type draftResponse struct {
	DraftID       string           `json:"draft_id"`
	Step          int              `json:"step"`
	StepName      string           `json:"step_name"`
	Category      string           `json:"category"`
	Authenticated bool             `json:"authenticated"`
	Vehicle       *vehicleFormView `json:"vehicle,omitempty"`
	Parts         []wizard.PartRow `json:"parts,omitempty"`
	Contact       *contactFormView `json:"contact,omitempty"`
}

type vehicleFormView struct {
	InputMethod  string `json:"inputMethod"`
	VIN          string `json:"vin,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         string `json:"year,omitempty"`
	EngineVolume string `json:"engineVolume,omitempty"`
	FuelType     string `json:"fuelType,omitempty"`
}

type contactFormView struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CountryCode   string `json:"countryCode"`
	City          string `json:"city,omitempty"`
	Comments      string `json:"comments,omitempty"`
	CreateAccount bool   `json:"createAccount"`
}

type categoryRequest struct {
	Category string `json:"category" binding:"required"`
}

type vehicleModeRequest struct {
	InputMethod string `json:"inputMethod" binding:"required,oneof=vin manual"`
}

type vehicleRequest struct {
	InputMethod  string `json:"inputMethod,omitempty"`
	VIN          string `json:"vin"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         string `json:"year"`
	EngineVolume string `json:"engineVolume"`
	FuelType     string `json:"fuelType"`
}

type partRowIndexRequest struct {
	Index int `json:"index"`
}

type partQuantityRequest struct {
	Index  int    `json:"index"`
	Action string `json:"action" binding:"required,oneof=increment decrement set"`
	Value  string `json:"value"`
}

type partsRequest struct {
	Rows []wizard.PartRow `json:"rows" binding:"required,min=1"`
}

type contactRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CountryCode     string `json:"countryCode"`
	City            string `json:"city"`
	Comments        string `json:"comments"`
	CreateAccount   bool   `json:"createAccount"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type orderResponse struct {
	Order      *entity.Order `json:"order"`
	NewAccount bool          `json:"new_account,omitempty"`
	Token      string        `json:"token,omitempty"`
}

type registerRequest struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

type userResponse struct {
	User      *entity.User `json:"user"`
	OrderUIDs []string     `json:"order_uids"`
}
