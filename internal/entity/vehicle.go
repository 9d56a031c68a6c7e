package entity

// VehicleCategory is chosen on the first wizard step and decides which
// identification modes are available on the second one.
type VehicleCategory string

const (
	CategoryPassenger  VehicleCategory = "passenger"
	CategoryCommercial VehicleCategory = "commercial"
	CategoryChinese    VehicleCategory = "chinese"
)

func (c VehicleCategory) Valid() bool {
	switch c {
	case CategoryPassenger, CategoryCommercial, CategoryChinese:
		return true
	}
	return false
}

// VINLength is the only accepted VIN length.
const VINLength = 17

// Vehicle identifies the customer's car either by VIN or by the manual
// make/model/year fields. After the identification step completes exactly
// one of the two sides is populated.
type Vehicle struct {
	Category     VehicleCategory `json:"category"                validate:"required"`
	VIN          string          `json:"vin,omitempty"           validate:"omitempty,len=17"`
	Make         string          `json:"make,omitempty"          validate:"max=100"`
	Model        string          `json:"model,omitempty"         validate:"max=100"`
	Year         int             `json:"year,omitempty"          validate:"omitempty,gte=1900"`
	EngineVolume string          `json:"engineVolume,omitempty"  validate:"max=50"`
	FuelType     string          `json:"fuelType,omitempty"      validate:"max=50"`
}

// ByVIN reports whether the vehicle is identified by VIN rather than by
// the manual fields.
func (v *Vehicle) ByVIN() bool {
	return v.VIN != ""
}
