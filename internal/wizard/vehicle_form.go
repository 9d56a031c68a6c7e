package wizard

import (
	"fmt"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
)

// Mode selects which identification rule-set is active on the vehicle step.
type Mode string

const (
	ModeVIN    Mode = "vin"
	ModeManual Mode = "manual"
)

const minVehicleYear = 1900

// VehicleForm is the working state of the vehicle identification step. It
// edits a scratch copy seeded from the parent payload; the payload itself is
// only touched by a successful submit, so toggling modes back and forth
// never loses previously saved values.
type VehicleForm struct {
	category entity.VehicleCategory
	saved    entity.Vehicle

	Mode         Mode
	VIN          string
	Make         string
	Model        string
	Year         string
	EngineVolume string
	FuelType     string
}

func newVehicleForm(category entity.VehicleCategory, saved entity.Vehicle) *VehicleForm {
	f := &VehicleForm{
		category: category,
		saved:    saved,
		Mode:     defaultMode(category, saved),
	}
	f.reseed()
	return f
}

// Chinese-market vehicles have no usable VIN lookup, so manual entry is the
// only mode offered for them.
func defaultMode(category entity.VehicleCategory, saved entity.Vehicle) Mode {
	if category == entity.CategoryChinese {
		return ModeManual
	}
	if saved.Make != "" || saved.Model != "" || saved.Year != 0 {
		return ModeManual
	}
	return ModeVIN
}

func (f *VehicleForm) Category() entity.VehicleCategory {
	return f.category
}

// SetMode switches the active rule-set, discarding anything typed since the
// last switch and reseeding the fields from the parent payload.
func (f *VehicleForm) SetMode(m Mode) error {
	if m != ModeVIN && m != ModeManual {
		return fmt.Errorf("wizard: unknown vehicle input mode %q", m)
	}
	if m == ModeVIN && f.category == entity.CategoryChinese {
		return fmt.Errorf("wizard: vin mode is not available for category %q", f.category)
	}
	f.Mode = m
	f.reseed()
	return nil
}

func (f *VehicleForm) reseed() {
	f.VIN = f.saved.VIN
	f.Make = f.saved.Make
	f.Model = f.saved.Model
	if f.saved.Year != 0 {
		f.Year = fmt.Sprintf("%04d", f.saved.Year)
	} else {
		f.Year = ""
	}
	f.EngineVolume = f.saved.EngineVolume
	f.FuelType = f.saved.FuelType
}

func maxVehicleYear() int {
	return time.Now().Year() + 1
}

func (f *VehicleForm) validate() Issues {
	var issues Issues

	switch f.Mode {
	case ModeVIN:
		if len(f.VIN) != entity.VINLength {
			issues.add("vin", fmt.Sprintf("VIN must be exactly %d characters", entity.VINLength))
		}
	case ModeManual:
		if f.Make == "" {
			issues.add("make", "make is required")
		}
		if f.Model == "" {
			issues.add("model", "model is required")
		}
		issues = append(issues, validateYear(f.Year)...)
	default:
		issues.add("inputMethod", "unknown vehicle input mode")
	}

	return issues
}

func validateYear(year string) Issues {
	var issues Issues

	if len(year) != 4 || !allDigits(year) {
		issues.add("year", "year must be 4 digits")
		return issues
	}

	n := 0
	for _, r := range year {
		n = n*10 + int(r-'0')
	}
	if n < minVehicleYear || n > maxVehicleYear() {
		issues.add("year", fmt.Sprintf("year must be between %d and %d", minVehicleYear, maxVehicleYear()))
	}
	return issues
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// result builds the partial vehicle record the active mode emits. The
// inactive side is cleared explicitly so no stale data survives a mode
// switch.
func (f *VehicleForm) result() entity.Vehicle {
	v := entity.Vehicle{Category: f.category}

	if f.Mode == ModeVIN {
		v.VIN = f.VIN
		return v
	}

	v.Make = f.Make
	v.Model = f.Model
	for _, r := range f.Year {
		v.Year = v.Year*10 + int(r-'0')
	}
	v.EngineVolume = f.EngineVolume
	v.FuelType = f.FuelType
	return v
}

// validateVehicleRecord re-runs the identification rules over an already
// assembled vehicle. Used by the terminal full-payload validation and by the
// one-shot order endpoints.
func validateVehicleRecord(v *entity.Vehicle) Issues {
	var issues Issues

	if v == nil {
		issues.add("vehicle", "vehicle is required")
		return issues
	}
	if !v.Category.Valid() {
		issues.add("category", "unknown vehicle category")
	}

	if v.ByVIN() {
		if v.Category == entity.CategoryChinese {
			issues.add("vin", "VIN entry is not available for this category")
		}
		if len(v.VIN) != entity.VINLength {
			issues.add("vin", fmt.Sprintf("VIN must be exactly %d characters", entity.VINLength))
		}
		if v.Make != "" || v.Model != "" || v.Year != 0 {
			issues.add("vehicle", "VIN and manual identification are mutually exclusive")
		}
		return issues
	}

	if v.Make == "" {
		issues.add("make", "make is required")
	}
	if v.Model == "" {
		issues.add("model", "model is required")
	}
	if v.Year < minVehicleYear || v.Year > maxVehicleYear() {
		issues.add("year", fmt.Sprintf("year must be between %d and %d", minVehicleYear, maxVehicleYear()))
	}
	return issues
}
