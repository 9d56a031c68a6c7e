package wizard

import "fmt"

// Step numbers the four wizard screens. Transitions only move one step at a
// time: forward through a successful sub-form submit, backward through Back.
type Step int

const (
	StepCategory Step = iota + 1
	StepVehicle
	StepParts
	StepContact
)

const (
	firstStep = StepCategory
	lastStep  = StepContact
)

func (s Step) String() string {
	switch s {
	case StepCategory:
		return "category"
	case StepVehicle:
		return "vehicle"
	case StepParts:
		return "parts"
	case StepContact:
		return "contact"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// ErrStepMismatch is returned when a sub-form operation is invoked while a
// different step is active. This is a caller bug, not a validation outcome.
type ErrStepMismatch struct {
	Want Step
	Got  Step
}

func (e *ErrStepMismatch) Error() string {
	return fmt.Sprintf("wizard: operation belongs to step %q but step %q is active", e.Want, e.Got)
}
