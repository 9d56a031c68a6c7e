// Package wizard implements the four-step order form state machine: vehicle
// category, vehicle identification, requested parts and contact details.
// Each step is a self-contained sub-form with its own rule-set; the Wizard
// controller owns the current step and the accumulated payload, and only a
// successful sub-form submit merges data into it. The terminal submit
// re-validates the combined payload as a whole.
package wizard

import (
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
)

// Wizard drives the order form. It is not safe for concurrent use; callers
// holding a draft across requests must serialize access themselves.
type Wizard struct {
	step Step
	user *entity.User

	category entity.VehicleCategory
	vehicle  entity.Vehicle
	parts    []entity.Part
	contact  entity.Contact

	vehicleForm *VehicleForm
	partsForm   *PartsForm
	contactForm *ContactForm
}

// Submission is the fully assembled payload handed to the order service
// once the terminal validation passes.
type Submission struct {
	Vehicle       entity.Vehicle `json:"vehicle"`
	Parts         []entity.Part  `json:"parts"`
	Contact       entity.Contact `json:"contactInfo"`
	CreateAccount bool           `json:"createAccount,omitempty"`
	Password      string         `json:"password,omitempty"`
}

type Option func(*Wizard)

// WithUser prefills the contact step from the profile and drops the
// account-creation block.
func WithUser(u *entity.User) Option {
	return func(w *Wizard) {
		w.user = u
	}
}

// WithCategory overrides the default starting category.
func WithCategory(c entity.VehicleCategory) Option {
	return func(w *Wizard) {
		if c.Valid() {
			w.category = c
		}
	}
}

// New starts a wizard at step 1 with the category defaulted to passenger
// and a single blank part row.
func New(opts ...Option) *Wizard {
	w := &Wizard{
		step:     firstStep,
		category: entity.CategoryPassenger,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.partsForm = newPartsForm(nil)
	w.contactForm = newContactForm(entity.Contact{}, w.user)
	return w
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) User() *entity.User {
	return w.user
}

func (w *Wizard) Category() entity.VehicleCategory {
	return w.category
}

// SavedVehicle is the identification data the payload currently holds; the
// working copy being edited on step 2 lives in Vehicle().
func (w *Wizard) SavedVehicle() entity.Vehicle {
	return w.vehicle
}

func (w *Wizard) SavedParts() []entity.Part {
	out := make([]entity.Part, len(w.parts))
	copy(out, w.parts)
	return out
}

func (w *Wizard) SavedContact() entity.Contact {
	return w.contact
}

// Back moves one step towards the start, floored at step 1. Sub-form working
// state is retained, so moving forward again shows the same values.
func (w *Wizard) Back() {
	if w.step > firstStep {
		w.step--
	}
}

// SelectCategory is the step-1 submit. On success the vehicle sub-form is
// rebuilt for the chosen category, reseeded from whatever the payload
// already holds.
func (w *Wizard) SelectCategory(c entity.VehicleCategory) (Issues, error) {
	if w.step != StepCategory {
		return nil, &ErrStepMismatch{Want: StepCategory, Got: w.step}
	}

	var issues Issues
	if !c.Valid() {
		issues.add("category", "unknown vehicle category")
		return issues, nil
	}

	w.category = c
	w.vehicle.Category = c
	w.vehicleForm = newVehicleForm(c, w.vehicle)
	w.step = StepVehicle
	return nil, nil
}

// Vehicle exposes the step-2 working form.
func (w *Wizard) Vehicle() (*VehicleForm, error) {
	if w.step != StepVehicle {
		return nil, &ErrStepMismatch{Want: StepVehicle, Got: w.step}
	}
	return w.vehicleForm, nil
}

// SubmitVehicle is the step-2 submit: the active mode's rule-set runs over
// the working copy and, only if it passes, the result (with the inactive
// side cleared) replaces the payload's vehicle.
func (w *Wizard) SubmitVehicle() (Issues, error) {
	if w.step != StepVehicle {
		return nil, &ErrStepMismatch{Want: StepVehicle, Got: w.step}
	}

	if issues := w.vehicleForm.validate(); !issues.Empty() {
		return issues, nil
	}

	w.vehicle = w.vehicleForm.result()
	w.vehicleForm.saved = w.vehicle
	w.step = StepParts
	return nil, nil
}

// Parts exposes the step-3 working form.
func (w *Wizard) Parts() (*PartsForm, error) {
	if w.step != StepParts {
		return nil, &ErrStepMismatch{Want: StepParts, Got: w.step}
	}
	return w.partsForm, nil
}

// SubmitParts validates every row; a single invalid row blocks the whole
// step with issues scoped to that row.
func (w *Wizard) SubmitParts() (Issues, error) {
	if w.step != StepParts {
		return nil, &ErrStepMismatch{Want: StepParts, Got: w.step}
	}

	if issues := w.partsForm.validate(); !issues.Empty() {
		return issues, nil
	}

	w.parts = w.partsForm.result()
	w.step = StepContact
	return nil, nil
}

// Contact exposes the step-4 working form.
func (w *Wizard) Contact() (*ContactForm, error) {
	if w.step != StepContact {
		return nil, &ErrStepMismatch{Want: StepContact, Got: w.step}
	}
	return w.contactForm, nil
}

// Submit is the terminal transition: the contact form is applied and the
// whole combined payload validated once. On failure the wizard stays on
// step 4 with field issues; nothing is emitted.
func (w *Wizard) Submit() (*Submission, Issues, error) {
	if w.step != StepContact {
		return nil, nil, &ErrStepMismatch{Want: StepContact, Got: w.step}
	}

	sub := &Submission{
		Vehicle: w.vehicle,
		Parts:   w.parts,
		Contact: w.contactForm.result(),
	}
	if !w.contactForm.authenticated {
		sub.CreateAccount = w.contactForm.CreateAccount
		if sub.CreateAccount {
			sub.Password = w.contactForm.Password
		}
	}

	issues := w.contactForm.validate()
	issues = append(issues, validateVehicleRecord(&sub.Vehicle)...)
	issues = append(issues, validatePartRecords(sub.Parts)...)
	if !issues.Empty() {
		return nil, issues, nil
	}

	w.contact = sub.Contact
	return sub, nil, nil
}

// ValidateSubmission runs the full combined rule-set over an externally
// assembled payload. The one-shot order endpoints use it so a direct POST
// obeys exactly the rules the wizard enforces step by step.
func ValidateSubmission(sub *Submission, authenticated bool) Issues {
	var issues Issues

	issues = append(issues, validateVehicleRecord(&sub.Vehicle)...)
	issues = append(issues, validatePartRecords(sub.Parts)...)

	requireEmail := sub.CreateAccount && !authenticated
	issues = append(issues, validateContactRecord(&sub.Contact, requireEmail)...)

	if requireEmail {
		issues = append(issues, validateNewPassword(sub.Password, sub.Password)...)
	}
	return issues
}
