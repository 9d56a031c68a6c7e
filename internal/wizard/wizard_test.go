package wizard_test

import (
	"testing"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

const testVIN = "1HGCM82633A123456"

func advanceToVehicle(t *testing.T, w *wizard.Wizard, category entity.VehicleCategory) {
	t.Helper()
	issues, err := w.SelectCategory(category)
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Equal(t, wizard.StepVehicle, w.Step())
}

func advanceToParts(t *testing.T, w *wizard.Wizard) {
	t.Helper()
	advanceToVehicle(t, w, entity.CategoryPassenger)

	f, err := w.Vehicle()
	require.NoError(t, err)
	f.VIN = testVIN

	issues, err := w.SubmitVehicle()
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Equal(t, wizard.StepParts, w.Step())
}

func advanceToContact(t *testing.T, w *wizard.Wizard) {
	t.Helper()
	advanceToParts(t, w)

	f, err := w.Parts()
	require.NoError(t, err)
	require.NoError(t, f.Set(0, wizard.PartRow{Name: "brake pads", Quantity: 2}))

	issues, err := w.SubmitParts()
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Equal(t, wizard.StepContact, w.Step())
}

func fillContact(t *testing.T, w *wizard.Wizard) *wizard.ContactForm {
	t.Helper()
	f, err := w.Contact()
	require.NoError(t, err)
	f.Name = gofakeit.Name()
	f.Phone = "9261234567"
	f.CountryCode = "+7"
	return f
}

func TestNew_StartsAtCategoryStep(t *testing.T) {
	w := wizard.New()

	require.Equal(t, wizard.StepCategory, w.Step())
	require.Equal(t, entity.CategoryPassenger, w.Category())
	require.Nil(t, w.User())
}

func TestSelectCategory(t *testing.T) {
	testCases := []struct {
		desc      string
		category  entity.VehicleCategory
		wantIssue bool
	}{
		{desc: "passenger", category: entity.CategoryPassenger},
		{desc: "commercial", category: entity.CategoryCommercial},
		{desc: "chinese", category: entity.CategoryChinese},
		{desc: "unknown category rejected", category: "boat", wantIssue: true},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			w := wizard.New()
			issues, err := w.SelectCategory(tc.category)
			require.NoError(t, err)

			if tc.wantIssue {
				require.True(t, issues.Has("category"))
				require.Equal(t, wizard.StepCategory, w.Step())
				return
			}

			require.Empty(t, issues)
			require.Equal(t, wizard.StepVehicle, w.Step())
			require.Equal(t, tc.category, w.Category())
		})
	}
}

func TestSelectCategory_WrongStep(t *testing.T) {
	w := wizard.New()
	advanceToVehicle(t, w, entity.CategoryPassenger)

	_, err := w.SelectCategory(entity.CategoryCommercial)

	var stepErr *wizard.ErrStepMismatch
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, wizard.StepCategory, stepErr.Want)
	require.Equal(t, wizard.StepVehicle, stepErr.Got)
}

func TestSubmitVehicle_VINPath(t *testing.T) {
	w := wizard.New()
	advanceToVehicle(t, w, entity.CategoryPassenger)

	f, err := w.Vehicle()
	require.NoError(t, err)
	require.Equal(t, wizard.ModeVIN, f.Mode)

	f.VIN = testVIN

	issues, err := w.SubmitVehicle()
	require.NoError(t, err)
	require.Empty(t, issues)

	saved := w.SavedVehicle()
	require.Equal(t, testVIN, saved.VIN)
	require.Empty(t, saved.Make)
	require.Empty(t, saved.Model)
	require.Zero(t, saved.Year)
}

func TestSubmitVehicle_VINLengthEnforced(t *testing.T) {
	w := wizard.New()
	advanceToVehicle(t, w, entity.CategoryPassenger)

	f, err := w.Vehicle()
	require.NoError(t, err)
	f.VIN = "SHORT"

	issues, err := w.SubmitVehicle()
	require.NoError(t, err)
	require.True(t, issues.Has("vin"))
	require.Equal(t, wizard.StepVehicle, w.Step())
}

func TestSubmitVehicle_ManualPath(t *testing.T) {
	w := wizard.New()
	advanceToVehicle(t, w, entity.CategoryPassenger)

	f, err := w.Vehicle()
	require.NoError(t, err)
	require.NoError(t, f.SetMode(wizard.ModeManual))

	f.Make = "Toyota"
	f.Model = "Camry"
	f.Year = "2018"

	issues, err := w.SubmitVehicle()
	require.NoError(t, err)
	require.Empty(t, issues)

	saved := w.SavedVehicle()
	require.Empty(t, saved.VIN)
	require.Equal(t, "Toyota", saved.Make)
	require.Equal(t, 2018, saved.Year)
}

func TestSubmitVehicle_ManualValidation(t *testing.T) {
	testCases := []struct {
		desc       string
		mk, model  string
		year       string
		wantFields []string
	}{
		{desc: "all empty", wantFields: []string{"make", "model", "year"}},
		{desc: "three-digit year", mk: "VW", model: "Golf", year: "201", wantFields: []string{"year"}},
		{desc: "non-numeric year", mk: "VW", model: "Golf", year: "20a8", wantFields: []string{"year"}},
		{desc: "year before floor", mk: "VW", model: "Golf", year: "1899", wantFields: []string{"year"}},
		{desc: "year too far ahead", mk: "VW", model: "Golf", year: "9999", wantFields: []string{"year"}},
		{desc: "valid", mk: "VW", model: "Golf", year: "2020"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			w := wizard.New()
			advanceToVehicle(t, w, entity.CategoryChinese)

			f, err := w.Vehicle()
			require.NoError(t, err)
			require.Equal(t, wizard.ModeManual, f.Mode)

			f.Make = tc.mk
			f.Model = tc.model
			f.Year = tc.year

			issues, err := w.SubmitVehicle()
			require.NoError(t, err)

			if len(tc.wantFields) == 0 {
				require.Empty(t, issues)
				require.Equal(t, wizard.StepParts, w.Step())
				return
			}
			for _, field := range tc.wantFields {
				require.True(t, issues.Has(field), "expected issue on %q, got %v", field, issues)
			}
			require.Equal(t, wizard.StepVehicle, w.Step())
		})
	}
}

func TestVehicleForm_ChineseDisallowsVIN(t *testing.T) {
	w := wizard.New()
	advanceToVehicle(t, w, entity.CategoryChinese)

	f, err := w.Vehicle()
	require.NoError(t, err)
	require.Equal(t, wizard.ModeManual, f.Mode)

	require.Error(t, f.SetMode(wizard.ModeVIN))
	require.Equal(t, wizard.ModeManual, f.Mode)
}

// Toggling the mode twice must restore exactly the state the step had
// before the first toggle, regardless of anything typed in between.
func TestVehicleForm_ModeToggleIdempotent(t *testing.T) {
	w := wizard.New()
	advanceToVehicle(t, w, entity.CategoryPassenger)

	f, err := w.Vehicle()
	require.NoError(t, err)
	f.VIN = testVIN
	issues, err := w.SubmitVehicle()
	require.NoError(t, err)
	require.Empty(t, issues)

	// Walk back to the vehicle step and flip modes.
	w.Back()
	f, err = w.Vehicle()
	require.NoError(t, err)
	require.Equal(t, testVIN, f.VIN)

	require.NoError(t, f.SetMode(wizard.ModeManual))
	f.Make = "scratch data"

	require.NoError(t, f.SetMode(wizard.ModeVIN))
	require.Equal(t, testVIN, f.VIN)

	require.NoError(t, f.SetMode(wizard.ModeManual))
	require.Empty(t, f.Make, "scratch edits must not survive a mode round-trip")

	require.NoError(t, f.SetMode(wizard.ModeVIN))
	require.Equal(t, testVIN, f.VIN)
	require.Equal(t, testVIN, w.SavedVehicle().VIN, "payload untouched by toggling")
}

// Going back and forward again must preserve sub-form state and never lose
// the payload.
func TestBack_RoundTripPreservesState(t *testing.T) {
	w := wizard.New()
	advanceToContact(t, w)

	w.Back()
	require.Equal(t, wizard.StepParts, w.Step())

	f, err := w.Parts()
	require.NoError(t, err)
	rows := f.Rows()
	require.Len(t, rows, 1)
	require.Equal(t, "brake pads", rows[0].Name)
	require.Equal(t, 2, rows[0].Quantity)

	issues, err := w.SubmitParts()
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Equal(t, wizard.StepContact, w.Step())

	parts := w.SavedParts()
	require.Len(t, parts, 1)
	require.Equal(t, "brake pads", parts[0].Name)
}

func TestBack_FlooredAtFirstStep(t *testing.T) {
	w := wizard.New()
	w.Back()
	require.Equal(t, wizard.StepCategory, w.Step())
}

func TestSubmit_GuestHappyPath(t *testing.T) {
	w := wizard.New()
	advanceToContact(t, w)

	f := fillContact(t, w)
	f.Email = gofakeit.Email()

	sub, issues, err := w.Submit()
	require.NoError(t, err)
	require.Empty(t, issues)
	require.NotNil(t, sub)

	require.Equal(t, testVIN, sub.Vehicle.VIN)
	require.Len(t, sub.Parts, 1)
	require.False(t, sub.CreateAccount)
	require.Empty(t, sub.Password)
}

func TestSubmit_ContactValidation(t *testing.T) {
	testCases := []struct {
		desc       string
		mutate     func(f *wizard.ContactForm)
		wantFields []string
	}{
		{
			desc:       "name required",
			mutate:     func(f *wizard.ContactForm) { f.Name = "" },
			wantFields: []string{"name"},
		},
		{
			desc:       "phone needs ten digits",
			mutate:     func(f *wizard.ContactForm) { f.Phone = "12345" },
			wantFields: []string{"phone"},
		},
		{
			desc:       "dial code required",
			mutate:     func(f *wizard.ContactForm) { f.CountryCode = "7" },
			wantFields: []string{"countryCode"},
		},
		{
			desc:       "email syntax checked when present",
			mutate:     func(f *wizard.ContactForm) { f.Email = "not-an-email" },
			wantFields: []string{"email"},
		},
		{
			desc:   "email optional without account",
			mutate: func(f *wizard.ContactForm) { f.Email = "" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			w := wizard.New()
			advanceToContact(t, w)
			f := fillContact(t, w)
			tc.mutate(f)

			sub, issues, err := w.Submit()
			require.NoError(t, err)

			if len(tc.wantFields) == 0 {
				require.Empty(t, issues)
				require.NotNil(t, sub)
				return
			}

			require.Nil(t, sub)
			require.Equal(t, wizard.StepContact, w.Step(), "failed submit stays on the contact step")
			for _, field := range tc.wantFields {
				require.True(t, issues.Has(field), "expected issue on %q, got %v", field, issues)
			}
		})
	}
}

func TestSubmit_AccountCreationRules(t *testing.T) {
	testCases := []struct {
		desc       string
		email      string
		password   string
		confirm    string
		wantFields []string
	}{
		{
			desc:       "email required with account",
			password:   "secret1",
			confirm:    "secret1",
			wantFields: []string{"email"},
		},
		{
			desc:       "short password",
			email:      "user@example.com",
			password:   "abc",
			confirm:    "abc",
			wantFields: []string{"password"},
		},
		{
			desc:       "password mismatch",
			email:      "user@example.com",
			password:   "secret1",
			confirm:    "secret2",
			wantFields: []string{"passwordConfirm"},
		},
		{
			desc:     "valid account block",
			email:    "user@example.com",
			password: "secret1",
			confirm:  "secret1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			w := wizard.New()
			advanceToContact(t, w)
			f := fillContact(t, w)
			f.Email = tc.email
			f.CreateAccount = true
			f.Password = tc.password
			f.PasswordConfirm = tc.confirm

			sub, issues, err := w.Submit()
			require.NoError(t, err)

			if len(tc.wantFields) == 0 {
				require.Empty(t, issues)
				require.NotNil(t, sub)
				require.True(t, sub.CreateAccount)
				require.Equal(t, tc.password, sub.Password)
				return
			}

			require.Nil(t, sub)
			for _, field := range tc.wantFields {
				require.True(t, issues.Has(field), "expected issue on %q, got %v", field, issues)
			}
		})
	}
}

func TestSubmit_AuthenticatedDropsAccountBlock(t *testing.T) {
	user := &entity.User{
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
	}
	w := wizard.New(wizard.WithUser(user))
	advanceToContact(t, w)

	f, err := w.Contact()
	require.NoError(t, err)
	require.True(t, f.Authenticated())
	require.Equal(t, user.Email, f.Email)

	f.Phone = "9261234567"
	f.CountryCode = "+7"

	// Even if the flags get set, an authenticated submit ignores them.
	f.CreateAccount = true
	f.Password = "whatever"

	sub, issues, err := w.Submit()
	require.NoError(t, err)
	require.Empty(t, issues)
	require.False(t, sub.CreateAccount)
	require.Empty(t, sub.Password)
}

func TestValidateSubmission(t *testing.T) {
	valid := func() *wizard.Submission {
		return &wizard.Submission{
			Vehicle: entity.Vehicle{Category: entity.CategoryPassenger, VIN: testVIN},
			Parts:   []entity.Part{{Name: "oil filter", Quantity: 1}},
			Contact: entity.Contact{
				Name:        gofakeit.Name(),
				Phone:       "9261234567",
				CountryCode: "+7",
			},
		}
	}

	t.Run("valid guest payload", func(t *testing.T) {
		require.Empty(t, wizard.ValidateSubmission(valid(), false))
	})

	t.Run("vin and manual fields are mutually exclusive", func(t *testing.T) {
		sub := valid()
		sub.Vehicle.Make = "Toyota"
		issues := wizard.ValidateSubmission(sub, false)
		require.True(t, issues.Has("vehicle"))
	})

	t.Run("empty parts rejected", func(t *testing.T) {
		sub := valid()
		sub.Parts = nil
		issues := wizard.ValidateSubmission(sub, false)
		require.True(t, issues.Has("parts"))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		sub := valid()
		sub.Parts[0].Quantity = 0
		issues := wizard.ValidateSubmission(sub, false)
		require.True(t, issues.Has("parts[0].quantity"))
	})

	t.Run("chinese with vin rejected", func(t *testing.T) {
		sub := valid()
		sub.Vehicle.Category = entity.CategoryChinese
		issues := wizard.ValidateSubmission(sub, false)
		require.True(t, issues.Has("vin"))
	})

	t.Run("account needs email and password", func(t *testing.T) {
		sub := valid()
		sub.CreateAccount = true
		issues := wizard.ValidateSubmission(sub, false)
		require.True(t, issues.Has("email"))
		require.True(t, issues.Has("password"))
	})
}
