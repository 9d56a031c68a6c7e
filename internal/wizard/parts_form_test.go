package wizard_test

import (
	"testing"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"

	"github.com/stretchr/testify/require"
)

func partsForm(t *testing.T) (*wizard.Wizard, *wizard.PartsForm) {
	t.Helper()
	w := wizard.New()
	advanceToParts(t, w)

	f, err := w.Parts()
	require.NoError(t, err)
	return w, f
}

func TestPartsForm_StartsWithOneBlankRow(t *testing.T) {
	_, f := partsForm(t)

	require.Equal(t, 1, f.Len())
	require.Equal(t, entity.MinPartQuantity, f.Rows()[0].Quantity)
}

func TestPartsForm_AddAndRemove(t *testing.T) {
	_, f := partsForm(t)

	f.Add()
	f.Add()
	require.Equal(t, 3, f.Len())

	require.NoError(t, f.Remove(1))
	require.Equal(t, 2, f.Len())

	require.NoError(t, f.Remove(0))
	require.Equal(t, 1, f.Len())

	require.Error(t, f.Remove(0), "the list never shrinks below one row")
	require.Equal(t, 1, f.Len())
}

func TestPartsForm_RemoveOutOfRange(t *testing.T) {
	_, f := partsForm(t)

	require.Error(t, f.Remove(-1))
	require.Error(t, f.Remove(5))
}

func TestPartsForm_QuantityStepper(t *testing.T) {
	_, f := partsForm(t)

	require.NoError(t, f.Increment(0))
	require.NoError(t, f.Increment(0))
	require.Equal(t, 3, f.Rows()[0].Quantity)

	require.NoError(t, f.Decrement(0))
	require.Equal(t, 2, f.Rows()[0].Quantity)

	require.NoError(t, f.Decrement(0))
	require.NoError(t, f.Decrement(0))
	require.Equal(t, entity.MinPartQuantity, f.Rows()[0].Quantity, "decrement clamps at the floor")
}

func TestPartsForm_SetQuantityCoercion(t *testing.T) {
	testCases := []struct {
		desc string
		raw  string
		want int
	}{
		{desc: "plain number", raw: "7", want: 7},
		{desc: "whitespace trimmed", raw: " 3 ", want: 3},
		{desc: "zero clamped to floor", raw: "0", want: 1},
		{desc: "negative clamped to floor", raw: "-4", want: 1},
		{desc: "non-numeric treated as one", raw: "abc", want: 1},
		{desc: "empty treated as one", raw: "", want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, f := partsForm(t)
			require.NoError(t, f.SetQuantity(0, tc.raw))
			require.Equal(t, tc.want, f.Rows()[0].Quantity)
		})
	}
}

func TestSubmitParts_RowValidation(t *testing.T) {
	w, f := partsForm(t)

	f.Add()
	require.NoError(t, f.Set(0, wizard.PartRow{Name: "wiper blades", Quantity: 1}))
	// Row 1 left blank.

	issues, err := w.SubmitParts()
	require.NoError(t, err)
	require.True(t, issues.Has("parts[1].name"))
	require.False(t, issues.Has("parts[0].name"))
	require.Equal(t, wizard.StepParts, w.Step())
}

func TestSubmitParts_PreservesRowOrder(t *testing.T) {
	w, f := partsForm(t)

	f.Add()
	f.Add()
	require.NoError(t, f.Set(0, wizard.PartRow{Name: "first", Quantity: 1}))
	require.NoError(t, f.Set(1, wizard.PartRow{Name: "second", Quantity: 2}))
	require.NoError(t, f.Set(2, wizard.PartRow{Name: "third", Quantity: 3}))

	issues, err := w.SubmitParts()
	require.NoError(t, err)
	require.Empty(t, issues)

	parts := w.SavedParts()
	require.Len(t, parts, 3)
	for i, want := range []string{"first", "second", "third"} {
		require.Equal(t, want, parts[i].Name)
		require.Equal(t, i, parts[i].Position)
	}
}
