package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
)

// PartRow is one editable line of the parts step.
type PartRow struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	SKU         string `json:"sku,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`
}

// PartsForm maintains the ordered list of requested parts. The list never
// shrinks below one row; row order is preserved and becomes submission
// order.
type PartsForm struct {
	rows []PartRow
}

func newPartsForm(saved []entity.Part) *PartsForm {
	f := &PartsForm{}
	for _, p := range saved {
		f.rows = append(f.rows, PartRow{
			Name:        p.Name,
			Quantity:    clampQuantity(p.Quantity),
			SKU:         p.SKU,
			Brand:       p.Brand,
			Description: p.Description,
		})
	}
	if len(f.rows) == 0 {
		f.rows = []PartRow{blankPartRow()}
	}
	return f
}

func blankPartRow() PartRow {
	return PartRow{Quantity: entity.MinPartQuantity}
}

func clampQuantity(q int) int {
	if q < entity.MinPartQuantity {
		return entity.MinPartQuantity
	}
	return q
}

func (f *PartsForm) Len() int {
	return len(f.rows)
}

// Rows returns a copy of the current rows in display order.
func (f *PartsForm) Rows() []PartRow {
	out := make([]PartRow, len(f.rows))
	copy(out, f.rows)
	return out
}

// Add appends one blank row to the end of the list.
func (f *PartsForm) Add() {
	f.rows = append(f.rows, blankPartRow())
}

// Remove deletes row i. Removing the last remaining row is rejected.
func (f *PartsForm) Remove(i int) error {
	if err := f.checkIndex(i); err != nil {
		return err
	}
	if len(f.rows) == 1 {
		return fmt.Errorf("wizard: parts list cannot become empty")
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return nil
}

// Set replaces the editable fields of row i, clamping the quantity.
func (f *PartsForm) Set(i int, row PartRow) error {
	if err := f.checkIndex(i); err != nil {
		return err
	}
	row.Quantity = clampQuantity(row.Quantity)
	f.rows[i] = row
	return nil
}

// Increment has no upper bound, matching the stepper control.
func (f *PartsForm) Increment(i int) error {
	if err := f.checkIndex(i); err != nil {
		return err
	}
	f.rows[i].Quantity++
	return nil
}

// Decrement clamps at the quantity floor instead of going to zero.
func (f *PartsForm) Decrement(i int) error {
	if err := f.checkIndex(i); err != nil {
		return err
	}
	if f.rows[i].Quantity > entity.MinPartQuantity {
		f.rows[i].Quantity--
	}
	return nil
}

// SetQuantity applies direct text entry: the raw value is coerced to an
// integer, non-numeric input is treated as 1, and the result is clamped to
// the floor.
func (f *PartsForm) SetQuantity(i int, raw string) error {
	if err := f.checkIndex(i); err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = entity.MinPartQuantity
	}
	f.rows[i].Quantity = clampQuantity(n)
	return nil
}

func (f *PartsForm) checkIndex(i int) error {
	if i < 0 || i >= len(f.rows) {
		return fmt.Errorf("wizard: part row %d out of range [0,%d)", i, len(f.rows))
	}
	return nil
}

func (f *PartsForm) validate() Issues {
	var issues Issues
	for i, row := range f.rows {
		if strings.TrimSpace(row.Name) == "" {
			issues.add(fmt.Sprintf("parts[%d].name", i), "part name is required")
		}
		if row.Quantity < entity.MinPartQuantity {
			issues.add(fmt.Sprintf("parts[%d].quantity", i), "quantity must be at least 1")
		}
	}
	return issues
}

func (f *PartsForm) result() []entity.Part {
	out := make([]entity.Part, len(f.rows))
	for i, row := range f.rows {
		out[i] = entity.Part{
			Name:        strings.TrimSpace(row.Name),
			Quantity:    row.Quantity,
			SKU:         row.SKU,
			Brand:       row.Brand,
			Description: row.Description,
			Position:    i,
		}
	}
	return out
}

// validatePartRecords re-runs the part rules over an assembled list for the
// terminal validation and the one-shot order endpoints.
func validatePartRecords(parts []entity.Part) Issues {
	var issues Issues
	if len(parts) == 0 {
		issues.add("parts", "at least one part is required")
		return issues
	}
	for i, p := range parts {
		if strings.TrimSpace(p.Name) == "" {
			issues.add(fmt.Sprintf("parts[%d].name", i), "part name is required")
		}
		if p.Quantity < entity.MinPartQuantity {
			issues.add(fmt.Sprintf("parts[%d].quantity", i), "quantity must be at least 1")
		}
	}
	return issues
}
