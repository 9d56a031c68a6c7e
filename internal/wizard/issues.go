package wizard

import (
	"fmt"
	"strings"
)

// Issue is one field-scoped validation failure. Field uses dotted paths with
// bracketed indexes for list rows, e.g. "parts[2].name".
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Issues is the outcome of running a rule-set over a form snapshot. A nil or
// empty slice means the snapshot passed.
type Issues []Issue

func (is *Issues) add(field, message string) {
	*is = append(*is, Issue{Field: field, Message: message})
}

func (is Issues) Has(field string) bool {
	for _, i := range is {
		if i.Field == field {
			return true
		}
	}
	return false
}

// For returns the first message recorded for field, or "".
func (is Issues) For(field string) string {
	for _, i := range is {
		if i.Field == field {
			return i.Message
		}
	}
	return ""
}

func (is Issues) Empty() bool {
	return len(is) == 0
}

// ValidationError carries field issues across package boundaries as a
// regular error.
type ValidationError struct {
	Issues Issues
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", i.Field, i.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsError wraps non-empty issues into a *ValidationError, or returns nil.
func (is Issues) AsError() error {
	if is.Empty() {
		return nil
	}
	return &ValidationError{Issues: is}
}
