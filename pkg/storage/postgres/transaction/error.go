package transaction

import "fmt"

// HandleError annotates a failure inside a transactional step while keeping
// the underlying error chain intact for errors.Is checks.
func HandleError(operation, step string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("transaction %s: %s: %w", operation, step, err)
}
