package billing

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the billing core. Callers branch with errors.Is; no
// failure is ever signalled through a bare string.
var (
	ErrValidation          = errors.New("billing: validation failed")
	ErrNotFound            = errors.New("billing: not found")
	ErrInvalidState        = errors.New("billing: invalid bill state")
	ErrCreditLimitExceeded = errors.New("billing: credit limit exceeded")
	ErrInsufficientStock   = errors.New("billing: insufficient stock")
	ErrConcurrentConflict  = errors.New("billing: concurrent conflict")
	ErrPersistence         = errors.New("billing: persistence failure")
)

// InsufficientStockError names the item(s) that could not be supplied. It
// matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Items []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("billing: insufficient stock for %s", strings.Join(e.Items, ", "))
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// persistErr wraps an unclassified storage error so callers can still
// branch on kind without inspecting driver strings.
func persistErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
