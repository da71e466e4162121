package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// The service layer's error taxonomy. Everything else returned by a service
// is a fatal store or I/O failure and propagates unmodified.
var (
	// ErrNotFound means the referenced id does not exist (read, update
	// target missing, delete target missing).
	ErrNotFound = errors.New("record not found")

	// ErrConflict means an update presented a stale version token while the
	// row still exists. The caller should reload and retry.
	ErrConflict = errors.New("record was modified concurrently")
)

// ValidationError carries field-level, user-correctable failures. No store
// mutation happens when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// AsValidationError unwraps err into a *ValidationError, or nil.
func AsValidationError(err error) *ValidationError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return nil
}
