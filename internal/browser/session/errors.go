package session

import (
	"errors"
	"fmt"
)

// ErrElementNotFound is returned by Page lookups that match nothing.
var ErrElementNotFound = errors.New("element not found")

// ErrPageClosed is returned when an operation is attempted on a closed Page.
var ErrPageClosed = errors.New("page is closed")

// ScriptError wraps an exception raised by JavaScript evaluated in the page.
// The driver's error is kept unmodified in Err.
type ScriptError struct {
	Err error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script evaluation failed: %v", e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }
