// internal/richtext/errors.go
package richtext

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormatting is returned for formatting kinds the checker does not know.
var ErrUnsupportedFormatting = errors.New("unsupported formatting kind")

// NotFoundError reports that a required element or text node could not be located.
type NotFoundError struct {
	// Kind describes what was looked for, e.g. "HTML field" or "text".
	Kind    string
	Locator string
	// In names the field searched when Kind is "text".
	In string
}

func (e *NotFoundError) Error() string {
	if e.In != "" {
		return fmt.Sprintf("%s %q not found in %q", e.Kind, e.Locator, e.In)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Locator)
}

// AssertionMismatchError reports that an observed property did not have the
// expected value (or had it, when Negated).
type AssertionMismatchError struct {
	Subject  string
	Expected string
	Actual   string
	Negated  bool
}

func (e *AssertionMismatchError) Error() string {
	if e.Negated {
		return fmt.Sprintf("%s: expected anything but %q, got %q", e.Subject, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %q, got %q", e.Subject, e.Expected, e.Actual)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsMismatch reports whether err is, or wraps, an *AssertionMismatchError.
func IsMismatch(err error) bool {
	var m *AssertionMismatchError
	return errors.As(err, &m)
}
