// internal/cms/checks.go
package cms

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
	"github.com/xkilldash9x/cmsbehave/internal/richtext"
)

// DefaultEditFormSelector addresses the admin's primary edit form.
const DefaultEditFormSelector = "#Form_EditForm"

// Checker asserts page-level state of the admin UI.
type Checker struct {
	logger       *zap.Logger
	formSelector string
}

// NewChecker creates a Checker. An empty formSelector uses DefaultEditFormSelector.
func NewChecker(logger *zap.Logger, formSelector string) *Checker {
	if formSelector == "" {
		formSelector = DefaultEditFormSelector
	}
	return &Checker{logger: logger.Named("cms"), formSelector: formSelector}
}

// AssertEditFormVisible checks that the edit form is present on the page.
func (c *Checker) AssertEditFormVisible(ctx context.Context, page session.Page) error {
	forms, err := page.FindAll(ctx, session.Selector{Kind: session.KindCSS, Locator: c.formSelector})
	if err != nil {
		return fmt.Errorf("failed to look up edit form: %w", err)
	}
	if len(forms) == 0 {
		return &richtext.NotFoundError{Kind: "edit page form", Locator: c.formSelector}
	}
	return nil
}

// AssertButtonVisible checks that at least one visible link or button
// matches text when expectPresent is true, and that none does otherwise.
func (c *Checker) AssertButtonVisible(ctx context.Context, page session.Page, text string, expectPresent bool) error {
	candidates, err := page.FindAll(ctx, session.Selector{Kind: session.KindLinkOrButton, Locator: text})
	if err != nil {
		return fmt.Errorf("failed to look up %q button: %w", text, err)
	}

	visible := 0
	for _, el := range candidates {
		ok, err := el.IsVisible(ctx)
		if err != nil {
			return fmt.Errorf("failed to check visibility of %q button: %w", text, err)
		}
		if ok {
			visible++
		}
	}
	c.logger.Debug("Buttons matched.",
		zap.String("text", text),
		zap.Int("candidates", len(candidates)),
		zap.Int("visible", visible),
	)

	switch {
	case expectPresent && visible == 0:
		return &richtext.NotFoundError{Kind: "button", Locator: text}
	case !expectPresent && visible > 0:
		return &richtext.AssertionMismatchError{
			Subject:  fmt.Sprintf("visible %q buttons", text),
			Expected: "0",
			Actual:   fmt.Sprint(visible),
		}
	}
	return nil
}
