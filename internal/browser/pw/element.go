// internal/browser/pw/element.go
package pw

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
)

type element struct {
	page    *Page
	located session.Located
	locator playwright.Locator
}

func (e *element) Ref() string     { return e.located.Selector() }
func (e *element) TagName() string { return e.located.Tag }

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	if err := e.page.check(ctx); err != nil {
		return "", err
	}
	v, err := e.locator.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: timeoutMillis(ctx)})
	if err != nil {
		return "", fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	return v, nil
}

func (e *element) Value(ctx context.Context) (string, error) {
	if err := e.page.check(ctx); err != nil {
		return "", err
	}
	v, err := e.locator.InputValue(playwright.LocatorInputValueOptions{Timeout: timeoutMillis(ctx)})
	if err != nil {
		return "", fmt.Errorf("failed to read value: %w", err)
	}
	return v, nil
}

func (e *element) IsVisible(ctx context.Context) (bool, error) {
	if err := e.page.check(ctx); err != nil {
		return false, err
	}
	v, err := e.locator.IsVisible()
	if err != nil {
		return false, fmt.Errorf("failed to check visibility: %w", err)
	}
	return v, nil
}
