// internal/browser/pw/page.go
package pw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
)

// Page is a Playwright page implementing session.Page.
type Page struct {
	bctx    playwright.BrowserContext
	page    playwright.Page
	logger  *zap.Logger
	closed  atomic.Bool
	onClose func()
}

var _ session.Page = (*Page)(nil)

// applyWrapper calls a function declaration with the argument array Playwright passes in.
func applyWrapper(fn string) string {
	return "(args) => (" + fn + ").apply(null, args)"
}

// timeoutMillis converts the ctx deadline into a Playwright timeout. Without
// a deadline Playwright's own default applies.
func timeoutMillis(ctx context.Context) *float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	remaining := time.Until(deadline)
	if remaining < time.Millisecond {
		remaining = time.Millisecond
	}
	return playwright.Float(float64(remaining.Milliseconds()))
}

func (p *Page) check(ctx context.Context) error {
	if p.closed.Load() {
		return session.ErrPageClosed
	}
	return ctx.Err()
}

// Navigate implements session.Page.
func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := p.check(ctx); err != nil {
		return err
	}
	p.logger.Debug("Navigating.", zap.String("url", url))
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   timeoutMillis(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Evaluate implements session.Page.
func (p *Page) Evaluate(ctx context.Context, fn string, args ...interface{}) (json.RawMessage, error) {
	if err := p.check(ctx); err != nil {
		return nil, err
	}
	if args == nil {
		args = []interface{}{}
	}
	result, err := p.page.Evaluate(applyWrapper(fn), args)
	if err != nil {
		if errors.Is(err, playwright.ErrTargetClosed) || errors.Is(err, playwright.ErrTimeout) {
			return nil, fmt.Errorf("failed to evaluate script: %w", err)
		}
		p.logger.Debug("Script raised an exception.", zap.Error(err))
		return nil, &session.ScriptError{Err: err}
	}
	raw, err := jsoniter.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode script result: %w", err)
	}
	return raw, nil
}

// FindField implements session.Page.
func (p *Page) FindField(ctx context.Context, label string) (session.Element, error) {
	found, err := session.Locate(ctx, p, session.Selector{Kind: session.KindField, Locator: label})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: field %q", session.ErrElementNotFound, label)
	}
	return p.element(found[0]), nil
}

// FindAll implements session.Page.
func (p *Page) FindAll(ctx context.Context, sel session.Selector) ([]session.Element, error) {
	found, err := session.Locate(ctx, p, sel)
	if err != nil {
		return nil, err
	}
	elements := make([]session.Element, 0, len(found))
	for _, l := range found {
		elements = append(elements, p.element(l))
	}
	return elements, nil
}

func (p *Page) element(l session.Located) *element {
	return &element{page: p, located: l, locator: p.page.Locator(l.Selector())}
}

// Screenshot implements session.Page.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if err := p.check(ctx); err != nil {
		return nil, err
	}
	buf, err := p.page.Screenshot(playwright.PageScreenshotOptions{Timeout: timeoutMillis(ctx)})
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Close implements session.Page. Closing the browser context also closes the page.
func (p *Page) Close(ctx context.Context) error {
	if p.closed.Swap(true) {
		return nil
	}
	defer func() {
		if p.onClose != nil {
			p.onClose()
		}
	}()
	if err := p.bctx.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
		return fmt.Errorf("failed to close browser context: %w", err)
	}
	return nil
}
