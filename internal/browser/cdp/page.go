// internal/browser/cdp/page.go
package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
)

// Page is a chromedp tab implementing session.Page.
type Page struct {
	tabCtx    context.Context
	tabCancel context.CancelFunc
	logger    *zap.Logger
	closed    atomic.Bool
	onClose   func()
}

var _ session.Page = (*Page)(nil)

// run executes actions against the tab, bounded by the caller's ctx.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	if p.closed.Load() {
		return session.ErrPageClosed
	}
	opCtx, cancel := session.CombineContext(p.tabCtx, ctx)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// Navigate implements session.Page.
func (p *Page) Navigate(ctx context.Context, url string) error {
	p.logger.Debug("Navigating.", zap.String("url", url))
	if err := p.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Evaluate implements session.Page.
func (p *Page) Evaluate(ctx context.Context, fn string, args ...interface{}) (json.RawMessage, error) {
	expr, err := applyExpression(fn, args)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	err = p.run(ctx, chromedp.Evaluate(expr, &raw, func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
		return ep.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
	}))
	if err != nil {
		var exception *runtime.ExceptionDetails
		if errors.As(err, &exception) {
			p.logger.Debug("Script raised an exception.", zap.String("exception", exception.Error()))
			return nil, &session.ScriptError{Err: err}
		}
		return nil, fmt.Errorf("failed to evaluate script: %w", err)
	}
	return unwrap(raw)
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
	return &element{page: p, located: found[0]}, nil
}

// FindAll implements session.Page.
func (p *Page) FindAll(ctx context.Context, sel session.Selector) ([]session.Element, error) {
	found, err := session.Locate(ctx, p, sel)
	if err != nil {
		return nil, err
	}
	elements := make([]session.Element, 0, len(found))
	for _, l := range found {
		elements = append(elements, &element{page: p, located: l})
	}
	return elements, nil
}

// Screenshot implements session.Page.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Close implements session.Page. The tab target is closed by canceling its context.
func (p *Page) Close(ctx context.Context) error {
	if p.closed.Swap(true) {
		return nil
	}
	defer func() {
		if p.onClose != nil {
			p.onClose()
		}
	}()
	err := chromedp.Cancel(p.tabCtx)
	p.tabCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close tab: %w", err)
	}
	return nil
}
