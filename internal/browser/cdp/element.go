// internal/browser/cdp/element.go
package cdp

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
)

const (
	attributeJS = `function (sel, name) {
  var el = document.querySelector(sel);
  if (!el) { throw new Error(sel + ' is no longer attached to the document'); }
  return el.getAttribute(name) || '';
}`

	valueJS = `function (sel) {
  var el = document.querySelector(sel);
  if (!el) { throw new Error(sel + ' is no longer attached to the document'); }
  return 'value' in el ? String(el.value) : el.textContent;
}`

	visibleJS = `function (sel) {
  var el = document.querySelector(sel);
  if (!el) { return false; }
  if (!(el.offsetWidth || el.offsetHeight || el.getClientRects().length)) { return false; }
  return window.getComputedStyle(el).visibility !== 'hidden';
}`
)

// element resolves its ref on every call so it never holds a stale node id.
type element struct {
	page    *Page
	located session.Located
}

func (e *element) Ref() string     { return e.located.Selector() }
func (e *element) TagName() string { return e.located.Tag }

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	var v string
	if err := e.eval(ctx, &v, attributeJS, e.Ref(), name); err != nil {
		return "", fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	return v, nil
}

func (e *element) Value(ctx context.Context) (string, error) {
	var v string
	if err := e.eval(ctx, &v, valueJS, e.Ref()); err != nil {
		return "", fmt.Errorf("failed to read value: %w", err)
	}
	return v, nil
}

func (e *element) IsVisible(ctx context.Context) (bool, error) {
	var v bool
	if err := e.eval(ctx, &v, visibleJS, e.Ref()); err != nil {
		return false, fmt.Errorf("failed to check visibility: %w", err)
	}
	return v, nil
}

func (e *element) eval(ctx context.Context, out interface{}, fn string, args ...interface{}) error {
	raw, err := e.page.Evaluate(ctx, fn, args...)
	if err != nil {
		return err
	}
	return jsoniter.Unmarshal(raw, out)
}
