// internal/browser/session/interfaces.go
package session

import (
	"context"
	"encoding/json"
)

// Page is a live browser tab the steps drive and inspect. It abstracts the
// underlying automation library (chromedp or playwright) so step logic never
// imports either one directly.
type Page interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error

	// FindField locates a form field by id, name, placeholder or label text.
	// It returns ErrElementNotFound when nothing matches.
	FindField(ctx context.Context, label string) (Element, error)

	// FindAll returns every element matching sel in document order. An empty
	// result is not an error.
	FindAll(ctx context.Context, sel Selector) ([]Element, error)

	// Evaluate calls the JavaScript function declaration fn with args and
	// returns its JSON encoded result. Arguments are serialized as JSON values
	// and never spliced into the script source. Exceptions thrown by the
	// script are returned as *ScriptError.
	Evaluate(ctx context.Context, fn string, args ...interface{}) (json.RawMessage, error)

	// Screenshot captures the visible viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the tab. It is safe to call more than once.
	Close(ctx context.Context) error
}

// Element is a handle to a DOM element located on a Page. Handles are cheap
// and are re-resolved by every step.
type Element interface {
	// Ref returns the CSS selector that uniquely addresses the element.
	Ref() string
	// TagName returns the lower-case tag name captured when the element was located.
	TagName() string
	// Attribute returns the attribute value, or "" when the attribute is absent.
	Attribute(ctx context.Context, name string) (string, error)
	// Value returns the current form value (textarea/input/select).
	Value(ctx context.Context) (string, error)
	// IsVisible reports whether the element is currently rendered.
	IsVisible(ctx context.Context) (bool, error)
}

// Launcher owns a browser process and hands out isolated pages.
type Launcher interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}
