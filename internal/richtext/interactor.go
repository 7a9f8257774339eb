// internal/richtext/interactor.go
package richtext

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
)

// editorScript binds the rich-text editor of a field and runs one operation
// on it. It is called with (fieldSelector, op, value).
//
//go:embed js/editor.js
var editorScript string

const (
	opSet    = "set"
	opInsert = "insert"
	opSelect = "select"
)

// Options tunes the interactor.
type Options struct {
	// LegacyAlignment compares the raw style attribute for alignment checks
	// and skips "left aligned" when the element has no style at all.
	LegacyAlignment bool
}

// Interactor drives and inspects rich-text fields on a page. It keeps no
// state between calls; every operation resolves its field again.
type Interactor struct {
	logger *zap.Logger
	opts   Options
}

// New creates an Interactor.
func New(logger *zap.Logger, opts Options) *Interactor {
	return &Interactor{logger: logger.Named("richtext"), opts: opts}
}

// Selection is the outcome of SelectText. Start and End are offsets into the
// text node that contains the match.
type Selection struct {
	Matched bool `json:"matched"`
	Start   int  `json:"start"`
	End     int  `json:"end"`
}

// Resolve locates the form field labelled label.
func (i *Interactor) Resolve(ctx context.Context, page session.Page, label string) (session.Element, error) {
	el, err := page.FindField(ctx, label)
	if err != nil {
		if errors.Is(err, session.ErrElementNotFound) {
			return nil, &NotFoundError{Kind: "HTML field", Locator: label}
		}
		return nil, fmt.Errorf("failed to resolve HTML field %q: %w", label, err)
	}
	i.logger.Debug("HTML field resolved.", zap.String("field", label), zap.String("ref", el.Ref()))
	return el, nil
}

// SetContent replaces the content of the field's editor with value.
func (i *Interactor) SetContent(ctx context.Context, page session.Page, field, value string) error {
	_, err := i.runEditor(ctx, page, field, opSet, value)
	return err
}

// AppendContent inserts value at the editor's current insertion point.
func (i *Interactor) AppendContent(ctx context.Context, page session.Page, field, value string) error {
	_, err := i.runEditor(ctx, page, field, opInsert, value)
	return err
}

// SelectText selects the first case-sensitive occurrence of text inside a
// single text node of the editor document. Finding nothing is not an error.
func (i *Interactor) SelectText(ctx context.Context, page session.Page, field, text string) (Selection, error) {
	sel, err := i.runEditor(ctx, page, field, opSelect, text)
	if err != nil {
		return Selection{}, err
	}
	if !sel.Matched {
		i.logger.Debug("No text node matched; selection unchanged.", zap.String("field", field), zap.String("text", text))
	}
	return sel, nil
}

func (i *Interactor) runEditor(ctx context.Context, page session.Page, field, op, value string) (Selection, error) {
	el, err := i.Resolve(ctx, page, field)
	if err != nil {
		return Selection{}, err
	}
	raw, err := page.Evaluate(ctx, editorScript, el.Ref(), op, value)
	if err != nil {
		return Selection{}, fmt.Errorf("editor %s on %q: %w", op, field, err)
	}
	var sel Selection
	if err := jsoniter.Unmarshal(raw, &sel); err != nil {
		return Selection{}, fmt.Errorf("failed to decode editor %s result: %w", op, err)
	}
	return sel, nil
}

// fieldValue resolves field and reads its serialized content.
func (i *Interactor) fieldValue(ctx context.Context, page session.Page, field string) (string, error) {
	el, err := i.Resolve(ctx, page, field)
	if err != nil {
		return "", err
	}
	value, err := el.Value(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML field %q: %w", field, err)
	}
	return value, nil
}

// AssertFormatting checks the formatting of the element wrapping text in
// the field's markup. negate inverts the expectation.
func (i *Interactor) AssertFormatting(ctx context.Context, page session.Page, text, field string, negate bool, formatting string) error {
	kind, err := ParseFormatting(formatting)
	if err != nil {
		return err
	}
	markup, err := i.fieldValue(ctx, page, field)
	if err != nil {
		return err
	}
	err = CheckFormatting(markup, text, negate, kind, i.opts)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		nf.In = field
	}
	return err
}

// AssertContains checks that the field's markup contains html, ignoring case.
func (i *Interactor) AssertContains(ctx context.Context, page session.Page, field, html string) error {
	markup, err := i.fieldValue(ctx, page, field)
	if err != nil {
		return err
	}
	if !containsFold(markup, html) {
		return &AssertionMismatchError{
			Subject:  fmt.Sprintf("HTML of field %q should contain the string", field),
			Expected: html,
			Actual:   markup,
		}
	}
	return nil
}
