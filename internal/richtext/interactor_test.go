// internal/richtext/interactor_test.go
package richtext_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
	"github.com/xkilldash9x/cmsbehave/internal/mocks"
	"github.com/xkilldash9x/cmsbehave/internal/richtext"
)

const contentRef = "field-0"

func setup(t *testing.T, opts richtext.Options) (*richtext.Interactor, *mocks.MockPage, *mocks.MockElement) {
	t.Helper()
	page := new(mocks.MockPage)
	el := mocks.NewMockElement(contentRef, "textarea")
	t.Cleanup(func() {
		page.AssertExpectations(t)
		el.AssertExpectations(t)
	})
	return richtext.New(zaptest.NewLogger(t), opts), page, el
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()

		got, err := ri.Resolve(ctx, page, "Content")
		require.NoError(t, err)
		assert.Equal(t, `[data-cmsbehave-ref="field-0"]`, got.Ref())
	})

	t.Run("not found", func(t *testing.T) {
		ri, page, _ := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Nope").Return(nil, session.ErrElementNotFound).Once()

		_, err := ri.Resolve(ctx, page, "Nope")
		var nf *richtext.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "HTML field", nf.Kind)
		assert.Equal(t, "Nope", nf.Locator)
		assert.EqualError(t, err, `HTML field "Nope" not found`)
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		ri, page, _ := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(nil, session.ErrPageClosed).Once()

		_, err := ri.Resolve(ctx, page, "Content")
		assert.ErrorIs(t, err, session.ErrPageClosed)
		assert.False(t, richtext.IsNotFound(err))
	})
}

func TestMutations(t *testing.T) {
	ctx := context.Background()
	value := `It's <a href="x">"quoted"</a> </script>`

	t.Run("set content passes the value as an argument", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		page.On("Evaluate", ctx, mock.AnythingOfType("string"), el.Ref(), "set", value).Return(`{"matched":true}`, nil).Once()

		require.NoError(t, ri.SetContent(ctx, page, "Content", value))
	})

	t.Run("append content uses insert", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		page.On("Evaluate", ctx, mock.AnythingOfType("string"), el.Ref(), "insert", "<p>more</p>").Return(`{"matched":true}`, nil).Once()

		require.NoError(t, ri.AppendContent(ctx, page, "Content", "<p>more</p>"))
	})

	t.Run("unresolved field runs no script", func(t *testing.T) {
		ri, page, _ := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Missing").Return(nil, session.ErrElementNotFound).Twice()

		assert.True(t, richtext.IsNotFound(ri.SetContent(ctx, page, "Missing", "x")))
		assert.True(t, richtext.IsNotFound(ri.AppendContent(ctx, page, "Missing", "x")))
		page.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("script errors surface unmodified", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		scriptErr := &session.ScriptError{Err: errors.New("Error: no rich-text editor is bound to #Content")}
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		page.On("Evaluate", ctx, mock.Anything, el.Ref(), "set", "x").Return(nil, scriptErr).Once()

		err := ri.SetContent(ctx, page, "Content", "x")
		var se *session.ScriptError
		require.ErrorAs(t, err, &se)
		assert.Same(t, scriptErr, se)
	})
}

func TestSelectText(t *testing.T) {
	ctx := context.Background()

	t.Run("match reports offsets", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		page.On("Evaluate", ctx, mock.Anything, el.Ref(), "select", "world").Return(`{"matched":true,"start":6,"end":11}`, nil).Once()

		sel, err := ri.SelectText(ctx, page, "Content", "world")
		require.NoError(t, err)
		assert.Equal(t, richtext.Selection{Matched: true, Start: 6, End: 11}, sel)
	})

	t.Run("no match is not an error", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		page.On("Evaluate", ctx, mock.Anything, el.Ref(), "select", "absent").Return(`{"matched":false}`, nil).Once()

		sel, err := ri.SelectText(ctx, page, "Content", "absent")
		require.NoError(t, err)
		assert.False(t, sel.Matched)
	})

	t.Run("undecodable result", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		page.On("Evaluate", ctx, mock.Anything, el.Ref(), "select", "x").Return(`"oops"`, nil).Once()

		_, err := ri.SelectText(ctx, page, "Content", "x")
		assert.ErrorContains(t, err, "failed to decode editor select result")
	})
}

func TestAssertFormatting(t *testing.T) {
	ctx := context.Background()

	t.Run("bold passes and not bold fails", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Twice()
		el.On("Value", ctx).Return("<strong>hello</strong>", nil).Twice()

		assert.NoError(t, ri.AssertFormatting(ctx, page, "hello", "Content", false, "bold"))
		assert.True(t, richtext.IsMismatch(ri.AssertFormatting(ctx, page, "hello", "Content", true, "bold")))
	})

	t.Run("legacy alignment option", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{LegacyAlignment: true})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		el.On("Value", ctx).Return(`<p style="text-align:right">hi</p>`, nil).Once()

		assert.True(t, richtext.IsMismatch(ri.AssertFormatting(ctx, page, "hi", "Content", false, "right aligned")))
	})

	t.Run("missing text names the field", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		el.On("Value", ctx).Return("<p>hi</p>", nil).Once()

		err := ri.AssertFormatting(ctx, page, "bye", "Content", false, "bold")
		assert.EqualError(t, err, `text "bye" not found in "Content"`)
	})

	t.Run("unsupported kind fails before touching the page", func(t *testing.T) {
		ri, page, _ := setup(t, richtext.Options{})

		err := ri.AssertFormatting(ctx, page, "hi", "Content", false, "underlined")
		assert.ErrorIs(t, err, richtext.ErrUnsupportedFormatting)
		page.AssertNotCalled(t, "FindField", mock.Anything, mock.Anything)
	})

	t.Run("value read failure", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		el.On("Value", ctx).Return("", errors.New("detached")).Once()

		err := ri.AssertFormatting(ctx, page, "hi", "Content", false, "bold")
		assert.ErrorContains(t, err, `failed to read HTML field "Content": detached`)
	})
}

func TestAssertContains(t *testing.T) {
	ctx := context.Background()

	t.Run("case-insensitive literal match", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		el.On("Value", ctx).Return("<p>Hello <STRONG>World</STRONG></p>", nil).Once()

		assert.NoError(t, ri.AssertContains(ctx, page, "Content", "<strong>world</strong>"))
	})

	t.Run("mismatch quotes the actual content", func(t *testing.T) {
		ri, page, el := setup(t, richtext.Options{})
		page.On("FindField", ctx, "Content").Return(el, nil).Once()
		el.On("Value", ctx).Return("<p>Hello</p>", nil).Once()

		err := ri.AssertContains(ctx, page, "Content", "<em>")
		var mismatch *richtext.AssertionMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "<em>", mismatch.Expected)
		assert.Equal(t, "<p>Hello</p>", mismatch.Actual)
	})
}
