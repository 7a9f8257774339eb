// internal/browser/browsertest/conformance.go
package browsertest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
	"github.com/xkilldash9x/cmsbehave/internal/cms"
	"github.com/xkilldash9x/cmsbehave/internal/richtext"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

type fixture struct {
	launcher session.Launcher
	server   *httptest.Server
}

// openEditPage opens a fresh page on EditPage. The page is closed when the test finishes.
func (f *fixture) openEditPage(t *testing.T) (context.Context, session.Page) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	page, err := f.launcher.NewPage(ctx)
	require.NoError(t, err, "failed to open page")
	t.Cleanup(func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := page.Close(closeCtx); err != nil {
			t.Logf("Error closing page: %v", err)
		}
	})

	require.NoError(t, page.Navigate(ctx, f.server.URL+EditPagePath))
	return ctx, page
}

// RunConformance exercises a session.Launcher implementation against a real
// browser. Every driver must pass the same checks.
func RunConformance(t *testing.T, launcher session.Launcher) {
	f := &fixture{launcher: launcher, server: NewCMSServer(t)}

	t.Run("FindField", func(t *testing.T) {
		ctx, page := f.openEditPage(t)

		content, err := page.FindField(ctx, "Content")
		require.NoError(t, err)
		assert.Equal(t, "textarea", content.TagName())
		value, err := content.Value(ctx)
		require.NoError(t, err)
		assert.Equal(t, "<p>Hello <strong>world</strong></p>", value)

		byName, err := page.FindField(ctx, "Title")
		require.NoError(t, err)
		id, err := byName.Attribute(ctx, "id")
		require.NoError(t, err)
		assert.Equal(t, "Form_EditForm_Title", id)

		byPlaceholder, err := page.FindField(ctx, "search")
		require.ErrorIs(t, err, session.ErrElementNotFound, "placeholder matching is case-sensitive")
		assert.Nil(t, byPlaceholder)

		byPlaceholder, err = page.FindField(ctx, "Search pages")
		require.NoError(t, err)
		assert.Equal(t, "input", byPlaceholder.TagName())

		_, err = page.FindField(ctx, "SecurityID")
		assert.ErrorIs(t, err, session.ErrElementNotFound, "hidden inputs are not fields")
	})

	t.Run("FindAll", func(t *testing.T) {
		ctx, page := f.openEditPage(t)

		save, err := page.FindAll(ctx, session.Selector{Kind: session.KindLinkOrButton, Locator: "Save"})
		require.NoError(t, err)
		require.Len(t, save, 1)
		assert.Equal(t, "button", save[0].TagName())
		visible, err := save[0].IsVisible(ctx)
		require.NoError(t, err)
		assert.True(t, visible)

		publish, err := page.FindAll(ctx, session.Selector{Kind: session.KindLinkOrButton, Locator: "Publish"})
		require.NoError(t, err)
		require.Len(t, publish, 1)
		visible, err = publish[0].IsVisible(ctx)
		require.NoError(t, err)
		assert.False(t, visible)

		links, err := page.FindAll(ctx, session.Selector{Kind: session.KindLinkOrButton, Locator: "Back to list"})
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "a", links[0].TagName())

		forms, err := page.FindAll(ctx, session.Selector{Kind: session.KindCSS, Locator: "#Form_EditForm"})
		require.NoError(t, err)
		require.Len(t, forms, 1)

		again, err := page.FindAll(ctx, session.Selector{Kind: session.KindCSS, Locator: "#Form_EditForm"})
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.Equal(t, forms[0].Ref(), again[0].Ref(), "located elements keep their ref")

		none, err := page.FindAll(ctx, session.Selector{Kind: session.KindCSS, Locator: ".does-not-exist"})
		require.NoError(t, err)
		assert.Empty(t, none)

		missing, err := forms[0].Attribute(ctx, "data-missing")
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("Evaluate", func(t *testing.T) {
		ctx, page := f.openEditPage(t)

		raw, err := page.Evaluate(ctx, `function (a, b) { return a + b.length; }`, 1, `</script>"'`)
		require.NoError(t, err)
		var n int
		require.NoError(t, json.Unmarshal(raw, &n))
		assert.Equal(t, 12, n)

		raw, err = page.Evaluate(ctx, `function () {}`)
		require.NoError(t, err)
		assert.JSONEq(t, `null`, string(raw))

		raw, err = page.Evaluate(ctx, `async function (v) { return {echo: v}; }`, map[string]interface{}{"k": []int{1, 2}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"echo":{"k":[1,2]}}`, string(raw))

		_, err = page.Evaluate(ctx, `function () { throw new Error("boom"); }`)
		var scriptErr *session.ScriptError
		require.ErrorAs(t, err, &scriptErr)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("Screenshot", func(t *testing.T) {
		ctx, page := f.openEditPage(t)
		shot, err := page.Screenshot(ctx)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(shot, pngMagic), "screenshot should be a PNG")
	})

	t.Run("Close", func(t *testing.T) {
		ctx, page := f.openEditPage(t)
		require.NoError(t, page.Close(ctx))
		require.NoError(t, page.Close(ctx), "closing twice is allowed")
		_, err := page.Evaluate(ctx, `function () { return 1; }`)
		assert.Error(t, err)
	})

	t.Run("RichText", func(t *testing.T) {
		ctx, page := f.openEditPage(t)
		rich := richtext.New(Logger(t), richtext.Options{})

		require.NoError(t, rich.AssertFormatting(ctx, page, "world", "Content", false, "bold"))

		require.NoError(t, rich.SetContent(ctx, page, "Content", `<p style="text-align: center;">My text</p>`))
		require.NoError(t, rich.AssertContains(ctx, page, "Content", "<P STYLE"))
		require.NoError(t, rich.AssertFormatting(ctx, page, "my text", "Content", false, "center aligned"))

		require.NoError(t, rich.AppendContent(ctx, page, "Content", "<p><em>More</em></p>"))
		require.NoError(t, rich.AssertContains(ctx, page, "Content", "<em>More</em>"))
		require.NoError(t, rich.AssertFormatting(ctx, page, "More", "Content", false, "italic"))
		require.NoError(t, rich.AssertFormatting(ctx, page, "More", "Content", true, "bold"))

		sel, err := rich.SelectText(ctx, page, "Content", "text")
		require.NoError(t, err)
		assert.Equal(t, richtext.Selection{Matched: true, Start: 3, End: 7}, sel)
		raw, err := page.Evaluate(ctx, `function () { return window.editorSelection(); }`)
		require.NoError(t, err)
		assert.JSONEq(t, `"text"`, string(raw))

		sel, err = rich.SelectText(ctx, page, "Content", "absent")
		require.NoError(t, err)
		assert.False(t, sel.Matched)

		err = rich.SetContent(ctx, page, "Page name", "<p>x</p>")
		var scriptErr *session.ScriptError
		assert.ErrorAs(t, err, &scriptErr, "plain inputs have no editor")

		err = rich.SetContent(ctx, page, "Nope", "<p>x</p>")
		assert.True(t, richtext.IsNotFound(err))
	})

	t.Run("CMSChecks", func(t *testing.T) {
		ctx, page := f.openEditPage(t)
		checker := cms.NewChecker(Logger(t), cms.DefaultEditFormSelector)

		require.NoError(t, checker.AssertEditFormVisible(ctx, page))
		require.NoError(t, checker.AssertButtonVisible(ctx, page, "Save draft", true))
		require.NoError(t, checker.AssertButtonVisible(ctx, page, "Publish", false))
		assert.True(t, richtext.IsNotFound(checker.AssertButtonVisible(ctx, page, "Publish", true)))
	})
}
