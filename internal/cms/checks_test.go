// internal/cms/checks_test.go
package cms_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
	"github.com/xkilldash9x/cmsbehave/internal/cms"
	"github.com/xkilldash9x/cmsbehave/internal/mocks"
	"github.com/xkilldash9x/cmsbehave/internal/richtext"
)

func visibleElement(ref string, visible bool) *mocks.MockElement {
	el := mocks.NewMockElement(ref, "button")
	el.On("IsVisible", context.Background()).Return(visible, nil)
	return el
}

func TestAssertEditFormVisible(t *testing.T) {
	ctx := context.Background()
	formSel := session.Selector{Kind: session.KindCSS, Locator: "#Form_EditForm"}

	t.Run("present", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("FindAll", ctx, formSel).Return([]session.Element{mocks.NewMockElement("f", "form")}, nil).Once()

		assert.NoError(t, cms.NewChecker(zaptest.NewLogger(t), "").AssertEditFormVisible(ctx, page))
		page.AssertExpectations(t)
	})

	t.Run("absent", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("FindAll", ctx, formSel).Return([]session.Element{}, nil).Once()

		err := cms.NewChecker(zaptest.NewLogger(t), "").AssertEditFormVisible(ctx, page)
		assert.True(t, richtext.IsNotFound(err))
		assert.EqualError(t, err, `edit page form "#Form_EditForm" not found`)
	})

	t.Run("custom selector", func(t *testing.T) {
		page := new(mocks.MockPage)
		custom := session.Selector{Kind: session.KindCSS, Locator: "form.cms-edit-form"}
		page.On("FindAll", ctx, custom).Return([]session.Element{mocks.NewMockElement("f", "form")}, nil).Once()

		assert.NoError(t, cms.NewChecker(zaptest.NewLogger(t), "form.cms-edit-form").AssertEditFormVisible(ctx, page))
		page.AssertExpectations(t)
	})

	t.Run("lookup failure", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("FindAll", ctx, formSel).Return(nil, session.ErrPageClosed).Once()

		err := cms.NewChecker(zaptest.NewLogger(t), "").AssertEditFormVisible(ctx, page)
		assert.ErrorIs(t, err, session.ErrPageClosed)
	})
}

func TestAssertButtonVisible(t *testing.T) {
	ctx := context.Background()
	saveSel := session.Selector{Kind: session.KindLinkOrButton, Locator: "Save"}

	tests := []struct {
		name          string
		visibility    []bool
		expectPresent bool
		wantNotFound  bool
		wantMismatch  bool
	}{
		{name: "one visible, expect present", visibility: []bool{true}, expectPresent: true},
		{name: "several visible, expect present", visibility: []bool{true, false, true}, expectPresent: true},
		{name: "only hidden, expect present", visibility: []bool{false, false}, expectPresent: true, wantNotFound: true},
		{name: "none, expect present", visibility: nil, expectPresent: true, wantNotFound: true},
		{name: "none, expect absent", visibility: nil, expectPresent: false},
		{name: "only hidden, expect absent", visibility: []bool{false}, expectPresent: false},
		{name: "visible, expect absent", visibility: []bool{false, true}, expectPresent: false, wantMismatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements := make([]session.Element, 0, len(tt.visibility))
			for i, v := range tt.visibility {
				elements = append(elements, visibleElement(string(rune('a'+i)), v))
			}
			page := new(mocks.MockPage)
			page.On("FindAll", ctx, saveSel).Return(elements, nil).Once()

			err := cms.NewChecker(zaptest.NewLogger(t), "").AssertButtonVisible(ctx, page, "Save", tt.expectPresent)
			switch {
			case tt.wantNotFound:
				assert.True(t, richtext.IsNotFound(err), "got %v", err)
			case tt.wantMismatch:
				assert.True(t, richtext.IsMismatch(err), "got %v", err)
			default:
				assert.NoError(t, err)
			}
			page.AssertExpectations(t)
		})
	}

	t.Run("visibility failure", func(t *testing.T) {
		el := mocks.NewMockElement("x", "a")
		el.On("IsVisible", ctx).Return(false, errors.New("detached"))
		page := new(mocks.MockPage)
		page.On("FindAll", ctx, saveSel).Return([]session.Element{el}, nil).Once()

		err := cms.NewChecker(zaptest.NewLogger(t), "").AssertButtonVisible(ctx, page, "Save", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "detached")
	})
}
