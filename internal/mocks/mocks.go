// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
)

// -- Page Mock --

// MockPage mocks the session.Page interface.
type MockPage struct {
	mock.Mock
}

var _ session.Page = (*MockPage)(nil)

func (m *MockPage) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *MockPage) FindField(ctx context.Context, label string) (session.Element, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(session.Element), args.Error(1)
}

func (m *MockPage) FindAll(ctx context.Context, sel session.Selector) ([]session.Element, error) {
	args := m.Called(ctx, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.Element), args.Error(1)
}

// Evaluate records the script and its arguments as separate call arguments.
func (m *MockPage) Evaluate(ctx context.Context, fn string, args ...interface{}) (json.RawMessage, error) {
	callArgs := append([]interface{}{ctx, fn}, args...)
	ret := m.Called(callArgs...)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	switch v := ret.Get(0).(type) {
	case string:
		return json.RawMessage(v), ret.Error(1)
	default:
		return v.(json.RawMessage), ret.Error(1)
	}
}

func (m *MockPage) Screenshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPage) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// -- Element Mock --

// MockElement mocks the session.Element interface. Ref and Tag are plain
// fields because every test needs them.
type MockElement struct {
	mock.Mock
	RefSelector string
	Tag         string
}

var _ session.Element = (*MockElement)(nil)

// NewMockElement returns an element addressed by ref.
func NewMockElement(ref, tag string) *MockElement {
	return &MockElement{RefSelector: session.RefSelector(ref), Tag: tag}
}

func (m *MockElement) Ref() string     { return m.RefSelector }
func (m *MockElement) TagName() string { return m.Tag }

func (m *MockElement) Attribute(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockElement) Value(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockElement) IsVisible(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// -- Launcher Mock --

// MockLauncher mocks the session.Launcher interface.
type MockLauncher struct {
	mock.Mock
}

var _ session.Launcher = (*MockLauncher)(nil)

func (m *MockLauncher) NewPage(ctx context.Context) (session.Page, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(session.Page), args.Error(1)
}

func (m *MockLauncher) Close() error {
	return m.Called().Error(0)
}
