// internal/steps/steps.go
package steps

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
	"github.com/xkilldash9x/cmsbehave/internal/cms"
	"github.com/xkilldash9x/cmsbehave/internal/config"
	"github.com/xkilldash9x/cmsbehave/internal/richtext"
)

// Definition documents one bound phrase pattern.
type Definition struct {
	Pattern string
	Help    string
}

// Bindings wires the CMS steps into godog scenarios. One Bindings value is
// shared by the whole run; page state lives in a per-scenario value.
type Bindings struct {
	cfg      *config.Config
	launcher session.Launcher
	logger   *zap.Logger
	rich     *richtext.Interactor
	checker  *cms.Checker
}

// New creates the bindings. Pages are opened from launcher, one per scenario.
func New(cfg *config.Config, launcher session.Launcher, logger *zap.Logger) *Bindings {
	return &Bindings{
		cfg:      cfg,
		launcher: launcher,
		logger:   logger.Named("steps"),
		rich:     richtext.New(logger, richtext.Options{LegacyAlignment: cfg.CMS.LegacyAlignment}),
		checker:  cms.NewChecker(logger, cfg.CMS.EditFormSelector),
	}
}

type binding struct {
	Definition
	handler interface{}
}

func (s *scenario) bindings() []binding {
	return []binding{
		{Definition{`^I should see an edit page form$`, "assert the CMS edit form is on the page"}, s.iShouldSeeAnEditPageForm},
		{Definition{`^I fill in the "([^"]*)" HTML field with "([^"]*)"$`, "replace the content of a rich-text field"}, s.iFillInTheHTMLFieldWith},
		{Definition{`^I fill in "([^"]*)" for the "([^"]*)" HTML field$`, "replace the content of a rich-text field"}, s.iFillInForTheHTMLField},
		{Definition{`^I append "([^"]*)" to the "([^"]*)" HTML field$`, "insert content at the editor's insertion point"}, s.iAppendToTheHTMLField},
		{Definition{`^the "([^"]*)" HTML field should contain "(.*)"$`, "case-insensitive search of the field's markup"}, s.theHTMLFieldShouldContain},
		{Definition{`^"([^"]*)" in the "([^"]*)" HTML field should( not)? be (.*)$`, "check formatting: bold, italic, left/right/center aligned, justified"}, s.textInHTMLFieldShouldBeFormatted},
		{Definition{`^I select "([^"]*)" in the "([^"]*)" HTML field$`, "select the first occurrence of text in the editor"}, s.iSelectInTheHTMLField},
		{Definition{`^I should see a "([^"]*)" button$`, "assert a visible link or button matches the text"}, s.iShouldSeeAButton},
		{Definition{`^I should not see a "([^"]*)" button$`, "assert no visible link or button matches the text"}, s.iShouldNotSeeAButton},
		{Definition{`^I go to "([^"]*)"$`, "navigate to a URL, relative to suite.base_url"}, s.iGoTo},
	}
}

// Definitions lists every bound phrase pattern.
func Definitions() []Definition {
	var s scenario
	bs := s.bindings()
	defs := make([]Definition, 0, len(bs))
	for _, b := range bs {
		defs = append(defs, b.Definition)
	}
	return defs
}

// InitializeScenario is a godog scenario initializer.
func (b *Bindings) InitializeScenario(sc *godog.ScenarioContext) {
	s := &scenario{Bindings: b}
	sc.Before(s.before)
	sc.After(s.after)
	for _, binding := range s.bindings() {
		sc.Step(binding.Pattern, binding.handler)
	}
}

// resolveURL resolves target against the configured base URL.
func resolveURL(base, target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", target, err)
	}
	if ref.IsAbs() || base == "" {
		return ref.String(), nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid suite.base_url %q: %w", base, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

func isNegated(flag string) bool {
	return strings.TrimSpace(flag) == "not"
}

// stepContext bounds the browser round-trips of one step.
func (b *Bindings) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.cfg.Browser.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.cfg.Browser.Timeout)
}
