// internal/steps/scenario.go
package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
)

// scenario holds the page owned by one running scenario.
type scenario struct {
	*Bindings
	id     string
	name   string
	page   session.Page
	logger *zap.Logger
}

func (s *scenario) before(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	s.id = uuid.NewString()
	s.name = sc.Name
	s.logger = s.Bindings.logger.With(zap.String("scenario_id", s.id), zap.String("scenario", sc.Name))

	page, err := s.launcher.NewPage(ctx)
	if err != nil {
		return ctx, fmt.Errorf("failed to open page for scenario %q: %w", sc.Name, err)
	}
	s.page = page
	s.logger.Debug("Scenario started.")
	return ctx, nil
}

func (s *scenario) after(ctx context.Context, sc *godog.Scenario, stepErr error) (context.Context, error) {
	if s.page == nil {
		return ctx, nil
	}
	if stepErr != nil {
		s.logger.Info("Scenario failed.", zap.Error(stepErr))
		s.saveScreenshot(ctx)
	}
	// The page must be closed even when the run is being canceled.
	if err := s.page.Close(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("Failed to close page.", zap.Error(err))
	}
	s.page = nil
	return ctx, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func (s *scenario) saveScreenshot(ctx context.Context) {
	dir := s.cfg.Browser.ArtifactsDir
	if dir == "" {
		return
	}
	shotCtx, cancel := s.stepContext(context.WithoutCancel(ctx))
	defer cancel()

	png, err := s.page.Screenshot(shotCtx)
	if err != nil {
		s.logger.Warn("Could not capture failure screenshot.", zap.Error(err))
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Warn("Could not create artifacts directory.", zap.String("dir", dir), zap.Error(err))
		return
	}
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s.name), "-"), "-")
	if slug == "" {
		slug = "scenario"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", slug, s.id))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		s.logger.Warn("Could not write failure screenshot.", zap.String("path", path), zap.Error(err))
		return
	}
	s.logger.Info("Saved failure screenshot.", zap.String("path", path))
}

func (s *scenario) iShouldSeeAnEditPageForm(ctx context.Context) error {
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	return s.checker.AssertEditFormVisible(ctx, s.page)
}

func (s *scenario) iFillInTheHTMLFieldWith(ctx context.Context, field, value string) error {
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	return s.rich.SetContent(ctx, s.page, field, value)
}

func (s *scenario) iFillInForTheHTMLField(ctx context.Context, value, field string) error {
	return s.iFillInTheHTMLFieldWith(ctx, field, value)
}

func (s *scenario) iAppendToTheHTMLField(ctx context.Context, value, field string) error {
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	return s.rich.AppendContent(ctx, s.page, field, value)
}

func (s *scenario) theHTMLFieldShouldContain(ctx context.Context, field, html string) error {
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	return s.rich.AssertContains(ctx, s.page, field, html)
}

func (s *scenario) textInHTMLFieldShouldBeFormatted(ctx context.Context, text, field, negate, formatting string) error {
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	return s.rich.AssertFormatting(ctx, s.page, text, field, isNegated(negate), formatting)
}

func (s *scenario) iSelectInTheHTMLField(ctx context.Context, text, field string) error {
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	_, err := s.rich.SelectText(ctx, s.page, field, text)
	return err
}

func (s *scenario) iShouldSeeAButton(ctx context.Context, text string) error {
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	return s.checker.AssertButtonVisible(ctx, s.page, text, true)
}

func (s *scenario) iShouldNotSeeAButton(ctx context.Context, text string) error {
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	return s.checker.AssertButtonVisible(ctx, s.page, text, false)
}

func (s *scenario) iGoTo(ctx context.Context, target string) error {
	u, err := resolveURL(s.cfg.Suite.BaseURL, target)
	if err != nil {
		return err
	}
	ctx, cancel := s.stepContext(ctx)
	defer cancel()
	return s.page.Navigate(ctx, u)
}
