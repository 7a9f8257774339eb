// internal/browser/pw/launcher.go
package pw

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
	"github.com/xkilldash9x/cmsbehave/internal/config"
)

const playwrightInstallTimeout = 5 * time.Minute

// Launcher runs the Playwright driver and one Chromium instance. Every page
// gets its own BrowserContext so scenarios never share cookies or storage.
type Launcher struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	pw      *playwright.Playwright
	browser playwright.Browser

	mu    sync.Mutex
	pages map[*Page]struct{}
	wg    sync.WaitGroup

	initOnce sync.Once
	initErr  error
}

var _ session.Launcher = (*Launcher)(nil)

// NewLauncher creates a launcher. The driver and browser start on the first NewPage.
func NewLauncher(cfg config.BrowserConfig, logger *zap.Logger) *Launcher {
	return &Launcher{
		cfg:    cfg,
		logger: logger.Named("playwright"),
		pages:  make(map[*Page]struct{}),
	}
}

func (l *Launcher) initialize(ctx context.Context) error {
	l.initOnce.Do(func() {
		l.logger.Info("Starting Playwright and launching browser...")

		if err := l.ensureInstallation(ctx); err != nil {
			l.initErr = err
			return
		}

		pw, err := playwright.Run()
		if err != nil {
			l.initErr = fmt.Errorf("failed to start playwright driver: %w", err)
			return
		}

		browser, err := pw.Chromium.Launch(l.launchOptions())
		if err != nil {
			if stopErr := pw.Stop(); stopErr != nil {
				l.logger.Warn("Failed to stop playwright driver after launch failure.", zap.Error(stopErr))
			}
			l.initErr = fmt.Errorf("failed to launch browser instance: %w", err)
			return
		}
		l.pw = pw
		l.browser = browser
		l.logger.Info("Browser launched.", zap.String("browser_version", browser.Version()))
	})
	return l.initErr
}

// ensureInstallation installs the Chromium build matching the driver when it
// is missing. It is a no-op for custom executables.
func (l *Launcher) ensureInstallation(ctx context.Context) error {
	if l.cfg.ExecPath != "" {
		return nil
	}
	installCtx, cancel := context.WithTimeout(ctx, playwrightInstallTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to install playwright browsers: %w", err)
		}
		return nil
	case <-installCtx.Done():
		return fmt.Errorf("timeout waiting for playwright installation: %w", installCtx.Err())
	}
}

func (l *Launcher) launchOptions() playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.cfg.Headless),
		Args:     append([]string{"--disable-gpu", "--no-sandbox", "--disable-dev-shm-usage"}, l.cfg.Args...),
		Timeout:  playwright.Float(60000),
	}
	if l.cfg.ExecPath != "" {
		opts.ExecutablePath = playwright.String(l.cfg.ExecPath)
	}
	return opts
}

func (l *Launcher) contextOptions() playwright.BrowserNewContextOptions {
	width, height := l.cfg.Viewport["width"], l.cfg.Viewport["height"]
	opts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(l.cfg.IgnoreTLSErrors),
	}
	if width > 0 && height > 0 {
		opts.Viewport = &playwright.Size{Width: width, Height: height}
	}
	return opts
}

// NewPage opens a page in a fresh browser context.
func (l *Launcher) NewPage(ctx context.Context) (session.Page, error) {
	if err := l.initialize(ctx); err != nil {
		return nil, err
	}

	bctx, err := l.browser.NewContext(l.contextOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	p := &Page{bctx: bctx, page: page, logger: l.logger.Named("page")}
	l.wg.Add(1)
	l.mu.Lock()
	l.pages[p] = struct{}{}
	l.mu.Unlock()
	p.onClose = func() {
		l.mu.Lock()
		delete(l.pages, p)
		l.mu.Unlock()
		l.wg.Done()
	}
	return p, nil
}

// Close closes the open pages, the browser and the driver.
func (l *Launcher) Close() error {
	if l.pw == nil {
		l.logger.Debug("Playwright was never started; nothing to close.")
		return nil
	}

	l.mu.Lock()
	open := make([]*Page, 0, len(l.pages))
	for p := range l.pages {
		open = append(open, p)
	}
	l.mu.Unlock()
	for _, p := range open {
		if err := p.Close(context.Background()); err != nil {
			l.logger.Warn("Error closing page during shutdown.", zap.Error(err))
		}
	}
	l.wg.Wait()

	var shutdownErr error
	if err := l.browser.Close(); err != nil {
		shutdownErr = fmt.Errorf("failed to close browser: %w", err)
	}
	if err := l.pw.Stop(); err != nil && shutdownErr == nil {
		shutdownErr = fmt.Errorf("failed to stop playwright driver: %w", err)
	}
	l.logger.Info("Playwright shut down.")
	return shutdownErr
}
