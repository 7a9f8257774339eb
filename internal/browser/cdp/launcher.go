// internal/browser/cdp/launcher.go
package cdp

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
	"github.com/xkilldash9x/cmsbehave/internal/config"
)

// Launcher owns one Chrome process, started locally or attached through a
// remote debugging URL, and opens a fresh tab per page.
type Launcher struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu    sync.Mutex
	pages map[*Page]struct{}
}

var _ session.Launcher = (*Launcher)(nil)

// NewLauncher starts (or attaches to) the browser. ctx bounds the lifetime
// of the browser process.
func NewLauncher(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Launcher, error) {
	l := &Launcher{
		cfg:    cfg,
		logger: logger.Named("cdp"),
		pages:  make(map[*Page]struct{}),
	}

	var allocCtx context.Context
	if cfg.RemoteURL != "" {
		allocCtx, l.allocCancel = chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL)
		l.logger.Info("Attaching to remote browser.", zap.String("remote_url", cfg.RemoteURL))
	} else {
		allocCtx, l.allocCancel = chromedp.NewExecAllocator(ctx, execOptions(cfg)...)
		l.logger.Info("Launching browser.", zap.Bool("headless", cfg.Headless), zap.String("exec_path", cfg.ExecPath))
	}

	l.browserCtx, l.browserCancel = chromedp.NewContext(allocCtx,
		chromedp.WithLogf(l.logger.Sugar().Debugf),
		chromedp.WithErrorf(l.logger.Sugar().Errorf),
	)
	// The first Run on the browser context starts the process.
	if err := chromedp.Run(l.browserCtx); err != nil {
		l.browserCancel()
		l.allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return l, nil
}

// NewPage opens a new tab sized to the configured viewport.
func (l *Launcher) NewPage(ctx context.Context) (session.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tabCtx, tabCancel := chromedp.NewContext(l.browserCtx)
	p := &Page{
		tabCtx:    tabCtx,
		tabCancel: tabCancel,
		logger:    l.logger.Named("page"),
	}

	// The first Run attaches the tab and ties its event loop to the context
	// it runs on, so it must be tabCtx itself. ctx may only abort the attach.
	stop := context.AfterFunc(ctx, tabCancel)
	err := chromedp.Run(tabCtx)
	stop()
	if err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to attach tab: %w", err)
	}

	width, height := viewport(l.cfg)
	if err := p.run(ctx, emulation.SetDeviceMetricsOverride(int64(width), int64(height), 1, false)); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	l.mu.Lock()
	l.pages[p] = struct{}{}
	l.mu.Unlock()
	p.onClose = func() {
		l.mu.Lock()
		delete(l.pages, p)
		l.mu.Unlock()
	}

	l.logger.Debug("Tab opened.")
	return p, nil
}

// Close closes every open tab and then the browser.
func (l *Launcher) Close() error {
	l.mu.Lock()
	open := make([]*Page, 0, len(l.pages))
	for p := range l.pages {
		open = append(open, p)
	}
	l.mu.Unlock()

	for _, p := range open {
		if err := p.Close(context.Background()); err != nil {
			l.logger.Warn("Failed to close tab during shutdown.", zap.Error(err))
		}
	}

	err := chromedp.Cancel(l.browserCtx)
	l.browserCancel()
	l.allocCancel()
	if err != nil && l.cfg.RemoteURL == "" {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	l.logger.Info("Browser closed.")
	return nil
}
