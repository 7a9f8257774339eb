// internal/browser/launcher.go
package browser

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser/cdp"
	"github.com/xkilldash9x/cmsbehave/internal/browser/pw"
	"github.com/xkilldash9x/cmsbehave/internal/browser/session"
	"github.com/xkilldash9x/cmsbehave/internal/config"
)

// New returns the launcher for the driver named in cfg.Driver. ctx bounds the
// lifetime of a locally started chromedp browser.
func New(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (session.Launcher, error) {
	switch cfg.Driver {
	case config.DriverChromedp, "":
		return cdp.NewLauncher(ctx, cfg, logger)
	case config.DriverPlaywright:
		return pw.NewLauncher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported browser driver %q", cfg.Driver)
	}
}
