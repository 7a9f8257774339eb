// internal/browser/cdp/options.go
package cdp

import (
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/cmsbehave/internal/config"
)

const (
	defaultWidth  = 1280
	defaultHeight = 900
)

// execOptions translates the browser config into chromedp allocator options.
func execOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		// DefaultExecAllocatorOptions turns headless on; the config decides.
		chromedp.Flag("headless", cfg.Headless),
	)

	width, height := viewport(cfg)
	opts = append(opts, chromedp.WindowSize(width, height))

	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.IgnoreCertErrors)
	}

	for _, arg := range cfg.Args {
		// chromedp.Flag adds the leading dashes itself.
		arg = strings.TrimLeft(arg, "-")
		if arg == "" {
			continue
		}
		key, value, hasValue := strings.Cut(arg, "=")
		if !hasValue {
			opts = append(opts, chromedp.Flag(key, true))
			continue
		}
		opts = append(opts, chromedp.Flag(key, value))
	}
	return opts
}

func viewport(cfg config.BrowserConfig) (int, int) {
	width, height := cfg.Viewport["width"], cfg.Viewport["height"]
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}
