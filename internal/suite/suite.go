// internal/suite/suite.go
package suite

import (
	"context"
	"fmt"
	"io"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/browser"
	"github.com/xkilldash9x/cmsbehave/internal/config"
	"github.com/xkilldash9x/cmsbehave/internal/steps"
)

// Exit statuses returned by Run, matching godog's.
const (
	StatusPassed      = 0
	StatusFailed      = 1
	StatusOptionError = 2
)

// newLauncher is swapped out in tests.
var newLauncher = browser.New

// Run executes the configured feature files against a freshly launched
// browser and returns the godog exit status. The error is non-nil only when
// the browser could not be started or shut down cleanly; a run that passed
// but failed to shut down reports StatusFailed.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) (int, error) {
	logger = logger.Named("suite")

	launcher, err := newLauncher(ctx, cfg.Browser, logger)
	if err != nil {
		return StatusOptionError, fmt.Errorf("failed to start browser: %w", err)
	}

	bindings := steps.New(cfg, launcher, logger)
	ts := godog.TestSuite{
		Name:                cfg.Suite.Name,
		ScenarioInitializer: bindings.InitializeScenario,
		TestSuiteInitializer: func(tsc *godog.TestSuiteContext) {
			tsc.BeforeSuite(func() {
				logger.Info("Suite started.",
					zap.Strings("paths", cfg.Suite.Paths),
					zap.String("tags", cfg.Suite.Tags),
					zap.String("driver", cfg.Browser.Driver),
				)
			})
		},
		Options: &godog.Options{
			Format:         cfg.Suite.Format,
			Paths:          cfg.Suite.Paths,
			Tags:           cfg.Suite.Tags,
			Strict:         cfg.Suite.Strict,
			Concurrency:    1,
			Output:         out,
			DefaultContext: ctx,
		},
	}

	status := ts.Run()
	logger.Info("Suite finished.", zap.Int("status", status))

	if err := launcher.Close(); err != nil {
		if status == StatusPassed {
			status = StatusFailed
		}
		return status, fmt.Errorf("failed to shut down browser: %w", err)
	}
	return status, nil
}
