// File: cmd/run.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/config"
	"github.com/xkilldash9x/cmsbehave/internal/observability"
	"github.com/xkilldash9x/cmsbehave/internal/suite"
)

// runSuite is swapped out in tests.
var runSuite = suite.Run

func newRunCmd(v *viper.Viper) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run feature files against the configured CMS",
		Long: `Run executes Gherkin feature files with a browser driven by chromedp or
Playwright. Paths default to suite.paths from the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				v.Set("suite.paths", args)
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}

			logger := observability.GetLogger()
			logger.Debug("Configuration loaded.",
				zap.String("driver", cfg.Browser.Driver),
				zap.String("base_url", cfg.Suite.BaseURL),
			)

			status, err := runSuite(cmd.Context(), cfg, logger, cmd.OutOrStdout())
			if err != nil {
				if status == suite.StatusPassed {
					status = ExitFailed
				}
				return &ExitError{Code: status, Err: err}
			}
			if status != suite.StatusPassed {
				return &ExitError{Code: status}
			}
			return nil
		},
	}

	flags := runCmd.Flags()
	flags.String("driver", "", fmt.Sprintf("browser driver (%s or %s)", config.DriverChromedp, config.DriverPlaywright))
	flags.String("base-url", "", "base URL relative step URLs resolve against")
	flags.String("tags", "", "only run scenarios matching this tag expression")
	flags.String("format", "", "godog formatter (pretty, progress, cucumber, junit, ...)")
	flags.Bool("headless", true, "run the browser without a window")
	flags.Bool("legacy-alignment", false, "compare raw style attributes in alignment checks")

	bindings := map[string]string{
		"browser.driver":       "driver",
		"suite.base_url":       "base-url",
		"suite.tags":           "tags",
		"suite.format":         "format",
		"browser.headless":     "headless",
		"cms.legacy_alignment": "legacy-alignment",
	}
	for key, flag := range bindings {
		// Lookup cannot fail for flags defined just above.
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	return runCmd
}
