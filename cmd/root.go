// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/cmsbehave/internal/config"
	"github.com/xkilldash9x/cmsbehave/internal/observability"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitConfigError = 2
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailed
}

// NewRootCommand builds a fresh command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "cmsbehave",
		Short:         "cmsbehave runs Gherkin features against a CMS admin in a real browser.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(v, cfgFile); err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}

			var logCfg config.LoggerConfig
			if err := v.UnmarshalKey("logger", &logCfg); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "cmsbehave"})
				return &ExitError{Code: ExitConfigError, Err: fmt.Errorf("failed to unmarshal logger config: %w", err)}
			}
			observability.InitializeLogger(logCfg)
			observability.GetLogger().Debug("Starting cmsbehave.", zap.String("version", Version))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./cmsbehave.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newRunCmd(v), newStepsCmd(), newVersionCmd())
	return rootCmd
}

// Execute runs the command tree with ctx and reports errors on stderr.
func Execute(ctx context.Context) error {
	defer observability.Sync()

	rootCmd := NewRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		var exitErr *ExitError
		// A failed suite has already been reported by the formatter.
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		}
	}
	return err
}

// initializeConfig loads .env files, defaults, the config file and the
// CMSBEHAVE_ environment into v.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("cmsbehave")
		v.SetConfigType("yaml")
	}
	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
