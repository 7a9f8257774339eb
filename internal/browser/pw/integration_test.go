//go:build integration

// internal/browser/pw/integration_test.go
package pw_test

import (
	"testing"

	"github.com/xkilldash9x/cmsbehave/internal/browser/browsertest"
	"github.com/xkilldash9x/cmsbehave/internal/browser/pw"
	"github.com/xkilldash9x/cmsbehave/internal/config"
)

func TestPlaywrightConformance(t *testing.T) {
	launcher := pw.NewLauncher(browsertest.Config(config.DriverPlaywright), browsertest.Logger(t))
	t.Cleanup(func() {
		if err := launcher.Close(); err != nil {
			t.Logf("Error closing launcher: %v", err)
		}
	})

	browsertest.RunConformance(t, launcher)
}
