// internal/browser/browsertest/fixture.go
package browsertest

import (
	_ "embed"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/cmsbehave/internal/config"
)

// EditPage is a trimmed CMS edit screen with a TinyMCE-shaped editor bound
// to the Content textarea.
//
//go:embed testdata/edit_page.html
var EditPage string

// EditPagePath is where NewCMSServer serves EditPage.
const EditPagePath = "/admin/pages/edit/show/1"

// NewCMSServer starts an HTTP server serving EditPage. It is closed when the test finishes.
func NewCMSServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(EditPagePath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(EditPage))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// Config returns browser settings tuned for tests against driver.
func Config(driver string) config.BrowserConfig {
	return config.BrowserConfig{
		Driver:          driver,
		Headless:        true,
		IgnoreTLSErrors: true,
		Viewport:        map[string]int{"width": 1024, "height": 768},
		Timeout:         20 * time.Second,
	}
}

// Logger returns a debug level logger bound to t.
func Logger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
}
