// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/cmsbehave/cmd"
)

// main allows `go run .` and `go install` of the module root; it behaves
// exactly like cmd/cmsbehave.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cmd.ExitCode(cmd.Execute(ctx))
	stop()
	os.Exit(code)
}
