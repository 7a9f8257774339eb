// File: cmd/cmsbehave/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/xkilldash9x/cmsbehave/cmd"
)

// osExit allows tests to observe the exit code.
var osExit = os.Exit

func main() {
	defer handlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cmd.ExitCode(cmd.Execute(ctx))
	stop()
	osExit(code)
}

// handlePanic reports an unexpected panic with its stack and exits non-zero.
func handlePanic() {
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "cmsbehave: panic: %v\n%s", r, debug.Stack())
		osExit(cmd.ExitFailed)
	}
}
