// internal/browser/session/context_utils.go
package session

import (
	"context"
)

// CombineContext returns a context that carries the values and deadline of
// tabCtx and is canceled when either tabCtx or opCtx is done. chromedp looks
// up its target in the context values, so the tab context must be the parent
// while the step context supplies cancellation.
func CombineContext(tabCtx, opCtx context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancelCause(tabCtx)
	stop := context.AfterFunc(opCtx, func() {
		cancel(context.Cause(opCtx))
	})
	return combined, func() {
		stop()
		cancel(context.Canceled)
	}
}
