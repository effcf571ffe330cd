package async

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Go runs handler on g with panic recovery
//
// Behavior:
//   - The handler receives ctx unchanged, so the group's cancellation applies
//   - A panic is recovered, logged with its stack trace and returned to the
//     group as an error, which cancels the group's context
//   - Errors returned by handler are passed through untouched
func Go(ctx context.Context, g *errgroup.Group, handler func(ctx context.Context) error) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(ctx).Error("panic in worker",
					"recover", r,
					"stack", string(stack))
				err = goerr.New("panic in worker", goerr.V("recover", fmt.Sprint(r)))
			}
		}()

		return handler(ctx)
	})
}
