package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/bound/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"golang.org/x/sync/errgroup"
)

// safeBuffer is a thread-safe buffer for concurrent logging
type safeBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (sb *safeBuffer) Write(p []byte) (int, error) {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.Write(p)
}

func (sb *safeBuffer) String() string {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.String()
}

func TestGo(t *testing.T) {
	t.Run("runs all handlers", func(t *testing.T) {
		g, ctx := errgroup.WithContext(context.Background())
		var count atomic.Int32

		for range 5 {
			async.Go(ctx, g, func(ctx context.Context) error {
				count.Add(1)
				return nil
			})
		}

		gt.NoError(t, g.Wait())
		gt.V(t, count.Load()).Equal(int32(5))
	})

	t.Run("passes errors through", func(t *testing.T) {
		g, ctx := errgroup.WithContext(context.Background())
		errTest := errors.New("test error")

		async.Go(ctx, g, func(ctx context.Context) error {
			return errTest
		})

		err := g.Wait()
		gt.True(t, errors.Is(err, errTest))
	})

	t.Run("converts panic to error with stack trace", func(t *testing.T) {
		logBuf := &safeBuffer{}
		logger := slog.New(slog.NewTextHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelError}))
		ctx := ctxlog.With(context.Background(), logger)

		g, gctx := errgroup.WithContext(ctx)
		async.Go(gctx, g, func(ctx context.Context) error {
			panic("test panic with stack")
		})

		err := g.Wait()
		gt.Error(t, err).Required()
		gt.String(t, err.Error()).Contains("panic in worker")

		logOutput := logBuf.String()
		gt.True(t, strings.Contains(logOutput, "panic in worker"))
		gt.True(t, strings.Contains(logOutput, "test panic with stack"))
		gt.True(t, strings.Contains(logOutput, "goroutine"))
	})

	t.Run("panic cancels sibling workers", func(t *testing.T) {
		g, ctx := errgroup.WithContext(context.Background())

		async.Go(ctx, g, func(ctx context.Context) error {
			panic("boom")
		})
		async.Go(ctx, g, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})

		gt.Error(t, g.Wait())
	})
}
