package transfer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// RetryingGateway decorates a TransferGateway with a bounded retry on
// transport errors. Domain errors (missing files, local I/O) pass through
// untouched; only ErrTransport is considered transient.
type RetryingGateway struct {
	inner    fulfillment.TransferGateway
	attempts int
	delay    time.Duration
	logger   *zap.Logger
}

// NewRetryingGateway wraps a gateway with up to attempts tries per operation
func NewRetryingGateway(inner fulfillment.TransferGateway, attempts int, delay time.Duration, logger *zap.Logger) *RetryingGateway {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingGateway{
		inner:    inner,
		attempts: attempts,
		delay:    delay,
		logger:   logger,
	}
}

// retry runs op up to the configured number of attempts
func (g *RetryingGateway) retry(ctx context.Context, name string, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, fulfillment.ErrTransport) {
			return lastErr
		}
		if attempt == g.attempts {
			break
		}

		g.logger.Warn("transfer operation failed, retrying",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.attempts),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.delay):
		}
	}
	return lastErr
}

func (g *RetryingGateway) Send(ctx context.Context, localPath string) error {
	return g.retry(ctx, "send", func() error {
		return g.inner.Send(ctx, localPath)
	})
}

func (g *RetryingGateway) List(ctx context.Context, remoteDir string) ([]fulfillment.RemoteFile, error) {
	var files []fulfillment.RemoteFile
	err := g.retry(ctx, "list", func() error {
		var opErr error
		files, opErr = g.inner.List(ctx, remoteDir)
		return opErr
	})
	return files, err
}

func (g *RetryingGateway) Fetch(ctx context.Context, remotePath, localPath string) error {
	return g.retry(ctx, "fetch", func() error {
		return g.inner.Fetch(ctx, remotePath, localPath)
	})
}

func (g *RetryingGateway) Exists(ctx context.Context, remotePath string) (bool, error) {
	var exists bool
	err := g.retry(ctx, "exists", func() error {
		var opErr error
		exists, opErr = g.inner.Exists(ctx, remotePath)
		return opErr
	})
	return exists, err
}

func (g *RetryingGateway) EnsureDir(ctx context.Context, remoteDir string) error {
	return g.retry(ctx, "ensure_dir", func() error {
		return g.inner.EnsureDir(ctx, remoteDir)
	})
}

func (g *RetryingGateway) Move(ctx context.Context, srcRemote, dstRemote string) error {
	return g.retry(ctx, "move", func() error {
		return g.inner.Move(ctx, srcRemote, dstRemote)
	})
}

func (g *RetryingGateway) Close() error {
	return g.inner.Close()
}

// Ensure RetryingGateway implements the TransferGateway port
var _ fulfillment.TransferGateway = (*RetryingGateway)(nil)
