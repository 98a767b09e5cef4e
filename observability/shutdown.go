package observability

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultShutdownTimeout bounds the final flush when a command exits.
const DefaultShutdownTimeout = 5 * time.Second

// Shutdown flushes pending telemetry and stops provider within timeout, or
// DefaultShutdownTimeout when timeout is not positive. A nil provider is a
// no-op. A flush failure does not prevent the shutdown.
func Shutdown(provider Provider, timeout time.Duration) error {
	if provider == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	flushErr := provider.ForceFlush(ctx)
	if err := errors.Join(flushErr, provider.Shutdown(ctx)); err != nil {
		return fmt.Errorf("observability shutdown failed: %w", err)
	}
	return nil
}
