// Package channels provides the channel interface and lifecycle management.
package channels

import (
	"context"
)

// Channel represents a chat transport (Telegram, ...).
type Channel interface {
	// ID returns the unique channel identifier.
	ID() string

	// Name returns the human-readable channel name.
	Name() string

	// Start starts the channel and blocks while it receives messages.
	Start(ctx context.Context) error

	// Stop stops the channel gracefully.
	Stop(ctx context.Context) error

	// IsEnabled returns whether the channel is enabled in configuration.
	IsEnabled() bool
}
