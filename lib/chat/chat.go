// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import "context"

// Sender delivers rendered text to the user on some chat transport.
// Implementations must be safe for concurrent use: progress
// notifications arrive from a run's reader goroutine while command
// replies go out from the handler loop.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, text string) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, text string) error {
	return f(ctx, text)
}
