// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import "errors"

// ErrConversationBusy is returned by Execute when a run is already
// registered for the conversation. Callers gate requests on IsActive
// before invoking Execute; hitting this error is a caller bug, not a
// condition the adapter retries.
var ErrConversationBusy = errors.New("a run is already active for this conversation")

// maxDiagnosticLength bounds the stderr prefix carried by CLIFailure.
const maxDiagnosticLength = 500

// CLIFailure reports that the agent CLI exited nonzero with
// diagnostics on stderr. The error message is a bounded prefix of
// that diagnostic text, nothing more — the chat layer relays it to
// the user verbatim.
type CLIFailure struct {
	// ExitCode is the process exit status.
	ExitCode int

	// Diagnostic is the captured stderr, truncated to
	// maxDiagnosticLength bytes.
	Diagnostic string
}

func (e *CLIFailure) Error() string { return e.Diagnostic }

// truncate bounds s to limit bytes.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
