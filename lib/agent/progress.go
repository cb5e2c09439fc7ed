// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import "encoding/json"

// ProgressKind classifies progress notifications emitted during a run.
type ProgressKind string

const (
	// ProgressToolStart reports that the agent invoked a tool.
	ProgressToolStart ProgressKind = "tool_start"

	// ProgressText carries an intermediate assistant text fragment.
	ProgressText ProgressKind = "text"

	// ProgressResult is the terminal notification of a run.
	ProgressResult ProgressKind = "result"
)

// Progress is one live-feedback notification. Within a run,
// notifications are delivered in the exact order their source lines
// appeared in the CLI's output stream.
type Progress struct {
	Kind ProgressKind

	// ToolName and ToolInput are set for ProgressToolStart.
	ToolName  string
	ToolInput json.RawMessage

	// Text is set for ProgressText.
	Text string

	// SessionID and IsError are set for ProgressResult.
	SessionID string
	IsError   bool
}

// ProgressFunc receives progress notifications. It is called
// synchronously from the run's reader loop, so implementations must
// not block for long. A nil ProgressFunc disables progress reporting.
type ProgressFunc func(Progress)
