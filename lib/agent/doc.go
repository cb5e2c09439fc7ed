// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent supervises the external coding-agent CLI. Execute
// spawns one CLI process per request, decodes its newline-delimited
// stream-json output into structured events, emits ordered progress
// notifications through a callback, and reconciles the conversation's
// resumable session id across runs.
//
// At most one process runs per conversation at a time: the adapter
// reserves the conversation's slot in its process table before the
// process is spawned and clears it exactly once on termination. Cancel
// requests graceful termination and clears the slot immediately
// without waiting for the process to die.
//
// The CLI is treated as a black box. Its exit code alone is not
// authoritative: a nonzero exit with no stderr diagnostics still
// resolves successfully when structured output was obtained, because
// the protocol's own result event is the source of truth.
package agent
