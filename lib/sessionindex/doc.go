// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionindex is a read-only view over the agent CLI's
// on-disk session transcripts. The CLI stores one JSONL file per
// session under a directory derived from the project path; this
// package lists those sessions with short human labels and renders
// recent conversation previews.
//
// The index owns nothing: transcript files belong to the external CLI
// and may be malformed, truncated, or concurrently rewritten.
// Unreadable files and unparseable lines are skipped, never fatal.
package sessionindex
