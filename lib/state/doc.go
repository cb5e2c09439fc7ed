// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package state persists per-conversation control state: the active
// project root, working directory, agent session id, clipboard path,
// and language preference, plus the append-only registry of project
// roots ever used.
//
// Persistence is deliberately simple: the whole conversation map and
// the whole project list are each rewritten as one JSON document on
// every mutation. Write failures are logged and the in-memory state
// stays authoritative until restart; a failed load at startup yields
// empty state rather than aborting. The last detected file-change set
// per conversation is held in memory only.
package state
