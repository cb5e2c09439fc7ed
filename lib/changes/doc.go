// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package changes detects which files an agent run touched. A Tracker
// watches the project tree for the duration of one run and folds the
// raw filesystem events into a deduplicated created/modified/deleted
// set, which replaces the conversation's previous set in the state
// store.
//
// Build-output and VCS directories (.git, node_modules, dist, ...) are
// ignored, matching what the agent's own change reporting would show a
// user.
package changes
