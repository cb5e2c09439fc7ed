// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package pathguard enforces the project-containment invariant: once a
// conversation has an active project root, every filesystem path the
// system resolves on its behalf must stay inside that root.
//
// All functions are pure. Callers resolve paths through ResolveWithin
// and treat a false/empty answer as a refusal, never as an error to
// retry.
package pathguard
