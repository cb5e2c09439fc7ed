// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. Fatal is the one
// legitimate raw-stderr write in telecode binaries: error reporting
// before the structured logger exists, or after run() has returned.
package process
