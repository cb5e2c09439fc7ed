// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for Telecode
// binaries.
//
// Version information is injected at build time via -ldflags, for
// example:
//
//	go build -ldflags "-X github.com/telecode-project/telecode/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version
