// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for telecode packages.
package testutil
