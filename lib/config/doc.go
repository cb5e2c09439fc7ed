// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for telecode.
//
// Configuration is loaded from a single YAML file specified by:
//   - the TELECODE_CONFIG environment variable, or
//   - the --config flag passed to the binary
//
// There are no fallbacks or automatic discovery. This keeps the
// running configuration deterministic and auditable. Missing optional
// fields take documented defaults; a missing file is an error.
package config
