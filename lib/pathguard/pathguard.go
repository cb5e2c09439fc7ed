// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package pathguard

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces a leading "~" or "~/" in path with the current
// user's home directory. Paths without a tilde prefix are returned
// unchanged. A bare "~user" form is not supported and passes through
// unmodified.
func ExpandTilde(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// WithinProject reports whether target resolves to the project root
// itself or to a path strictly inside it. Both arguments are cleaned
// and made absolute before comparison, so "../" traversal in target
// cannot escape the check.
func WithinProject(target, projectRoot string) bool {
	resolvedTarget, err := filepath.Abs(filepath.Clean(target))
	if err != nil {
		return false
	}
	resolvedRoot, err := filepath.Abs(filepath.Clean(projectRoot))
	if err != nil {
		return false
	}
	if resolvedTarget == resolvedRoot {
		return true
	}
	return strings.HasPrefix(resolvedTarget, resolvedRoot+string(filepath.Separator))
}

// ResolveWithin joins relative onto base and verifies the result stays
// inside projectRoot. Returns the resolved absolute path and true, or
// "" and false when the resolution would escape the project.
func ResolveWithin(base, relative, projectRoot string) (string, bool) {
	resolved, err := filepath.Abs(filepath.Join(base, relative))
	if err != nil {
		return "", false
	}
	if !WithinProject(resolved, projectRoot) {
		return "", false
	}
	return resolved, true
}
