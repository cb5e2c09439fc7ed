// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package pathguard

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWithinProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		project string
		want    bool
	}{
		{"project root itself", "/home/dev/proj", "/home/dev/proj", true},
		{"direct child", "/home/dev/proj/main.go", "/home/dev/proj", true},
		{"nested child", "/home/dev/proj/a/b/c", "/home/dev/proj", true},
		{"sibling directory", "/home/dev/other", "/home/dev/proj", false},
		{"prefix but not child", "/home/dev/project2", "/home/dev/proj", false},
		{"parent directory", "/home/dev", "/home/dev/proj", false},
		{"dot-dot traversal", "/home/dev/proj/../other", "/home/dev/proj", false},
		{"dot-dot staying inside", "/home/dev/proj/sub/../file", "/home/dev/proj", true},
		{"trailing slash on target", "/home/dev/proj/sub/", "/home/dev/proj", true},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			got := WithinProject(testCase.target, testCase.project)
			if got != testCase.want {
				t.Errorf("WithinProject(%q, %q) = %v, want %v",
					testCase.target, testCase.project, got, testCase.want)
			}
		})
	}
}

func TestResolveWithin(t *testing.T) {
	t.Parallel()

	resolved, ok := ResolveWithin("/home/dev/proj", "src/main.go", "/home/dev/proj")
	if !ok {
		t.Fatal("ResolveWithin refused a path inside the project")
	}
	if resolved != "/home/dev/proj/src/main.go" {
		t.Errorf("resolved = %q, want /home/dev/proj/src/main.go", resolved)
	}

	if _, ok := ResolveWithin("/home/dev/proj", "../../etc/passwd", "/home/dev/proj"); ok {
		t.Error("ResolveWithin allowed traversal outside the project")
	}

	// Resolving from a subdirectory stays guarded against the root.
	if _, ok := ResolveWithin("/home/dev/proj/sub", "../../", "/home/dev/proj"); ok {
		t.Error("ResolveWithin allowed escaping via a subdirectory base")
	}
}

func TestExpandTilde(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	if got := ExpandTilde("~"); got != home {
		t.Errorf("ExpandTilde(~) = %q, want %q", got, home)
	}
	if got := ExpandTilde("~/work"); got != filepath.Join(home, "work") {
		t.Errorf("ExpandTilde(~/work) = %q, want %q", got, filepath.Join(home, "work"))
	}
	if got := ExpandTilde("/absolute/path"); got != "/absolute/path" {
		t.Errorf("ExpandTilde left absolute path changed: %q", got)
	}
	if got := ExpandTilde("relative/path"); got != "relative/path" {
		t.Errorf("ExpandTilde left relative path changed: %q", got)
	}
}
