// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/telecode-project/telecode/lib/agent"
	"github.com/telecode-project/telecode/lib/sessionindex"
	"github.com/telecode-project/telecode/lib/state"
)

func TestRenderProgressToolStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		toolName string
		input    string
		want     string
	}{
		{
			name:     "read shows path",
			toolName: "Read",
			input:    `{"file_path": "/home/user/main.go"}`,
			want:     "📖 /home/user/main.go",
		},
		{
			name:     "long path shortened with filename kept",
			toolName: "Edit",
			input:    `{"file_path": "/home/user/projects/telecode/lib/agent/adapter.go"}`,
			want:     "✏️ .../telecode/lib/agent/adapter.go",
		},
		{
			name:     "bash command truncated",
			toolName: "Bash",
			input:    `{"command": "` + strings.Repeat("x", 100) + `"}`,
			want:     "🔧 " + strings.Repeat("x", 60),
		},
		{
			name:     "grep shows pattern",
			toolName: "Grep",
			input:    `{"pattern": "func main"}`,
			want:     "🔎 func main",
		},
		{
			name:     "unknown tool falls back to name",
			toolName: "MysteryTool",
			input:    `{}`,
			want:     "⚙️ MysteryTool",
		},
		{
			name:     "undecodable input falls back to name",
			toolName: "Read",
			input:    `not json`,
			want:     "📖 Read",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RenderProgress(agent.Progress{
				Kind:      agent.ProgressToolStart,
				ToolName:  tt.toolName,
				ToolInput: json.RawMessage(tt.input),
			})
			if got != tt.want {
				t.Errorf("RenderProgress = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderProgressTextAndResult(t *testing.T) {
	t.Parallel()

	if got := RenderProgress(agent.Progress{Kind: agent.ProgressText, Text: "  thinking...  "}); got != "thinking..." {
		t.Errorf("text notification = %q", got)
	}
	if got := RenderProgress(agent.Progress{Kind: agent.ProgressResult, SessionID: "abc"}); got != "" {
		t.Errorf("result notification rendered as %q, want empty", got)
	}
}

func TestRenderSessions(t *testing.T) {
	t.Parallel()

	got := RenderSessions([]sessionindex.SessionInfo{
		{ID: "s1", Label: "fix the login bug", Age: "5m ago"},
		{ID: "s2", Label: "add dark mode", Age: "2d ago"},
	})
	want := "💬 Sessions:\n1. fix the login bug (5m ago)\n2. add dark mode (2d ago)"
	if got != want {
		t.Errorf("RenderSessions = %q, want %q", got, want)
	}

	if got := RenderSessions(nil); !strings.Contains(got, "No sessions") {
		t.Errorf("empty listing = %q", got)
	}
}

func TestRenderProjectsMarksActive(t *testing.T) {
	t.Parallel()

	got := RenderProjects([]string{"/home/user/alpha", "/home/user/beta"}, "/home/user/beta")
	if !strings.Contains(got, "* beta (/home/user/beta)") {
		t.Errorf("active project not marked:\n%s", got)
	}
	if !strings.Contains(got, "  alpha (/home/user/alpha)") {
		t.Errorf("inactive project missing:\n%s", got)
	}
}

func TestRenderStatus(t *testing.T) {
	t.Parallel()

	got := RenderStatus(state.Conversation{
		ProjectPath: "/home/user/alpha",
		SessionID:   "session-1",
		Cwd:         "/home/user/alpha/src",
		Lang:        "en",
	}, true)
	for _, want := range []string{
		"📂 Project: /home/user/alpha",
		"💬 Session: session-1",
		"📍 Cwd: /home/user/alpha/src",
		"🌐 Language: en",
		"⏳ Task: Running",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("status missing %q:\n%s", want, got)
		}
	}

	idle := RenderStatus(state.Conversation{ProjectPath: "/p", Lang: "en"}, false)
	if !strings.Contains(idle, "💬 Session: None (auto-create)") {
		t.Errorf("empty session not rendered as auto-create:\n%s", idle)
	}
	if !strings.Contains(idle, "📍 Cwd: /p") {
		t.Errorf("empty cwd should fall back to project:\n%s", idle)
	}
	if !strings.Contains(idle, "⏳ Task: Idle") {
		t.Errorf("idle task missing:\n%s", idle)
	}
}

func TestRenderFileChanges(t *testing.T) {
	t.Parallel()

	got := RenderFileChanges([]state.FileChange{
		{Path: "/p/new.go", Kind: state.FileCreated},
		{Path: "/p/pkg/old.go", Kind: state.FileModified},
		{Path: "/p/gone.go", Kind: state.FileDeleted},
	}, "/p")
	want := "📁 Changed files:\n  🆕 new.go\n  ✏️ pkg/old.go\n  🗑️ gone.go"
	if got != want {
		t.Errorf("RenderFileChanges = %q, want %q", got, want)
	}

	if got := RenderFileChanges(nil, "/p"); got != "" {
		t.Errorf("empty change set rendered as %q", got)
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	if got := RenderError(errors.New("boom")); got != "❌ boom" {
		t.Errorf("RenderError = %q", got)
	}
}

func TestShortenPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/short/path.go", "/short/path.go"},
		{"/very/long/nested/directory/structure/with/file.go", ".../structure/with/file.go"},
		{"/x/" + strings.Repeat("f", 50) + ".go", "..." + strings.Repeat("f", 34) + ".go"},
	}
	for _, tt := range tests {
		got := ShortenPath(tt.path, 40)
		if got != tt.want {
			t.Errorf("ShortenPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
		if len(got) > 40 {
			t.Errorf("ShortenPath(%q) length %d exceeds limit", tt.path, len(got))
		}
	}
}
