// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/telecode-project/telecode/lib/agent"
	"github.com/telecode-project/telecode/lib/sessionindex"
	"github.com/telecode-project/telecode/lib/state"
)

const (
	maxRenderedPathLength    = 40
	maxRenderedCommandLength = 60
)

// toolGlyphs maps the agent CLI's built-in tool names to a display
// glyph. Unknown tools fall back to a generic gear.
var toolGlyphs = map[string]string{
	"Read":      "📖",
	"Write":     "📝",
	"Edit":      "✏️",
	"Bash":      "🔧",
	"Glob":      "🔍",
	"Grep":      "🔎",
	"TodoWrite": "📋",
	"WebFetch":  "🌐",
	"Task":      "🤖",
}

// toolArguments is the subset of tool input fields worth surfacing in
// a one-line progress notification.
type toolArguments struct {
	FilePath string `json:"file_path"`
	Command  string `json:"command"`
	Pattern  string `json:"pattern"`
}

// RenderProgress renders one live-feedback notification as a single
// line of text. It returns "" for notifications that carry nothing
// worth showing (empty text fragments, terminal results — the result
// is delivered through the run's return value instead).
func RenderProgress(progress agent.Progress) string {
	switch progress.Kind {
	case agent.ProgressToolStart:
		return renderToolStart(progress.ToolName, progress.ToolInput)
	case agent.ProgressText:
		return strings.TrimSpace(progress.Text)
	default:
		return ""
	}
}

func renderToolStart(toolName string, input json.RawMessage) string {
	glyph, known := toolGlyphs[toolName]
	if !known {
		glyph = "⚙️"
	}

	var arguments toolArguments
	if len(input) > 0 {
		// Undecodable input degrades to the bare tool name.
		_ = json.Unmarshal(input, &arguments)
	}

	switch toolName {
	case "Read", "Write", "Edit":
		if arguments.FilePath != "" {
			return glyph + " " + ShortenPath(arguments.FilePath, maxRenderedPathLength)
		}
	case "Bash":
		if arguments.Command != "" {
			return glyph + " " + truncate(arguments.Command, maxRenderedCommandLength)
		}
	case "Glob", "Grep":
		if arguments.Pattern != "" {
			return glyph + " " + arguments.Pattern
		}
	}
	return glyph + " " + toolName
}

// RenderSessions renders a numbered session listing, most recent
// first, the order ListSessions returns.
func RenderSessions(sessions []sessionindex.SessionInfo) string {
	if len(sessions) == 0 {
		return "No sessions found. Send a message to auto-create one."
	}
	var b strings.Builder
	b.WriteString("💬 Sessions:")
	for i, session := range sessions {
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, session.Label, session.Age)
	}
	return b.String()
}

// RenderProjects renders the registered project list, marking the
// conversation's active project.
func RenderProjects(projects []string, active string) string {
	if len(projects) == 0 {
		return "No projects registered. Use /project <path> to add one."
	}
	var b strings.Builder
	b.WriteString("📂 Projects:")
	for _, project := range projects {
		marker := "  "
		if project == active {
			marker = "* "
		}
		fmt.Fprintf(&b, "\n%s%s (%s)", marker, filepath.Base(project), project)
	}
	return b.String()
}

// RenderStatus renders the conversation's current state card.
func RenderStatus(conversation state.Conversation, busy bool) string {
	project := conversation.ProjectPath
	if project == "" {
		project = "None"
	}
	session := conversation.SessionID
	if session == "" {
		session = "None (auto-create)"
	}
	cwd := conversation.Cwd
	if cwd == "" {
		cwd = conversation.ProjectPath
	}
	task := "Idle"
	if busy {
		task = "Running"
	}

	lines := []string{
		"📂 Project: " + project,
		"💬 Session: " + session,
		"📍 Cwd: " + cwd,
		"🌐 Language: " + conversation.Lang,
		"⏳ Task: " + task,
	}
	return strings.Join(lines, "\n")
}

// RenderFileChanges renders the files a run touched, paths relative to
// the project root. An empty set renders as "" so callers can skip the
// message entirely.
func RenderFileChanges(changes []state.FileChange, projectRoot string) string {
	if len(changes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("📁 Changed files:")
	for _, change := range changes {
		var glyph string
		switch change.Kind {
		case state.FileCreated:
			glyph = "🆕"
		case state.FileDeleted:
			glyph = "🗑️"
		default:
			glyph = "✏️"
		}
		path := change.Path
		if relative, err := filepath.Rel(projectRoot, change.Path); err == nil && !strings.HasPrefix(relative, "..") {
			path = relative
		}
		fmt.Fprintf(&b, "\n  %s %s", glyph, path)
	}
	return b.String()
}

// RenderError renders a failure message for delivery.
func RenderError(err error) string {
	return "❌ " + err.Error()
}

// ShortenPath abbreviates a long path to at most maxLength characters,
// keeping the filename and as many trailing directories as fit under a
// "..." prefix.
func ShortenPath(path string, maxLength int) string {
	if len(path) <= maxLength {
		return path
	}
	parts := strings.Split(path, "/")
	filename := parts[len(parts)-1]
	parts = parts[:len(parts)-1]
	if len(filename) >= maxLength-3 {
		return "..." + filename[len(filename)-(maxLength-3):]
	}
	result := filename
	for i := len(parts) - 1; i >= 0; i-- {
		next := parts[i] + "/" + result
		if len(next)+3 > maxLength {
			break
		}
		result = next
	}
	return ".../" + result
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
