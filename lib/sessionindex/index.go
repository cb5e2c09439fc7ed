// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package sessionindex

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/telecode-project/telecode/lib/clock"
)

const (
	// maxSessions caps ListSessions output.
	maxSessions = 10

	// maxLabelLength caps the session label in runes.
	maxLabelLength = 50

	// maxPreviewLength caps one recent-message preview in runes.
	maxPreviewLength = 200
)

// SessionInfo is a derived, read-only view of one transcript file.
type SessionInfo struct {
	// ID is the session identifier (the transcript filename stem).
	ID string

	// Label is a short excerpt of the first user message, or the ID
	// when no usable message exists.
	Label string

	// LastUsed is the transcript file's modification time.
	LastUsed time.Time

	// Age is LastUsed formatted relative to now ("just now", "3h ago").
	Age string
}

// Options configures New.
type Options struct {
	// Root is the directory containing per-project transcript
	// directories. Defaults to ~/.claude/projects.
	Root string

	// Logger receives scan diagnostics. Required.
	Logger *slog.Logger

	// Clock supplies "now" for relative ages. Defaults to clock.Real().
	Clock clock.Clock
}

// Index lists and previews agent CLI session transcripts.
type Index struct {
	root   string
	logger *slog.Logger
	clk    clock.Clock
}

// New returns an Index over options.Root.
func New(options Options) *Index {
	root := options.Root
	if root == "" {
		if home, err := os.UserHomeDir(); err == nil {
			root = filepath.Join(home, ".claude", "projects")
		}
	}
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Index{root: root, logger: options.Logger, clk: clk}
}

// ListSessions returns the project's sessions, most recent first,
// capped at ten. A missing project directory yields an empty list.
func (ix *Index) ListSessions(projectPath string) []SessionInfo {
	directory := filepath.Join(ix.root, directoryKey(projectPath))
	entries, err := os.ReadDir(directory)
	if err != nil {
		if !os.IsNotExist(err) {
			ix.logger.Warn("listing session directory", "path", directory, "error", err)
		}
		return nil
	}

	now := ix.clk.Now()
	var sessions []SessionInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".jsonl")
		label := firstUserMessage(filepath.Join(directory, entry.Name()))
		if label == "" {
			label = id
		}
		sessions = append(sessions, SessionInfo{
			ID:       id,
			Label:    truncateRunes(label, maxLabelLength, ""),
			LastUsed: info.ModTime(),
			Age:      formatRelativeAge(now, info.ModTime()),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastUsed.After(sessions[j].LastUsed)
	})
	if len(sessions) > maxSessions {
		sessions = sessions[:maxSessions]
	}
	return sessions
}

// RecentMessages returns the last count user/assistant text turns of
// one session as short labeled previews. Malformed lines are skipped.
func (ix *Index) RecentMessages(projectPath, sessionID string, count int) []string {
	path := filepath.Join(ix.root, directoryKey(projectPath), sessionID+".jsonl")
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			ix.logger.Warn("opening transcript", "path", path, "error", err)
		}
		return nil
	}
	defer file.Close()

	type turn struct {
		role string
		text string
	}
	var turns []turn

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var entry transcriptEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Type != "user" && entry.Type != "assistant" {
			continue
		}
		if text := joinedText(entry.Message.Content); text != "" {
			turns = append(turns, turn{role: entry.Type, text: text})
		}
	}

	if len(turns) > count {
		turns = turns[len(turns)-count:]
	}
	previews := make([]string, 0, len(turns))
	for _, t := range turns {
		glyph := "🤖"
		if t.role == "user" {
			glyph = "👤"
		}
		previews = append(previews, fmt.Sprintf("%s %s", glyph, truncateRunes(t.text, maxPreviewLength, "...")))
	}
	return previews
}

// transcriptEntry is one line of a transcript file. Content is kept
// raw because the CLI writes it either as a plain string or as a block
// array.
type transcriptEntry struct {
	Type    string `json:"type"`
	Message struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// transcriptBlock is one element of an array-form content field.
type transcriptBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// firstUserMessage extracts a label from the first user-authored text
// entry of the transcript. Text starting with "<" is meta content
// injected by the CLI and is skipped.
func firstUserMessage(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var entry transcriptEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Type != "user" {
			continue
		}
		if text := firstText(entry.Message.Content); text != "" {
			return text
		}
	}
	return ""
}

// firstText returns the first usable text of a content field.
func firstText(content json.RawMessage) string {
	var asString string
	if json.Unmarshal(content, &asString) == nil {
		return strings.TrimSpace(asString)
	}
	var blocks []transcriptBlock
	if json.Unmarshal(content, &blocks) != nil {
		return ""
	}
	for _, block := range blocks {
		if block.Type != "text" || strings.HasPrefix(block.Text, "<") {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			return text
		}
	}
	return ""
}

// joinedText returns all usable text of a content field joined with
// newlines.
func joinedText(content json.RawMessage) string {
	var asString string
	if json.Unmarshal(content, &asString) == nil {
		return strings.TrimSpace(asString)
	}
	var blocks []transcriptBlock
	if json.Unmarshal(content, &blocks) != nil {
		return ""
	}
	var texts []string
	for _, block := range blocks {
		if block.Type != "text" || strings.HasPrefix(block.Text, "<") {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

// directoryKey derives the CLI's transcript directory name from the
// project path. The separator replacement can collide for distinct
// paths; this mirrors the CLI's own convention and is deliberately not
// strengthened.
func directoryKey(projectPath string) string {
	return strings.ReplaceAll(projectPath, "/", "-")
}

// truncateRunes bounds s to limit runes, appending suffix when cut.
func truncateRunes(s string, limit int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + suffix
}

// formatRelativeAge renders then relative to now.
func formatRelativeAge(now, then time.Time) string {
	elapsed := now.Sub(then)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
