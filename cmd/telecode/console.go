// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/telecode-project/telecode/lib/agent"
	"github.com/telecode-project/telecode/lib/changes"
	"github.com/telecode-project/telecode/lib/chat"
	"github.com/telecode-project/telecode/lib/pathguard"
	"github.com/telecode-project/telecode/lib/sessionindex"
	"github.com/telecode-project/telecode/lib/state"
)

// consoleConversation is the conversation identifier the console
// transport drives. A chat transport would use the chat's own id here.
const consoleConversation = "console"

// recentPreviewCount is how many transcript messages /resume echoes
// back after connecting a session.
const recentPreviewCount = 3

// console is a line-oriented transport: it reads commands and prompts
// from stdin and replies through a Sender. It exercises the same
// surface a chat transport would.
type console struct {
	store    *state.Store
	adapter  *agent.Adapter
	sessions *sessionindex.Index
	logger   *slog.Logger
	out      chat.Sender

	// tasks tracks the in-flight prompt goroutine so shutdown can wait
	// for its final replies.
	tasks sync.WaitGroup
}

func newConsole(store *state.Store, adapter *agent.Adapter, sessions *sessionindex.Index, logger *slog.Logger, out chat.Sender) *console {
	return &console{
		store:    store,
		adapter:  adapter,
		sessions: sessions,
		logger:   logger,
		out:      out,
	}
}

// run reads stdin until EOF or context cancellation. Prompts execute
// asynchronously so /stop and /status stay responsive during a run.
func (c *console) run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	c.send(ctx, "Telecode console. Type /help for commands.")

	for {
		select {
		case <-ctx.Done():
			c.tasks.Wait()
			return nil
		case line, ok := <-lines:
			if !ok {
				c.tasks.Wait()
				return nil
			}
			c.dispatch(ctx, strings.TrimSpace(line))
		}
	}
}

func (c *console) dispatch(ctx context.Context, line string) {
	if line == "" {
		return
	}
	if !strings.HasPrefix(line, "/") {
		c.prompt(ctx, line)
		return
	}

	command, argument, _ := strings.Cut(line[1:], " ")
	argument = strings.TrimSpace(argument)

	switch command {
	case "project":
		c.handleProject(ctx, argument)
	case "projects":
		conversation := c.store.Get(consoleConversation)
		c.send(ctx, chat.RenderProjects(c.store.Projects(), conversation.ProjectPath))
	case "sessions":
		c.handleSessions(ctx)
	case "resume":
		c.handleResume(ctx, argument)
	case "new":
		c.store.ClearSession(consoleConversation)
		c.send(ctx, "✅ New session started. Send a message to begin.")
	case "stop":
		if c.adapter.Cancel(consoleConversation) {
			c.send(ctx, "⏹ Task cancelled.")
		} else {
			c.send(ctx, "No task is running.")
		}
	case "cd":
		c.handleChangeDirectory(ctx, argument)
	case "status":
		conversation := c.store.Get(consoleConversation)
		c.send(ctx, chat.RenderStatus(conversation, c.adapter.IsActive(consoleConversation)))
	case "lang":
		if argument == "" {
			c.send(ctx, "Usage: /lang <tag>")
			return
		}
		c.store.SetLanguage(consoleConversation, argument)
		c.send(ctx, "✅ Language set: "+argument)
	case "help":
		c.send(ctx, helpText)
	default:
		c.send(ctx, fmt.Sprintf("❌ Unknown command: /%s\nType /help to see available commands.", command))
	}
}

func (c *console) handleProject(ctx context.Context, argument string) {
	if argument == "" {
		c.send(ctx, "Usage: /project <path>")
		return
	}
	path, err := filepath.Abs(pathguard.ExpandTilde(argument))
	if err != nil {
		c.send(ctx, chat.RenderError(err))
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		c.send(ctx, "❌ Directory not found: "+path)
		return
	}
	c.store.SwitchProject(consoleConversation, path)
	c.store.RegisterProject(path)
	c.send(ctx, fmt.Sprintf("✅ Switched to: %s\n📂 %s", filepath.Base(path), path))
}

func (c *console) handleSessions(ctx context.Context) {
	conversation := c.store.Get(consoleConversation)
	if conversation.ProjectPath == "" {
		c.send(ctx, "❌ No project set. Use /project <path> first.")
		return
	}
	c.send(ctx, chat.RenderSessions(c.sessions.ListSessions(conversation.ProjectPath)))
}

func (c *console) handleResume(ctx context.Context, argument string) {
	conversation := c.store.Get(consoleConversation)
	if conversation.ProjectPath == "" {
		c.send(ctx, "❌ No project set. Use /project <path> first.")
		return
	}
	listing := c.sessions.ListSessions(conversation.ProjectPath)
	if argument == "" {
		c.send(ctx, chat.RenderSessions(listing)+"\nUse /resume <n> to connect.")
		return
	}

	sessionID := argument
	if index, err := strconv.Atoi(argument); err == nil {
		if index < 1 || index > len(listing) {
			c.send(ctx, fmt.Sprintf("❌ No such session: %d", index))
			return
		}
		sessionID = listing[index-1].ID
	}

	c.store.SetSession(consoleConversation, sessionID)
	reply := "✅ Session connected.\nMessages will now be sent to this session."
	if recent := c.sessions.RecentMessages(conversation.ProjectPath, sessionID, recentPreviewCount); len(recent) > 0 {
		reply += "\n\n" + strings.Join(recent, "\n")
	}
	c.send(ctx, reply)
}

func (c *console) handleChangeDirectory(ctx context.Context, argument string) {
	conversation := c.store.Get(consoleConversation)
	if conversation.ProjectPath == "" {
		c.send(ctx, "❌ No project set. Use /project <path> first.")
		return
	}
	if argument == "" {
		argument = "."
	}

	base := conversation.Cwd
	if base == "" {
		base = conversation.ProjectPath
	}

	var resolved string
	if filepath.IsAbs(argument) {
		resolved = filepath.Clean(argument)
		if !pathguard.WithinProject(resolved, conversation.ProjectPath) {
			c.send(ctx, "❌ Path is outside the project: "+argument)
			return
		}
	} else {
		var ok bool
		resolved, ok = pathguard.ResolveWithin(base, argument, conversation.ProjectPath)
		if !ok {
			c.send(ctx, "❌ Path is outside the project: "+argument)
			return
		}
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		c.send(ctx, "❌ Directory not found: "+resolved)
		return
	}
	c.store.SetCwd(consoleConversation, resolved)
	c.send(ctx, "📍 "+resolved)
}

// prompt launches one agent run in the background. Concurrent prompts
// for the same conversation are refused by the adapter; the early
// IsActive check just gives a friendlier message for the common case.
func (c *console) prompt(ctx context.Context, text string) {
	if c.adapter.IsActive(consoleConversation) {
		c.send(ctx, "⏳ A task is already running.\nUse /stop to cancel it or wait for it to finish.")
		return
	}
	c.send(ctx, "⏳ Starting...")

	conversation := c.store.Get(consoleConversation)

	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()

		var tracker *changes.Tracker
		if conversation.ProjectPath != "" {
			var err error
			tracker, err = changes.Start(conversation.ProjectPath, c.logger)
			if err != nil {
				c.logger.Warn("file-change tracking unavailable", "error", err)
			}
		}

		lastProgressText := ""
		result, err := c.adapter.Execute(ctx, consoleConversation, text, func(progress agent.Progress) {
			rendered := chat.RenderProgress(progress)
			if rendered == "" || rendered == lastProgressText {
				return
			}
			lastProgressText = rendered
			c.send(ctx, rendered)
		})

		var changed []state.FileChange
		if tracker != nil {
			changed = tracker.Stop()
			c.store.SetLastChangedFiles(consoleConversation, changed)
		}

		if err != nil {
			if errors.Is(err, agent.ErrConversationBusy) {
				c.send(ctx, "⏳ A task is already running.\nUse /stop to cancel it or wait for it to finish.")
				return
			}
			c.send(ctx, chat.RenderError(err))
			return
		}

		c.send(ctx, result.Output)
		if rendered := chat.RenderFileChanges(changed, conversation.ProjectPath); rendered != "" {
			c.send(ctx, rendered)
		}
	}()
}

func (c *console) send(ctx context.Context, text string) {
	if err := c.out.Send(ctx, text); err != nil {
		c.logger.Error("send failed", "error", err)
	}
}

const helpText = `Commands:
  /project <path>   set or switch the active project
  /projects         list registered projects
  /sessions         list recent sessions for the active project
  /resume <n|id>    connect to a previous session
  /new              start a fresh session on the next prompt
  /stop             cancel the running task
  /cd <path>        change working directory (inside the project)
  /status           show conversation state
  /lang <tag>       set the display language
  /help             show this command list

Any other input is sent to the agent as a prompt.`
