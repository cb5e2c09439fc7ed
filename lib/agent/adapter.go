// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"

	"github.com/telecode-project/telecode/lib/state"
)

// Result is the outcome of one successful run.
type Result struct {
	// Output is the run's final text. Never empty: a placeholder is
	// substituted when the CLI produced no textual result.
	Output string

	// SessionID is the last session identifier observed during the
	// run. May differ from the id the run started with.
	SessionID string
}

// noOutputPlaceholder stands in when the CLI's result carries no text.
const noOutputPlaceholder = "(no output)"

// Options configures New.
type Options struct {
	// Binary is the agent CLI executable. Defaults to "claude".
	Binary string

	// Store resolves conversation state and receives observed session
	// ids. Required.
	Store *state.Store

	// Logger receives run diagnostics. Required.
	Logger *slog.Logger
}

// Adapter runs the agent CLI, one process per conversation at a time.
// Safe for concurrent use across conversations.
type Adapter struct {
	binary string
	store  *state.Store
	logger *slog.Logger

	mu      sync.Mutex
	running map[string]*run
}

// run is one process-table entry. Its fields are guarded by the
// adapter mutex; released ensures the table slot is cleared at most
// once per run even when Cancel races process termination.
type run struct {
	id        string
	cmd       *exec.Cmd
	cancelled bool
	released  bool
}

// New returns an Adapter.
func New(options Options) *Adapter {
	binary := options.Binary
	if binary == "" {
		binary = "claude"
	}
	return &Adapter{
		binary:  binary,
		store:   options.Store,
		logger:  options.Logger,
		running: make(map[string]*run),
	}
}

// Execute runs one agent invocation for the conversation and blocks
// until it completes. The conversation's stored session id selects
// resume-vs-fresh mode; a session id observed during the run is
// persisted back to the store when it differs. Progress notifications
// are delivered to onProgress in stream order.
//
// Returns ErrConversationBusy when a run is already registered for
// the conversation, a launch error when the process cannot start, and
// *CLIFailure when the CLI exits nonzero with stderr diagnostics.
func (a *Adapter) Execute(ctx context.Context, conversationID, message string, onProgress ProgressFunc) (Result, error) {
	conversation := a.store.Get(conversationID)

	workingDirectory := conversation.Cwd
	if workingDirectory == "" {
		workingDirectory = conversation.ProjectPath
	}

	handle := &run{id: uuid.NewString()}
	logger := a.logger.With("conversation", conversationID, "run", handle.id)

	// Reserve the conversation's process-table slot before spawning:
	// a concurrent Execute for the same conversation must never get
	// far enough to start a second process.
	if !a.register(conversationID, handle) {
		return Result{}, ErrConversationBusy
	}
	defer a.release(conversationID, handle)

	arguments := buildArguments(conversation.SessionID, message)
	logger.Info("spawning agent CLI",
		"binary", a.binary,
		"cwd", workingDirectory,
		"resume", conversation.SessionID != "",
	)

	command := exec.CommandContext(ctx, a.binary, arguments...)
	command.Dir = workingDirectory
	command.Env = os.Environ()

	var stderr bytes.Buffer
	command.Stderr = &stderr

	stdout, err := command.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("creating stdout pipe: %w", err)
	}

	stdin, err := command.StdinPipe()
	if err != nil {
		return Result{}, fmt.Errorf("creating stdin pipe: %w", err)
	}

	if err := command.Start(); err != nil {
		stdin.Close()
		return Result{}, fmt.Errorf("starting %s: %w", a.binary, err)
	}

	// The CLI hangs if it detects an open stdin pipe, so close it
	// before reading any output (anthropics/claude-code#771).
	stdin.Close()

	if cancelledEarly := a.attach(conversationID, handle, command); cancelledEarly {
		// Cancel won the race with Start: honor it now.
		command.Process.Signal(syscall.SIGTERM)
	}

	// Read the event stream. The session id observed latest wins;
	// the result event's text becomes the run output.
	sessionID := conversation.SessionID
	resultText := ""
	eventsSeen := 0

	emit := onProgress
	if emit == nil {
		emit = func(Progress) {}
	}

	scanner := bufio.NewScanner(stdout)
	// Tool invocations can carry large inputs on a single line.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		event, err := ParseEventLine(line)
		if err != nil {
			// Malformed lines are diagnostic noise, never fatal.
			logger.Warn("dropping non-JSON stream line", "line", truncate(string(line), 200))
			continue
		}
		eventsSeen++

		switch event.Type {
		case EventAssistant:
			for _, block := range event.Assistant.Message.Content {
				switch block.Type {
				case "tool_use":
					if block.Name != "" {
						emit(Progress{Kind: ProgressToolStart, ToolName: block.Name, ToolInput: block.Input})
					}
				case "text":
					if block.Text != "" {
						emit(Progress{Kind: ProgressText, Text: block.Text})
					}
				}
			}
			if id := event.Assistant.SessionID; id != "" {
				sessionID = id
			}

		case EventResult:
			resultText = event.Result.Result
			if id := event.Result.SessionID; id != "" {
				sessionID = id
			}
			emit(Progress{Kind: ProgressResult, SessionID: event.Result.SessionID, IsError: event.Result.IsError})

		default:
			// System, user, and unknown events carry nothing the run
			// needs; accepting them keeps the protocol forward
			// compatible.
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("reading agent stdout", "error", err)
	}

	waitError := command.Wait()
	a.release(conversationID, handle)
	logger.Info("agent CLI exited", "error", waitError, "events", eventsSeen)

	if waitError != nil {
		var exitError *exec.ExitError
		if !errors.As(waitError, &exitError) {
			return Result{}, fmt.Errorf("waiting for agent process: %w", waitError)
		}
		diagnostic := strings.TrimSpace(stderr.String())
		if diagnostic != "" {
			return Result{}, &CLIFailure{
				ExitCode:   exitError.ExitCode(),
				Diagnostic: truncate(diagnostic, maxDiagnosticLength),
			}
		}
		if eventsSeen == 0 {
			return Result{}, fmt.Errorf("agent process exited with code %d and produced no output", exitError.ExitCode())
		}
		// Nonzero exit, no diagnostics, structured output in hand:
		// the result event is authoritative.
		logger.Warn("agent exited nonzero without diagnostics, keeping streamed result",
			"exit_code", exitError.ExitCode())
	}

	if sessionID != "" && sessionID != conversation.SessionID {
		a.store.SetSession(conversationID, sessionID)
	}

	if resultText == "" {
		resultText = noOutputPlaceholder
	}
	return Result{Output: resultText, SessionID: sessionID}, nil
}

// IsActive reports whether a run is registered for the conversation.
func (a *Adapter) IsActive(conversationID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, active := a.running[conversationID]
	return active
}

// Cancel requests graceful termination of the conversation's running
// process and clears its table entry immediately, without waiting for
// the process to exit. Returns whether a run was found; calling again
// with nothing running returns false.
func (a *Adapter) Cancel(conversationID string) bool {
	a.mu.Lock()
	handle, active := a.running[conversationID]
	if !active {
		a.mu.Unlock()
		return false
	}
	delete(a.running, conversationID)
	handle.released = true
	handle.cancelled = true
	command := handle.cmd
	a.mu.Unlock()

	if command != nil && command.Process != nil {
		// Best-effort: the run's Wait observes the termination.
		command.Process.Signal(syscall.SIGTERM)
	}
	return true
}

// register reserves the conversation slot for handle. Returns false
// when another run already holds it.
func (a *Adapter) register(conversationID string, handle *run) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.running[conversationID]; exists {
		return false
	}
	a.running[conversationID] = handle
	return true
}

// attach stores the started command on the handle and reports whether
// the run was cancelled before the process existed.
func (a *Adapter) attach(conversationID string, handle *run, command *exec.Cmd) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	handle.cmd = command
	return handle.cancelled
}

// release clears the conversation slot if this run still owns it.
// Idempotent, and never touches a slot re-registered by a newer run.
func (a *Adapter) release(conversationID string, handle *run) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if handle.released {
		return
	}
	handle.released = true
	if current, owns := a.running[conversationID]; owns && current == handle {
		delete(a.running, conversationID)
	}
}

// buildArguments constructs the CLI argument list: resume the stored
// session when present, answer in streaming line-delimited JSON, and
// never stop for interactive confirmation.
func buildArguments(sessionID, message string) []string {
	var arguments []string
	if sessionID != "" {
		arguments = append(arguments, "--resume", sessionID)
	}
	arguments = append(arguments, "-p", message)
	arguments = append(arguments,
		"--output-format", "stream-json",
		"--verbose",
		"--dangerously-skip-permissions",
	)
	return arguments
}
