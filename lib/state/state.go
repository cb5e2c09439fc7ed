// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/telecode-project/telecode/lib/clock"
)

const (
	stateFileName    = "state.json"
	projectsFileName = "projects.json"
)

// FileChangeKind classifies an entry in a conversation's last detected
// file-change set.
type FileChangeKind string

const (
	// FileCreated marks a file that appeared during the run.
	FileCreated FileChangeKind = "created"
	// FileModified marks a file whose content changed during the run.
	FileModified FileChangeKind = "modified"
	// FileDeleted marks a file that disappeared during the run.
	FileDeleted FileChangeKind = "deleted"
)

// FileChange is one entry of a conversation's file-change set.
type FileChange struct {
	Path string         `json:"path"`
	Kind FileChangeKind `json:"kind"`
}

// Conversation is the persistent control state for one chat identity.
// Empty strings mean "absent" for the optional fields.
type Conversation struct {
	// ProjectPath is the active project root. Once set, every file
	// operation for this conversation must resolve inside it.
	ProjectPath string `json:"projectPath,omitempty"`

	// SessionID is the agent CLI's resumable session identifier.
	// Empty means the next run starts a fresh session.
	SessionID string `json:"sessionId,omitempty"`

	// Cwd is the current working directory, inside ProjectPath.
	Cwd string `json:"cwd,omitempty"`

	// Clipboard is a file path previously marked for copy.
	Clipboard string `json:"clipboard,omitempty"`

	// Lang is the display-language tag.
	Lang string `json:"lang"`

	// LastUsed is updated on every state-mutating operation.
	LastUsed time.Time `json:"lastUsed"`
}

// Options configures Open.
type Options struct {
	// Directory holds state.json and projects.json. Created on first
	// write if absent.
	Directory string

	// DefaultProjectPath seeds ProjectPath and Cwd of lazily created
	// conversations. May be empty.
	DefaultProjectPath string

	// DefaultLanguage seeds Lang of lazily created conversations.
	DefaultLanguage string

	// Logger receives persistence diagnostics. Required.
	Logger *slog.Logger

	// Clock stamps LastUsed. Defaults to clock.Real().
	Clock clock.Clock
}

// Store owns all conversation state. All methods are safe for
// concurrent use; persistence writes are serialized by the store lock.
type Store struct {
	mu sync.Mutex

	directory       string
	defaultProject  string
	defaultLanguage string
	logger          *slog.Logger
	clk             clock.Clock

	conversations map[string]*Conversation
	projects      []string
	changedFiles  map[string][]FileChange
}

// Open loads existing state from options.Directory. Load failures are
// logged and tolerated: the store starts empty rather than failing.
func Open(options Options) *Store {
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	store := &Store{
		directory:       options.Directory,
		defaultProject:  options.DefaultProjectPath,
		defaultLanguage: options.DefaultLanguage,
		logger:          options.Logger,
		clk:             clk,
		conversations:   make(map[string]*Conversation),
		changedFiles:    make(map[string][]FileChange),
	}
	store.load()
	return store
}

// Get returns the conversation state for id, creating it with defaults
// (and persisting immediately) when absent. This is the only implicit
// creation point in the system.
func (s *Store) Get(id string) Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getLocked(id)
}

// getLocked returns the live record for id, creating it if needed.
// Callers must hold s.mu.
func (s *Store) getLocked(id string) *Conversation {
	if conversation, ok := s.conversations[id]; ok {
		return conversation
	}
	conversation := &Conversation{
		ProjectPath: s.defaultProject,
		Cwd:         s.defaultProject,
		Lang:        s.defaultLanguage,
		LastUsed:    s.clk.Now(),
	}
	s.conversations[id] = conversation
	s.saveConversationsLocked()
	return conversation
}

// SwitchProject sets the active project root, resets the working
// directory to it, and clears the agent session.
func (s *Store) SwitchProject(id, projectPath string) {
	s.mutate(id, func(c *Conversation) {
		c.ProjectPath = projectPath
		c.Cwd = projectPath
		c.SessionID = ""
	})
}

// SetSession records the agent session id for the conversation.
func (s *Store) SetSession(id, sessionID string) {
	s.mutate(id, func(c *Conversation) { c.SessionID = sessionID })
}

// ClearSession forgets the agent session; the next run starts fresh.
func (s *Store) ClearSession(id string) {
	s.mutate(id, func(c *Conversation) { c.SessionID = "" })
}

// ClearProject leaves the active project: project root, working
// directory, and session are cleared, the record itself is kept.
func (s *Store) ClearProject(id string) {
	s.mutate(id, func(c *Conversation) {
		c.ProjectPath = ""
		c.Cwd = ""
		c.SessionID = ""
	})
}

// SetCwd sets the working directory. The caller is responsible for
// having resolved it through the path guard first.
func (s *Store) SetCwd(id, cwd string) {
	s.mutate(id, func(c *Conversation) { c.Cwd = cwd })
}

// SetClipboard marks a file path for a later copy operation.
func (s *Store) SetClipboard(id, path string) {
	s.mutate(id, func(c *Conversation) { c.Clipboard = path })
}

// SetLanguage sets the display-language tag.
func (s *Store) SetLanguage(id, lang string) {
	s.mutate(id, func(c *Conversation) { c.Lang = lang })
}

// Language returns the conversation's display-language tag, falling
// back to the store default when unset.
func (s *Store) Language(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lang := s.getLocked(id).Lang; lang != "" {
		return lang
	}
	return s.defaultLanguage
}

// mutate applies fn to the live record for id, stamps LastUsed, and
// rewrites the conversation document.
func (s *Store) mutate(id string, fn func(*Conversation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conversation := s.getLocked(id)
	fn(conversation)
	conversation.LastUsed = s.clk.Now()
	s.saveConversationsLocked()
}

// SetLastChangedFiles replaces the conversation's file-change set.
// Held in memory only, never persisted.
func (s *Store) SetLastChangedFiles(id string, changes []FileChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changedFiles[id] = changes
}

// LastChangedFiles returns the most recently stored file-change set
// for the conversation, or nil.
func (s *Store) LastChangedFiles(id string) []FileChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changedFiles[id]
}

// RegisterProject appends projectPath to the project registry unless an
// identical path is already present. Idempotent.
func (s *Store) RegisterProject(projectPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.projects {
		if existing == projectPath {
			return
		}
	}
	s.projects = append(s.projects, projectPath)
	s.saveProjectsLocked()
}

// Projects returns the registered project roots in registration order.
func (s *Store) Projects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := make([]string, len(s.projects))
	copy(projects, s.projects)
	return projects
}

// load reads both documents. Missing files are normal on first start;
// any other failure is logged and the affected document starts empty.
func (s *Store) load() {
	statePath := filepath.Join(s.directory, stateFileName)
	data, err := os.ReadFile(statePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		s.logger.Warn("loading conversation state", "path", statePath, "error", err)
	default:
		if err := json.Unmarshal(data, &s.conversations); err != nil {
			s.logger.Warn("parsing conversation state", "path", statePath, "error", err)
			s.conversations = make(map[string]*Conversation)
		} else {
			s.logger.Info("loaded conversation state", "conversations", len(s.conversations))
		}
	}

	projectsPath := filepath.Join(s.directory, projectsFileName)
	data, err = os.ReadFile(projectsPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		s.logger.Warn("loading project registry", "path", projectsPath, "error", err)
	default:
		if err := json.Unmarshal(data, &s.projects); err != nil {
			s.logger.Warn("parsing project registry", "path", projectsPath, "error", err)
			s.projects = nil
		}
	}
}

// saveConversationsLocked rewrites state.json in full. Callers must
// hold s.mu, which serializes all writes to the backing file.
func (s *Store) saveConversationsLocked() {
	s.writeDocument(stateFileName, s.conversations)
}

// saveProjectsLocked rewrites projects.json in full. Callers must hold
// s.mu.
func (s *Store) saveProjectsLocked() {
	s.writeDocument(projectsFileName, s.projects)
}

func (s *Store) writeDocument(name string, document any) {
	if err := os.MkdirAll(s.directory, 0o755); err != nil {
		s.logger.Error("creating state directory", "path", s.directory, "error", err)
		return
	}
	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		s.logger.Error("encoding state document", "name", name, "error", err)
		return
	}
	path := filepath.Join(s.directory, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("writing state document", "path", path, "error", err)
	}
}
