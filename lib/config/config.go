// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/telecode-project/telecode/lib/pathguard"
)

// EnvVar is the environment variable that names the config file when
// the --config flag is not given.
const EnvVar = "TELECODE_CONFIG"

// Config is the master configuration for the telecode daemon.
type Config struct {
	// Chat configures the (external) chat transport boundary.
	Chat ChatConfig `yaml:"chat"`

	// Claude configures the external agent CLI invocation.
	Claude ClaudeConfig `yaml:"claude"`

	// State configures the conversation state store.
	State StateConfig `yaml:"state"`
}

// ChatConfig holds transport-boundary settings. The transport itself is
// an external collaborator; telecode only parses and validates these.
type ChatConfig struct {
	// Token is the transport credential (e.g., a bot token). Unused by
	// the console transport, required by real chat transports.
	Token string `yaml:"token"`

	// AllowedChats lists the conversation identifiers permitted to
	// drive the agent. Empty means the transport decides.
	AllowedChats []string `yaml:"allowed_chats"`
}

// ClaudeConfig configures how the external agent CLI is spawned.
type ClaudeConfig struct {
	// Binary is the agent CLI executable name or path.
	Binary string `yaml:"binary"`

	// DefaultProjectPath is the project root assigned to newly created
	// conversation state. Empty means conversations start without a
	// project.
	DefaultProjectPath string `yaml:"default_project_path"`
}

// StateConfig configures durable state.
type StateConfig struct {
	// Directory holds the two persisted JSON documents (conversation
	// state map and project registry).
	Directory string `yaml:"directory"`

	// DefaultLanguage is the display-language tag for new
	// conversations.
	DefaultLanguage string `yaml:"default_language"`
}

// Locate returns the config file path from the flag value or, when the
// flag is empty, the TELECODE_CONFIG environment variable.
func Locate(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if fromEnv := os.Getenv(EnvVar); fromEnv != "" {
		return fromEnv, nil
	}
	return "", fmt.Errorf("no config file: set %s or pass --config", EnvVar)
}

// Load reads, parses, defaults, and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Claude.Binary == "" {
		c.Claude.Binary = "claude"
	}
	if c.State.Directory == "" {
		c.State.Directory = "~/.telecode"
	}
	if c.State.DefaultLanguage == "" {
		c.State.DefaultLanguage = "en"
	}

	c.State.Directory = pathguard.ExpandTilde(c.State.Directory)
	c.Claude.DefaultProjectPath = pathguard.ExpandTilde(c.Claude.DefaultProjectPath)
}

func (c *Config) validate() error {
	if c.Claude.DefaultProjectPath != "" && !filepath.IsAbs(c.Claude.DefaultProjectPath) {
		return fmt.Errorf("claude.default_project_path must be absolute, got %q", c.Claude.DefaultProjectPath)
	}
	if !filepath.IsAbs(c.State.Directory) {
		return fmt.Errorf("state.directory must be absolute, got %q", c.State.Directory)
	}
	for _, chat := range c.Chat.AllowedChats {
		if chat == "" {
			return fmt.Errorf("chat.allowed_chats contains an empty identifier")
		}
	}
	return nil
}
