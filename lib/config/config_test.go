// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "telecode.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "chat:\n  token: \"tok\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Claude.Binary != "claude" {
		t.Errorf("Claude.Binary = %q, want claude", cfg.Claude.Binary)
	}
	if cfg.State.DefaultLanguage != "en" {
		t.Errorf("State.DefaultLanguage = %q, want en", cfg.State.DefaultLanguage)
	}
	if !filepath.IsAbs(cfg.State.Directory) {
		t.Errorf("State.Directory = %q, want tilde-expanded absolute path", cfg.State.Directory)
	}
	if !strings.HasSuffix(cfg.State.Directory, ".telecode") {
		t.Errorf("State.Directory = %q, want default ~/.telecode", cfg.State.Directory)
	}
}

func TestLoadFullConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
chat:
  token: "123:abc"
  allowed_chats: ["100", "200"]
claude:
  binary: /usr/local/bin/claude
  default_project_path: /home/dev/proj
state:
  directory: /var/lib/telecode
  default_language: ko
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Chat.Token != "123:abc" {
		t.Errorf("Chat.Token = %q", cfg.Chat.Token)
	}
	if len(cfg.Chat.AllowedChats) != 2 || cfg.Chat.AllowedChats[0] != "100" {
		t.Errorf("Chat.AllowedChats = %v", cfg.Chat.AllowedChats)
	}
	if cfg.Claude.DefaultProjectPath != "/home/dev/proj" {
		t.Errorf("Claude.DefaultProjectPath = %q", cfg.Claude.DefaultProjectPath)
	}
	if cfg.State.DefaultLanguage != "ko" {
		t.Errorf("State.DefaultLanguage = %q", cfg.State.DefaultLanguage)
	}
}

func TestLoadRejectsRelativeProjectPath(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "claude:\n  default_project_path: relative/dir\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted a relative default_project_path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load accepted a missing file")
	}
}

func TestLocatePrefersFlag(t *testing.T) {
	t.Setenv(EnvVar, "/from/env.yaml")

	path, err := Locate("/from/flag.yaml")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if path != "/from/flag.yaml" {
		t.Errorf("Locate = %q, want flag value", path)
	}

	path, err = Locate("")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if path != "/from/env.yaml" {
		t.Errorf("Locate = %q, want env value", path)
	}

	t.Setenv(EnvVar, "")
	if _, err := Locate(""); err == nil {
		t.Fatal("Locate succeeded with no flag and no env var")
	}
}
