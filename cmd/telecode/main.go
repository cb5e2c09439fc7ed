// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/telecode-project/telecode/lib/agent"
	"github.com/telecode-project/telecode/lib/chat"
	"github.com/telecode-project/telecode/lib/config"
	"github.com/telecode-project/telecode/lib/process"
	"github.com/telecode-project/telecode/lib/sessionindex"
	"github.com/telecode-project/telecode/lib/state"
	"github.com/telecode-project/telecode/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var configPath string

	flagSet := pflag.NewFlagSet("telecode", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the config file (default: $"+config.EnvVar+")")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("telecode")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	configFile, err := config.Locate(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := state.Open(state.Options{
		Directory:          cfg.State.Directory,
		DefaultProjectPath: cfg.Claude.DefaultProjectPath,
		DefaultLanguage:    cfg.State.DefaultLanguage,
		Logger:             logger,
	})

	adapter := agent.New(agent.Options{
		Binary: cfg.Claude.Binary,
		Store:  store,
		Logger: logger,
	})

	sessions := sessionindex.New(sessionindex.Options{
		Logger: logger,
	})

	logger.Info("telecode running",
		"binary", cfg.Claude.Binary,
		"state_dir", cfg.State.Directory,
	)

	console := newConsole(store, adapter, sessions, logger, chat.SenderFunc(
		func(_ context.Context, text string) error {
			_, err := fmt.Fprintln(os.Stdout, text)
			return err
		},
	))
	return console.run(ctx)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Telecode — chat-driven remote control for the Claude Code CLI.

Reads commands and prompts line by line from stdin and drives one
agent conversation. The config file is located via --config or the
%s environment variable.

Usage:
  telecode [flags]

Flags:
%s
Commands (inside the console):
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

Any other input line is sent to the agent as a prompt.
`, config.EnvVar, flagSet.FlagUsages())
}
