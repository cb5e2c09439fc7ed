// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat defines the transport boundary and the plain-text
// rendering used to present agent activity to a conversation.
//
// A transport (Telegram bot, console, test double) implements Sender
// and receives already-rendered text. The render functions in this
// package produce that text from domain values: live tool progress,
// session listings, status cards, and the per-run file-change summary.
// Rendering is deliberately markup-free so any transport can deliver
// it verbatim.
package chat
