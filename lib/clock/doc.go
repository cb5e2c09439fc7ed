// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code injects
// Real(); tests inject Fake() and advance it deterministically.
//
// Every telecode function that needs the current time (state lastUsed
// stamps, session relative-age formatting, run timestamps) takes a
// Clock instead of calling the time package directly.
package clock
