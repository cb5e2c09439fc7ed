// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"strings"
	"testing"
)

func TestParseEventLineAssistant(t *testing.T) {
	t.Parallel()

	line := `{"type":"assistant","message":{"role":"assistant","content":[` +
		`{"type":"text","text":"reading the file"},` +
		`{"type":"tool_use","id":"tu-1","name":"Read","input":{"file_path":"/tmp/a.go"}}` +
		`]},"session_id":"sess-1"}`

	event, err := ParseEventLine([]byte(line))
	if err != nil {
		t.Fatalf("ParseEventLine: %v", err)
	}
	if event.Type != EventAssistant {
		t.Fatalf("Type = %q, want assistant", event.Type)
	}
	blocks := event.Assistant.Message.Content
	if len(blocks) != 2 {
		t.Fatalf("got %d content blocks, want 2", len(blocks))
	}
	if blocks[0].Type != "text" || blocks[0].Text != "reading the file" {
		t.Errorf("block[0] = %+v", blocks[0])
	}
	if blocks[1].Type != "tool_use" || blocks[1].Name != "Read" {
		t.Errorf("block[1] = %+v", blocks[1])
	}
	if !strings.Contains(string(blocks[1].Input), "file_path") {
		t.Errorf("tool input not preserved: %s", blocks[1].Input)
	}
	if event.SessionID() != "sess-1" {
		t.Errorf("SessionID() = %q, want sess-1", event.SessionID())
	}
}

func TestParseEventLineResult(t *testing.T) {
	t.Parallel()

	line := `{"type":"result","subtype":"success","result":"done","session_id":"sess-2","is_error":false,"cost_usd":0.02,"duration_ms":1500,"num_turns":2}`

	event, err := ParseEventLine([]byte(line))
	if err != nil {
		t.Fatalf("ParseEventLine: %v", err)
	}
	if event.Type != EventResult {
		t.Fatalf("Type = %q, want result", event.Type)
	}
	if event.Result.Result != "done" || event.Result.IsError {
		t.Errorf("Result = %+v", event.Result)
	}
	if event.Result.TurnCount != 2 {
		t.Errorf("TurnCount = %d, want 2", event.Result.TurnCount)
	}
	if event.SessionID() != "sess-2" {
		t.Errorf("SessionID() = %q, want sess-2", event.SessionID())
	}
}

func TestParseEventLineSystemAndUser(t *testing.T) {
	t.Parallel()

	event, err := ParseEventLine([]byte(`{"type":"system","subtype":"init","session_id":"sess-3"}`))
	if err != nil {
		t.Fatalf("ParseEventLine(system): %v", err)
	}
	if event.Type != EventSystem || event.System.Subtype != "init" {
		t.Errorf("system event = %+v", event)
	}

	event, err = ParseEventLine([]byte(`{"type":"user","message":{"role":"user","content":[{"type":"text","text":"hi"}]},"session_id":"sess-3"}`))
	if err != nil {
		t.Fatalf("ParseEventLine(user): %v", err)
	}
	if event.Type != EventUser || event.User.Message.Content[0].Text != "hi" {
		t.Errorf("user event = %+v", event)
	}
}

func TestParseEventLineUnknownTag(t *testing.T) {
	t.Parallel()

	event, err := ParseEventLine([]byte(`{"type":"telemetry","data":"future"}`))
	if err != nil {
		t.Fatalf("unknown tags must not error: %v", err)
	}
	if event.Type != EventUnknown {
		t.Fatalf("Type = %q, want unknown", event.Type)
	}
	if !strings.Contains(string(event.Raw), "telemetry") {
		t.Errorf("Raw did not preserve the line: %s", event.Raw)
	}
	if event.SessionID() != "" {
		t.Errorf("unknown event SessionID() = %q, want empty", event.SessionID())
	}
}

func TestParseEventLineMalformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseEventLine([]byte("not json at all")); err == nil {
		t.Fatal("ParseEventLine accepted a non-JSON line")
	}
}

func TestBuildArguments(t *testing.T) {
	t.Parallel()

	fresh := buildArguments("", "fix the bug")
	want := []string{"-p", "fix the bug", "--output-format", "stream-json", "--verbose", "--dangerously-skip-permissions"}
	if len(fresh) != len(want) {
		t.Fatalf("fresh args = %v", fresh)
	}
	for i := range want {
		if fresh[i] != want[i] {
			t.Fatalf("fresh args = %v, want %v", fresh, want)
		}
	}

	resumed := buildArguments("sess-9", "continue")
	if resumed[0] != "--resume" || resumed[1] != "sess-9" || resumed[2] != "-p" {
		t.Fatalf("resumed args = %v", resumed)
	}
}
