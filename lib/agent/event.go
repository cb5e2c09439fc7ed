// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates the stream-json event variants.
type EventType string

const (
	// EventAssistant carries assistant content blocks (text, tool use).
	EventAssistant EventType = "assistant"

	// EventUser echoes user-authored turns. Ignored by the adapter;
	// the session index reads the same shape from transcript files.
	EventUser EventType = "user"

	// EventResult is the terminal event of a run: final text, error
	// flag, session id.
	EventResult EventType = "result"

	// EventSystem is CLI housekeeping (init, shutdown, compaction).
	EventSystem EventType = "system"

	// EventUnknown preserves event tags this version does not know.
	// Unknown tags never fail a run.
	EventUnknown EventType = "unknown"
)

// Event is one decoded line of the CLI's streaming output. Exactly one
// of the variant pointers is set, selected by Type; Raw is set for
// EventUnknown.
type Event struct {
	Type EventType

	Assistant *AssistantEvent
	User      *UserEvent
	Result    *ResultEvent
	System    *SystemEvent

	// Raw is the original line, preserved for EventUnknown.
	Raw json.RawMessage
}

// ContentBlock is one block of an assistant or user message.
type ContentBlock struct {
	// Type is "text" or "tool_use"; other block types pass through
	// undispatched.
	Type string `json:"type"`

	// Text is set for text blocks.
	Text string `json:"text,omitempty"`

	// ID is the tool-use identifier, set for tool_use blocks.
	ID string `json:"id,omitempty"`

	// Name is the tool name, set for tool_use blocks.
	Name string `json:"name,omitempty"`

	// Input is the tool input, preserved as raw JSON.
	Input json.RawMessage `json:"input,omitempty"`
}

// MessageBody is the message envelope inside assistant and user events.
type MessageBody struct {
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
}

// AssistantEvent is an {"type":"assistant"} stream event.
type AssistantEvent struct {
	Message   MessageBody `json:"message"`
	SessionID string      `json:"session_id"`
}

// UserEvent is a {"type":"user"} stream event.
type UserEvent struct {
	Message   MessageBody `json:"message"`
	SessionID string      `json:"session_id"`
}

// ResultEvent is the terminal {"type":"result"} stream event.
type ResultEvent struct {
	Subtype    string  `json:"subtype"`
	Result     string  `json:"result"`
	SessionID  string  `json:"session_id"`
	IsError    bool    `json:"is_error"`
	CostUSD    float64 `json:"cost_usd,omitempty"`
	DurationMS float64 `json:"duration_ms,omitempty"`
	TurnCount  int64   `json:"num_turns,omitempty"`
}

// SystemEvent is a {"type":"system"} stream event.
type SystemEvent struct {
	Subtype   string `json:"subtype"`
	SessionID string `json:"session_id,omitempty"`
}

// eventEnvelope extracts the discriminator tag before variant decode.
type eventEnvelope struct {
	Type string `json:"type"`
}

// ParseEventLine decodes a single stream-json line into an Event. A
// line that is not a JSON object with a "type" field is an error; a
// well-formed line with an unrecognized tag decodes to EventUnknown.
func ParseEventLine(line []byte) (Event, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(line, &envelope); err != nil {
		return Event{}, fmt.Errorf("parsing stream-json envelope: %w", err)
	}

	switch EventType(envelope.Type) {
	case EventAssistant:
		var assistant AssistantEvent
		if err := json.Unmarshal(line, &assistant); err != nil {
			return Event{}, fmt.Errorf("parsing assistant event: %w", err)
		}
		return Event{Type: EventAssistant, Assistant: &assistant}, nil

	case EventUser:
		var user UserEvent
		if err := json.Unmarshal(line, &user); err != nil {
			return Event{}, fmt.Errorf("parsing user event: %w", err)
		}
		return Event{Type: EventUser, User: &user}, nil

	case EventResult:
		var result ResultEvent
		if err := json.Unmarshal(line, &result); err != nil {
			return Event{}, fmt.Errorf("parsing result event: %w", err)
		}
		return Event{Type: EventResult, Result: &result}, nil

	case EventSystem:
		var system SystemEvent
		if err := json.Unmarshal(line, &system); err != nil {
			return Event{}, fmt.Errorf("parsing system event: %w", err)
		}
		return Event{Type: EventSystem, System: &system}, nil

	default:
		return Event{Type: EventUnknown, Raw: json.RawMessage(append([]byte(nil), line...))}, nil
	}
}

// SessionID returns the session identifier carried by the event, or
// "" when the variant has none.
func (e Event) SessionID() string {
	switch e.Type {
	case EventAssistant:
		return e.Assistant.SessionID
	case EventUser:
		return e.User.SessionID
	case EventResult:
		return e.Result.SessionID
	case EventSystem:
		return e.System.SessionID
	default:
		return ""
	}
}
