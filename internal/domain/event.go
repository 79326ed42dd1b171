package domain

import "encoding/json"

// EventType represents the type of an audit event.
type EventType string

const (
	EventTypeTurnStarted      EventType = "turn_started"
	EventTypeToolsFiltered    EventType = "tools_filtered"
	EventTypeApprovalRequired EventType = "approval_required"
	EventTypeApprovalDecision EventType = "approval_decision"
	EventTypeToolDegraded     EventType = "tool_degraded"
	EventTypeRateLimited      EventType = "rate_limited"
	EventTypeTurnDone         EventType = "turn_done"
	EventTypeTurnFailed       EventType = "turn_failed"
)

// Event is an append-only audit record scoped to a conversation.
type Event struct {
	EventID        string          `json:"event_id"`
	ConversationID string          `json:"conversation_id"`
	Ts             int64           `json:"ts"` // Unix milliseconds
	Type           EventType       `json:"type"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// ApprovalRequiredPayload is the payload for approval_required events.
type ApprovalRequiredPayload struct {
	ApprovalID string            `json:"approval_id"`
	ToolCalls  []ToolCallSummary `json:"tool_calls"`
}

// ApprovalDecisionPayload is the payload for approval_decision events.
type ApprovalDecisionPayload struct {
	ApprovalID string `json:"approval_id"`
	Approved   bool   `json:"approved"`
	Reason     string `json:"reason,omitempty"`
}

// ToolDegradedPayload is the payload for tool_degraded events.
type ToolDegradedPayload struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Reason     string `json:"reason"`
}

// TurnDonePayload is the payload for turn_done events.
type TurnDonePayload struct {
	Reply      string `json:"reply,omitempty"`
	Iterations int    `json:"iterations"`
}

// TurnFailedPayload is the payload for turn_failed events.
type TurnFailedPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
