// Package domain defines the core domain models for the assistant service.
package domain

import (
	"encoding/json"
	"time"
)

// Message roles, following the OpenAI chat completion wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single entry in a conversation. The JSON shape matches the
// chat completion wire format, so a []Message can be sent to the model as-is.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ToolResultMessage builds a tool-result message for a single tool call.
func ToolResultMessage(call ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		Name:       call.Function.Name,
		ToolCallID: call.ID,
	}
}

// ModelResponse is the parsed output of one model invocation: the answer text
// and zero or more requested tool calls.
type ModelResponse struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// HasToolCalls reports whether the model requested any tool calls.
func (r *ModelResponse) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}

// AssistantMessage converts the response into the assistant message that is
// appended to the conversation history.
func (r *ModelResponse) AssistantMessage() Message {
	return Message{
		Role:      RoleAssistant,
		Content:   r.Content,
		ToolCalls: r.ToolCalls,
	}
}

// Conversation represents a persisted conversation session.
type Conversation struct {
	ConversationID string          `json:"conversation_id"`
	UserID         string          `json:"user_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// StoredMessage is a persisted conversation message row.
type StoredMessage struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
