// Package llm provides the chat model client used by the orchestration loop.
package llm

import (
	"context"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// Request is one model invocation: the full conversation plus the tool
// definitions the model is allowed to call.
type Request struct {
	Model       string                  `json:"model"`
	Messages    []domain.Message        `json:"messages"`
	Tools       []domain.ToolDefinition `json:"tools,omitempty"`
	Temperature *float64                `json:"temperature,omitempty"`
	MaxTokens   *int                    `json:"max_tokens,omitempty"`
}

// ChatModel defines the interface for model invocation. The orchestration
// loop never retries this call; retries are scoped to tool execution.
type ChatModel interface {
	Complete(ctx context.Context, req *Request) (*domain.ModelResponse, error)
}

// Ensure Client implements ChatModel.
var _ ChatModel = (*Client)(nil)
