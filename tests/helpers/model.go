package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/ClarenceZzz/assistant-demo/internal/adapter/llm"
	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// ScriptedModel is a ChatModel double that returns canned responses in order
// and records the requests it received.
type ScriptedModel struct {
	mu        sync.Mutex
	responses []*domain.ModelResponse
	requests  []*llm.Request
}

func NewScriptedModel(responses ...*domain.ModelResponse) *ScriptedModel {
	return &ScriptedModel{responses: responses}
}

func (m *ScriptedModel) Complete(ctx context.Context, req *llm.Request) (*domain.ModelResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	cp.Messages = append([]domain.Message(nil), req.Messages...)
	m.requests = append(m.requests, &cp)
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("no scripted response left")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

// Requests returns a copy of the recorded requests.
func (m *ScriptedModel) Requests() []*llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*llm.Request(nil), m.requests...)
}

// ToolCallResponse builds a model response requesting a single tool call.
func ToolCallResponse(id, name, args string) *domain.ModelResponse {
	return &domain.ModelResponse{
		ToolCalls: []domain.ToolCall{
			{
				ID:   id,
				Type: "function",
				Function: domain.ToolCallFunction{
					Name:      name,
					Arguments: args,
				},
			},
		},
	}
}

// TextResponse builds a plain text model response.
func TextResponse(content string) *domain.ModelResponse {
	return &domain.ModelResponse{Content: content}
}
