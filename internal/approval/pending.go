// Package approval holds turns suspended for human approval.
package approval

import (
	"time"

	"github.com/google/uuid"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// PendingApproval is a frozen snapshot of a suspended turn: everything needed
// to resume the orchestration loop once a human decides.
type PendingApproval struct {
	ApprovalID     string
	ConversationID string
	CallerRole     domain.Role
	History        []domain.Message
	Response       *domain.ModelResponse
	Options        domain.TurnOptions
	CreatedAt      time.Time
}

// NewApprovalID returns a fresh approval id.
func NewApprovalID() string {
	return "ap_" + uuid.New().String()
}

// ToolCallSummaries describes the tool calls awaiting approval, for display
// to the approver.
func (p *PendingApproval) ToolCallSummaries() []domain.ToolCallSummary {
	if p.Response == nil {
		return nil
	}
	summaries := make([]domain.ToolCallSummary, 0, len(p.Response.ToolCalls))
	for _, call := range p.Response.ToolCalls {
		summaries = append(summaries, domain.ToolCallSummary{
			ToolCallID: call.ID,
			ToolName:   call.Function.Name,
			Arguments:  call.Function.Arguments,
		})
	}
	return summaries
}
