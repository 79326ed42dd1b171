package service

import (
	"context"
	"fmt"
	"log"

	"github.com/ClarenceZzz/assistant-demo/internal/approval"
	"github.com/ClarenceZzz/assistant-demo/internal/domain"
	"github.com/ClarenceZzz/assistant-demo/internal/policy"
)

// SubmitDecision resumes a suspended turn with a human decision. The
// approval snapshot is consumed atomically: a second decision on the same id
// finds nothing. An approval lifts the require_approval gate for the frozen
// calls; blocked tools stay blocked. Rejected calls are answered with
// synthetic rejection results so the model explains itself another way.
func (s *Service) SubmitDecision(ctx context.Context, req domain.DecisionRequest) (*domain.TurnResult, error) {
	if req.ApprovalID == "" {
		return nil, fmt.Errorf("approval_id is required")
	}

	pending, err := s.approvals.GetAndRemove(req.ApprovalID)
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, pending.ConversationID, domain.EventTypeApprovalDecision, domain.ApprovalDecisionPayload{
		ApprovalID: req.ApprovalID,
		Approved:   req.Approved,
		Reason:     req.Reason,
	})
	log.Printf("INFO: approval %s decided: approved=%t", req.ApprovalID, req.Approved)

	// Replay the frozen turn: history up to the suspension plus the
	// assistant message that requested the calls.
	history := append([]domain.Message(nil), pending.History...)
	history = append(history, pending.Response.AssistantMessage())

	if req.Approved {
		return s.resumeApproved(ctx, pending, history)
	}
	return s.resumeRejected(ctx, pending, history, req.Reason)
}

// PeekApproval returns a pending approval for display without consuming it.
func (s *Service) PeekApproval(approvalID string) (*approval.PendingApproval, error) {
	return s.approvals.Peek(approvalID)
}

func (s *Service) resumeApproved(ctx context.Context, pending *approval.PendingApproval, history []domain.Message) (*domain.TurnResult, error) {
	// The human already vetted these exact calls, so require_approval is
	// satisfied on this pass. Block decisions remain final, and rate
	// limiting, retries and degradation still apply.
	decisions, err := s.gate(ctx, pending.CallerRole, pending.Response.ToolCalls)
	if err != nil {
		return nil, err
	}
	for i := range decisions {
		if decisions[i].Action == policy.ActionRequireApproval {
			decisions[i] = policy.Decision{Action: policy.ActionAllow}
		}
	}

	results, err := s.executeCalls(ctx, pending.ConversationID, pending.Response.ToolCalls, decisions)
	if err != nil {
		return nil, err
	}
	history = append(history, results...)

	// Follow-up tool calls from the model are gated again from scratch.
	return s.runLoop(ctx, pending.ConversationID, pending.CallerRole, history, pending.Options, 1)
}

func (s *Service) resumeRejected(ctx context.Context, pending *approval.PendingApproval, history []domain.Message, reason string) (*domain.TurnResult, error) {
	if reason == "" {
		reason = "no reason given"
	}
	for _, call := range pending.Response.ToolCalls {
		history = append(history, domain.ToolResultMessage(call, RejectionMessage(reason)))
	}

	// The model answers again with the rejection in context. If it insists
	// on another gated tool call the caller sees a fresh suspension rather
	// than a silent loop.
	return s.runLoop(ctx, pending.ConversationID, pending.CallerRole, history, pending.Options, 1)
}

// RejectionMessage is the synthetic tool result injected for each rejected
// tool call.
func RejectionMessage(reason string) string {
	return fmt.Sprintf("The user rejected this tool call (reason: %s). Do not call this tool again; answer the user another way.", reason)
}
