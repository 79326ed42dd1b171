package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ClarenceZzz/assistant-demo/internal/adapter/llm"
	"github.com/ClarenceZzz/assistant-demo/internal/approval"
	"github.com/ClarenceZzz/assistant-demo/internal/domain"
	"github.com/ClarenceZzz/assistant-demo/internal/policy"
	"github.com/ClarenceZzz/assistant-demo/internal/tool"
)

const systemPrompt = "You are a helpful assistant."

// RunTurn runs one conversation turn: the model is invoked in a loop,
// requested tool calls pass through the policy gate and the executor, and the
// turn either completes with a reply or suspends awaiting human approval.
func (s *Service) RunTurn(ctx context.Context, req domain.TurnRequest) (*domain.TurnResult, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("message is required")
	}
	role := req.Role
	if role == "" {
		role = domain.RoleCallerUser
	}

	history := []domain.Message{domain.SystemMessage(systemPrompt)}

	// A conversation id opts the turn into memory; without one the turn is
	// stateless and never touches the store.
	if req.ConversationID != "" {
		if _, err := s.store.GetOrCreateConversation(ctx, req.ConversationID, string(role)); err != nil {
			return nil, fmt.Errorf("failed to get/create conversation: %w", err)
		}
		stored, err := s.store.GetMessages(ctx, req.ConversationID, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
		for _, m := range stored {
			history = append(history, domain.Message{Role: m.Role, Content: m.Content})
		}
	}

	history = append(history, domain.UserMessage(req.Message))
	if req.ConversationID != "" {
		msg := &domain.StoredMessage{
			MessageID:      "msg_" + uuid.New().String()[:8],
			ConversationID: req.ConversationID,
			Role:           domain.RoleUser,
			Content:        req.Message,
			CreatedAt:      time.Now(),
		}
		if err := s.store.CreateMessage(ctx, msg); err != nil {
			log.Printf("ERROR: failed to save user message: %v", err)
		}
	}

	s.recordEvent(ctx, req.ConversationID, domain.EventTypeTurnStarted, map[string]interface{}{
		"role":    string(role),
		"message": req.Message,
	})

	tools := s.registry.DefinitionsFor(role)
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Function.Name)
	}
	s.recordEvent(ctx, req.ConversationID, domain.EventTypeToolsFiltered, map[string]interface{}{
		"role":  string(role),
		"tools": names,
	})

	opts := domain.TurnOptions{Model: s.config.ChatModel, Tools: tools}
	return s.runLoop(ctx, req.ConversationID, role, history, opts, 0)
}

// runLoop drives model round-trips until the model answers without tool
// calls, a gated call suspends the turn, or the iteration cap is hit.
func (s *Service) runLoop(ctx context.Context, conversationID string, role domain.Role, history []domain.Message, opts domain.TurnOptions, iteration int) (*domain.TurnResult, error) {
	for ; ; iteration++ {
		if iteration >= s.config.MaxToolIterations {
			s.recordEvent(ctx, conversationID, domain.EventTypeTurnFailed, domain.TurnFailedPayload{
				Code:    "iteration_limit",
				Message: fmt.Sprintf("no final answer after %d tool iterations", iteration),
			})
			return nil, fmt.Errorf("%w: %d iterations", domain.ErrIterationLimit, iteration)
		}

		resp, err := s.chat.Complete(ctx, &llm.Request{
			Model:    opts.Model,
			Messages: history,
			Tools:    opts.Tools,
		})
		if err != nil {
			s.recordEvent(ctx, conversationID, domain.EventTypeTurnFailed, domain.TurnFailedPayload{
				Code:    "model_error",
				Message: err.Error(),
			})
			return nil, fmt.Errorf("model invocation failed: %w", err)
		}

		if !resp.HasToolCalls() {
			return s.finishTurn(ctx, conversationID, resp.Content, iteration)
		}

		decisions, err := s.gate(ctx, role, resp.ToolCalls)
		if err != nil {
			return nil, err
		}
		if anyRequiresApproval(decisions) {
			return s.suspend(ctx, conversationID, role, history, resp, opts)
		}

		// Every result, real or degraded, goes back to the model.
		history = append(history, resp.AssistantMessage())
		results, err := s.executeCalls(ctx, conversationID, resp.ToolCalls, decisions)
		if err != nil {
			return nil, err
		}
		history = append(history, results...)
	}
}

// gate evaluates each requested tool call against the policy engine.
func (s *Service) gate(ctx context.Context, role domain.Role, calls []domain.ToolCall) ([]policy.Decision, error) {
	decisions := make([]policy.Decision, len(calls))
	for i, call := range calls {
		d, err := s.policyEngine.Evaluate(ctx, policy.Input{
			ToolName: call.Function.Name,
			Role:     string(role),
			Args:     parseArgs(call.Function.Arguments),
		})
		if err != nil {
			return nil, fmt.Errorf("policy evaluation failed for %s: %w", call.Function.Name, err)
		}
		decisions[i] = d
	}
	return decisions, nil
}

func anyRequiresApproval(decisions []policy.Decision) bool {
	for _, d := range decisions {
		if d.Action == policy.ActionRequireApproval {
			return true
		}
	}
	return false
}

// suspend freezes the turn into a pending approval and returns the
// suspension to the caller. The assistant message is NOT appended here; the
// decision path replays it from the snapshot.
func (s *Service) suspend(ctx context.Context, conversationID string, role domain.Role, history []domain.Message, resp *domain.ModelResponse, opts domain.TurnOptions) (*domain.TurnResult, error) {
	pending := &approval.PendingApproval{
		ApprovalID:     approval.NewApprovalID(),
		ConversationID: conversationID,
		CallerRole:     role,
		History:        append([]domain.Message(nil), history...),
		Response:       resp,
		Options:        opts,
		CreatedAt:      time.Now(),
	}
	if err := s.approvals.Save(pending); err != nil {
		return nil, fmt.Errorf("failed to save pending approval: %w", err)
	}

	summaries := pending.ToolCallSummaries()
	s.recordEvent(ctx, conversationID, domain.EventTypeApprovalRequired, domain.ApprovalRequiredPayload{
		ApprovalID: pending.ApprovalID,
		ToolCalls:  summaries,
	})
	log.Printf("INFO: turn suspended, approval %s pending for %d tool call(s)", pending.ApprovalID, len(summaries))

	return domain.AwaitingApproval(conversationID, pending.ApprovalID, summaries), nil
}

// executeCalls produces one tool-result message per call, in call order.
// Blocked calls are degraded without touching the executor; the rest go
// through rate limiting, retries and degradation.
func (s *Service) executeCalls(ctx context.Context, conversationID string, calls []domain.ToolCall, decisions []policy.Decision) ([]domain.Message, error) {
	results := make([]domain.Message, 0, len(calls))
	for i, call := range calls {
		if decisions[i].Action == policy.ActionBlock {
			reason := decisions[i].Reason
			if reason == "" {
				reason = "blocked by policy"
			}
			log.Printf("WARN: tool %s blocked: %s", call.Function.Name, reason)
			s.recordEvent(ctx, conversationID, domain.EventTypeToolDegraded, domain.ToolDegradedPayload{
				ToolCallID: call.ID,
				ToolName:   call.Function.Name,
				Reason:     reason,
			})
			results = append(results, domain.ToolResultMessage(call, tool.DegradationMessage(fmt.Errorf("blocked by policy: %s", reason))))
			continue
		}

		msgs, degraded, err := s.executor.Execute(ctx, []domain.ToolCall{call})
		if err != nil {
			return nil, err
		}
		for _, d := range degraded {
			eventType := domain.EventTypeToolDegraded
			if errors.Is(d.Err, domain.ErrRateLimited) {
				eventType = domain.EventTypeRateLimited
			}
			s.recordEvent(ctx, conversationID, eventType, domain.ToolDegradedPayload{
				ToolCallID: d.ToolCallID,
				ToolName:   d.ToolName,
				Reason:     d.Reason,
			})
		}
		results = append(results, msgs...)
	}
	return results, nil
}

// finishTurn persists the final reply and completes the turn.
func (s *Service) finishTurn(ctx context.Context, conversationID, reply string, iterations int) (*domain.TurnResult, error) {
	if conversationID != "" {
		msg := &domain.StoredMessage{
			MessageID:      "msg_" + uuid.New().String()[:8],
			ConversationID: conversationID,
			Role:           domain.RoleAssistant,
			Content:        reply,
			CreatedAt:      time.Now(),
		}
		if err := s.store.CreateMessage(ctx, msg); err != nil {
			log.Printf("ERROR: failed to save assistant message: %v", err)
		}
	}
	s.recordEvent(ctx, conversationID, domain.EventTypeTurnDone, domain.TurnDonePayload{
		Reply:      reply,
		Iterations: iterations,
	})
	return domain.Completed(conversationID, reply), nil
}

func parseArgs(raw string) map[string]interface{} {
	args := map[string]interface{}{}
	if raw != "" {
		// Malformed arguments still reach the policy as an empty object.
		_ = json.Unmarshal([]byte(raw), &args)
	}
	return args
}
