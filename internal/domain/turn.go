package domain

// TurnStatus is the outcome kind of a conversation turn.
type TurnStatus string

const (
	TurnStatusCompleted       TurnStatus = "completed"
	TurnStatusPendingApproval TurnStatus = "pending_approval"
)

// TurnOptions are the runtime options in effect for a turn. They are frozen
// into the approval snapshot so a resumed turn runs with the same settings.
type TurnOptions struct {
	Model string           `json:"model"`
	Tools []ToolDefinition `json:"tools,omitempty"`
}

// TurnRequest starts one conversation turn. ConversationID is optional; when
// empty the turn runs stateless, without conversation memory.
type TurnRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
	Role           Role   `json:"role,omitempty"`
}

// DecisionRequest submits a human decision for a pending approval.
type DecisionRequest struct {
	ApprovalID string `json:"approval_id"`
	Approved   bool   `json:"approved"`
	Reason     string `json:"reason,omitempty"`
}

// TurnResult is the tagged result of a turn or a resumed decision: either a
// completed answer or a suspension awaiting human approval.
type TurnResult struct {
	Status           TurnStatus        `json:"status"`
	ConversationID   string            `json:"conversation_id,omitempty"`
	Reply            string            `json:"reply,omitempty"`
	ApprovalID       string            `json:"approval_id,omitempty"`
	PendingToolCalls []ToolCallSummary `json:"pending_tool_calls,omitempty"`
}

// Completed builds a completed turn result.
func Completed(conversationID, reply string) *TurnResult {
	return &TurnResult{
		Status:         TurnStatusCompleted,
		ConversationID: conversationID,
		Reply:          reply,
	}
}

// AwaitingApproval builds a suspended turn result.
func AwaitingApproval(conversationID, approvalID string, calls []ToolCallSummary) *TurnResult {
	return &TurnResult{
		Status:           TurnStatusPendingApproval,
		ConversationID:   conversationID,
		ApprovalID:       approvalID,
		PendingToolCalls: calls,
	}
}
