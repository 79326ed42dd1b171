package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

type decisionRequest struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// GetApproval shows a pending approval without consuming it.
// GET /v1/approvals/:approval_id
func (h *Handler) GetApproval(c echo.Context) error {
	approvalID := c.Param("approval_id")

	pending, err := h.service.PeekApproval(approvalID)
	if err != nil {
		return approvalError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"approval_id":     pending.ApprovalID,
		"conversation_id": pending.ConversationID,
		"tool_calls":      pending.ToolCallSummaries(),
		"created_at":      pending.CreatedAt,
	})
}

// DecideApproval submits a human decision and resumes the suspended turn.
// POST /v1/approvals/:approval_id/decide
func (h *Handler) DecideApproval(c echo.Context) error {
	approvalID := c.Param("approval_id")

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.service.SubmitDecision(c.Request().Context(), domain.DecisionRequest{
		ApprovalID: approvalID,
		Approved:   req.Approved,
		Reason:     req.Reason,
	})
	if err != nil {
		return approvalError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func approvalError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrApprovalNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrApprovalExpired):
		return c.JSON(http.StatusGone, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrIterationLimit):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
