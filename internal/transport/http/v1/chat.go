package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

type chatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// Chat runs one conversation turn.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	role := domain.ParseRole(c.Request().Header.Get(CallerRoleHeader))

	result, err := h.service.RunTurn(c.Request().Context(), domain.TurnRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		Role:           role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIterationLimit) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}
