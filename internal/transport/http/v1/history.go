package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// GetConversationMessages retrieves persisted messages for a conversation.
// GET /v1/conversations/:conversation_id/messages
func (h *Handler) GetConversationMessages(c echo.Context) error {
	conversationID := c.Param("conversation_id")
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	messages, err := h.service.GetConversationMessages(c.Request().Context(), conversationID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// GetConversationEvents retrieves audit events for a conversation.
// GET /v1/conversations/:conversation_id/events
func (h *Handler) GetConversationEvents(c echo.Context) error {
	conversationID := c.Param("conversation_id")
	limit := 100
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	afterTs := int64(0)
	if t := c.QueryParam("after_ts"); t != "" {
		if val, err := strconv.ParseInt(t, 10, 64); err == nil {
			afterTs = val
		}
	}
	var types []string
	if tp := c.QueryParam("types"); tp != "" {
		for _, part := range strings.Split(tp, ",") {
			if p := strings.TrimSpace(part); p != "" {
				types = append(types, p)
			}
		}
	}

	events, err := h.service.GetConversationEvents(c.Request().Context(), conversationID, afterTs, types, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
	})
}
