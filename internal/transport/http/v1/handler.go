// Package v1 provides HTTP handlers for the assistant service.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ClarenceZzz/assistant-demo/internal/service"
)

// CallerRoleHeader carries the caller's role on every request. Unknown or
// missing values fall back to the user role.
const CallerRoleHeader = "X-Caller-Role"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat + approvals
	e.POST("/v1/chat", h.Chat)
	e.GET("/v1/approvals/:approval_id", h.GetApproval)
	e.POST("/v1/approvals/:approval_id/decide", h.DecideApproval)

	// Conversation history
	e.GET("/v1/conversations/:conversation_id/messages", h.GetConversationMessages)
	e.GET("/v1/conversations/:conversation_id/events", h.GetConversationEvents)

	// Retrieval
	e.POST("/v1/rag/documents", h.IngestDocument)
	e.POST("/v1/rag/query", h.RagQuery)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
