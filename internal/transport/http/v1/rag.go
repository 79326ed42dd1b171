package v1

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ingestRequest struct {
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type ragQueryRequest struct {
	Query string `json:"query"`
}

// IngestDocument embeds a document and stores its chunks for retrieval.
// POST /v1/rag/documents
func (h *Handler) IngestDocument(c echo.Context) error {
	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	ids, err := h.service.IngestDocument(c.Request().Context(), req.Content, req.Metadata)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"chunk_ids": ids,
	})
}

// RagQuery answers a question over the ingested documents.
// POST /v1/rag/query
func (h *Handler) RagQuery(c echo.Context) error {
	var req ragQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	answer, err := h.service.RagQuery(c.Request().Context(), req.Query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, answer)
}
