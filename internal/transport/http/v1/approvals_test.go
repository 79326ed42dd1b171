package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
	"github.com/ClarenceZzz/assistant-demo/tests/helpers"
)

// suspendTurn runs a chat turn that suspends on getWeather and returns the
// approval id.
func suspendTurn(t *testing.T, h *Handler) string {
	t.Helper()
	rec := postChat(t, h, `{"conversation_id":"c1","message":"Weather in Beijing?"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, domain.TurnStatusPendingApproval, result.Status)
	require.NotEmpty(t, result.ApprovalID)
	return result.ApprovalID
}

func decide(t *testing.T, h *Handler, approvalID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/approvals/"+approvalID+"/decide", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/approvals/:approval_id/decide")
	c.SetParamNames("approval_id")
	c.SetParamValues(approvalID)

	require.NoError(t, h.DecideApproval(c))
	return rec
}

func TestGetApproval(t *testing.T) {
	model := helpers.NewScriptedModel(
		helpers.ToolCallResponse("call_1", "getWeather", `{"location":"Beijing"}`),
	)
	h, _ := newTestHandler(t, model, []string{"getWeather"})
	approvalID := suspendTurn(t, h)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/approvals/"+approvalID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/approvals/:approval_id")
	c.SetParamNames("approval_id")
	c.SetParamValues(approvalID)

	require.NoError(t, h.GetApproval(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, approvalID, resp["approval_id"])
	assert.Len(t, resp["tool_calls"], 1)
}

func TestDecideApprovalApprove(t *testing.T) {
	model := helpers.NewScriptedModel(
		helpers.ToolCallResponse("call_1", "getWeather", `{"location":"Beijing"}`),
		helpers.TextResponse("Snowy in Beijing."),
	)
	h, _ := newTestHandler(t, model, []string{"getWeather"})
	approvalID := suspendTurn(t, h)

	rec := decide(t, h, approvalID, `{"approved":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var result domain.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.TurnStatusCompleted, result.Status)
	assert.Equal(t, "Snowy in Beijing.", result.Reply)
}

func TestDecideApprovalReject(t *testing.T) {
	model := helpers.NewScriptedModel(
		helpers.ToolCallResponse("call_1", "getWeather", `{"location":"Beijing"}`),
		helpers.TextResponse("I can't check live weather right now."),
	)
	h, _ := newTestHandler(t, model, []string{"getWeather"})
	approvalID := suspendTurn(t, h)

	rec := decide(t, h, approvalID, `{"approved":false,"reason":"not needed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var result domain.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.TurnStatusCompleted, result.Status)

	// The model saw the rejection, not a tool execution.
	reqs := model.Requests()
	last := reqs[len(reqs)-1].Messages
	assert.Contains(t, last[len(last)-1].Content, "rejected")
	assert.Contains(t, last[len(last)-1].Content, "not needed")
}

func TestDecideApprovalConsumedOnce(t *testing.T) {
	model := helpers.NewScriptedModel(
		helpers.ToolCallResponse("call_1", "getWeather", `{"location":"Beijing"}`),
		helpers.TextResponse("Snowy."),
	)
	h, _ := newTestHandler(t, model, []string{"getWeather"})
	approvalID := suspendTurn(t, h)

	first := decide(t, h, approvalID, `{"approved":true}`)
	assert.Equal(t, http.StatusOK, first.Code)

	second := decide(t, h, approvalID, `{"approved":true}`)
	assert.Equal(t, http.StatusNotFound, second.Code)
}

func TestDecideApprovalUnknown(t *testing.T) {
	h, _ := newTestHandler(t, helpers.NewScriptedModel(), nil)

	rec := decide(t, h, "ap_missing", `{"approved":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
