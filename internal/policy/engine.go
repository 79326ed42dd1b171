// Package policy evaluates tool-call policy decisions via OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/storage/inmem"
)

// Decision actions. The orchestration loop suspends on require_approval and
// degrades the tool call on block; everything else executes.
const (
	ActionAllow           = "allow"
	ActionRequireApproval = "require_approval"
	ActionBlock           = "block"
)

// Decision is the outcome of evaluating a tool call against the policy.
type Decision struct {
	Action string
	Reason string
}

// Input describes one requested tool call for policy evaluation.
type Input struct {
	ToolName string                 `json:"tool_name"`
	Role     string                 `json:"role"`
	Args     map[string]interface{} `json:"args"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the policy for evaluation. Data holds the configurable
// sets the policy consults (high_risk_tools, blocked_tools).
func NewEngine(ctx context.Context, policySource string, data map[string]interface{}) (*Engine, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	r := rego.New(
		rego.Query("data.tool_policy.decision"),
		rego.Module("tool_policy.rego", policySource),
		rego.Store(inmem.NewFromObject(data)),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the policy decision for a single tool call.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Decision, error) {
	if input.Args == nil {
		input.Args = map[string]interface{}{}
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Decision{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Decision{Action: ActionAllow}, nil
	}

	obj, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Decision{}, fmt.Errorf("policy returned unexpected type %T", results[0].Expressions[0].Value)
	}
	decision := Decision{Action: ActionAllow}
	if a, ok := obj["action"].(string); ok {
		decision.Action = a
	}
	if r, ok := obj["reason"].(string); ok {
		decision.Reason = r
	}
	return decision, nil
}

// DefaultPolicy is the default tool policy. High-risk tools require human
// approval; blocked tools are refused outright.
const DefaultPolicy = `package tool_policy

default decision := {"action": "allow", "reason": ""}

decision := {"action": "block", "reason": "tool disabled by policy"} if {
	input.tool_name in data.blocked_tools
} else := {"action": "require_approval", "reason": "tool requires human approval"} if {
	input.tool_name in data.high_risk_tools
}
`

// DataFor builds the OPA data document from the configured tool sets.
func DataFor(highRiskTools, blockedTools []string) map[string]interface{} {
	if highRiskTools == nil {
		highRiskTools = []string{}
	}
	if blockedTools == nil {
		blockedTools = []string{}
	}
	return map[string]interface{}{
		"high_risk_tools": highRiskTools,
		"blocked_tools":   blockedTools,
	}
}
