package domain

import "errors"

// Sentinel errors surfaced by the orchestration core. Tool-level failures are
// absorbed into degraded tool results before they reach the model boundary;
// these are the loop-level conditions that propagate to the caller.
var (
	// ErrRateLimited marks a tool call rejected by the sliding-window rate
	// limiter. It is fatal for the attempt and is never retried.
	ErrRateLimited = errors.New("tool rate limit exceeded")

	// ErrApprovalNotFound means the approval id is unknown (or was already
	// consumed by an earlier decision).
	ErrApprovalNotFound = errors.New("approval not found")

	// ErrApprovalExpired means the approval existed but its TTL elapsed.
	ErrApprovalExpired = errors.New("approval expired")

	// ErrIterationLimit means the model kept requesting tool calls past the
	// configured round-trip cap.
	ErrIterationLimit = errors.New("tool call iteration limit exceeded")

	// ErrToolNotFound means the model requested a tool that is not registered.
	ErrToolNotFound = errors.New("tool not found")
)
