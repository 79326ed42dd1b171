package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// Degradation records one tool call that could not produce a real result and
// was answered with a synthetic failure message instead.
type Degradation struct {
	ToolCallID string
	ToolName   string
	Reason     string
	Err        error
}

// Executor runs tool calls with rate limiting, retries and degradation.
// It never fails a whole turn because a tool failed: every call produces a
// tool-result message, real or synthetic. The only error Execute returns is
// context cancellation.
type Executor struct {
	registry    *Registry
	limiter     *RateLimiter
	maxAttempts int
	backoffBase time.Duration
}

// NewExecutor creates an executor. maxAttempts is the total number of tries
// per call, including the first.
func NewExecutor(registry *Registry, limiter *RateLimiter, maxAttempts int) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Executor{
		registry:    registry,
		limiter:     limiter,
		maxAttempts: maxAttempts,
		backoffBase: time.Second,
	}
}

// Execute runs each tool call in order and returns one tool-result message
// per call, in the same order, plus the degradations that occurred.
func (e *Executor) Execute(ctx context.Context, calls []domain.ToolCall) ([]domain.Message, []Degradation, error) {
	results := make([]domain.Message, 0, len(calls))
	var degraded []Degradation

	for _, call := range calls {
		content, err := e.executeOne(ctx, call)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			reason := err.Error()
			log.Printf("WARN: tool %s degraded: %s", call.Function.Name, reason)
			degraded = append(degraded, Degradation{
				ToolCallID: call.ID,
				ToolName:   call.Function.Name,
				Reason:     reason,
				Err:        err,
			})
			content = DegradationMessage(err)
		}
		results = append(results, domain.ToolResultMessage(call, content))
	}
	return results, degraded, nil
}

// executeOne runs a single call through the rate limiter and the retry loop.
func (e *Executor) executeOne(ctx context.Context, call domain.ToolCall) (string, error) {
	name := call.Function.Name

	t, err := e.registry.Get(name)
	if err != nil {
		return "", err
	}
	if e.limiter != nil {
		if err := e.limiter.CheckAndRecord(name); err != nil {
			return "", err
		}
	}

	args := json.RawMessage(call.Function.Arguments)
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		content, err := t.Handler(ctx, args)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable(err) {
			log.Printf("WARN: tool %s failed permanently: %v", name, err)
			break
		}
		if attempt == e.maxAttempts {
			break
		}

		delay := e.backoffBase << attempt
		log.Printf("WARN: tool %s attempt %d/%d failed, retrying in %s: %v", name, attempt, e.maxAttempts, delay, err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", lastErr
}

// DegradationMessage is the synthetic tool result handed back to the model
// when a call could not be completed.
func DegradationMessage(err error) string {
	return fmt.Sprintf("Tool call failed: %s. Please answer using your own knowledge.", err)
}

// retryable reports whether a tool error is worth retrying. Network timeouts
// and transient provider errors retry; everything else fails fast.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrToolNotFound) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, kw := range []string{"timeout", "timed out", "connection", "temporarily", "rate limit", "too many requests", "unavailable"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
