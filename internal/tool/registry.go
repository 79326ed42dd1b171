// Package tool provides the tool registry, per-tool rate limiting and the
// retrying executor used by the orchestration loop.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// HandlerFunc executes a tool call and returns the tool result content.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (string, error)

// Tool couples a tool's wire definition with its executor and the minimum
// caller role allowed to see it.
type Tool struct {
	Definition domain.ToolDefinition
	MinRole    domain.Role
	Handler    HandlerFunc
}

// Registry stores tools keyed by tool name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(t Tool) error {
	name := t.Definition.Function.Name
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("handler is required for %s", name)
	}
	if t.MinRole == "" {
		t.MinRole = domain.RoleCallerUser
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered for %s", name)
	}
	r.tools[name] = t
	return nil
}

// MustRegister adds a tool or panics.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the tool for the given name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return Tool{}, fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
	}
	return t, nil
}

// DefinitionsFor returns the wire definitions of every tool the given role is
// allowed to call. Filtered tools are logged, never surfaced as errors.
func (r *Registry) DefinitionsFor(role domain.Role) []domain.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]domain.ToolDefinition, 0, len(r.tools))
	for name, t := range r.tools {
		if !role.Satisfies(t.MinRole) {
			log.Printf("INFO: tool %s filtered for role %s (requires %s)", name, role, t.MinRole)
			continue
		}
		defs = append(defs, t.Definition)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Function.Name < defs[j].Function.Name
	})
	return defs
}
