package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// RegisterBuiltins adds the built-in tools to the registry.
func RegisterBuiltins(r *Registry) {
	r.MustRegister(Tool{
		Definition: domain.ToolDefinition{
			Type: "function",
			Function: domain.ToolFunction{
				Name:        "getWeather",
				Description: "Get the current weather for a location.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"location": map[string]interface{}{
							"type":        "string",
							"description": "City name, e.g. Beijing",
						},
					},
					"required": []string{"location"},
				},
			},
		},
		MinRole: domain.RoleCallerUser,
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Location string `json:"location"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if in.Location == "" {
				in.Location = "your location"
			}
			return fmt.Sprintf("The weather in %s is snowy.", in.Location), nil
		},
	})

	r.MustRegister(Tool{
		Definition: domain.ToolDefinition{
			Type: "function",
			Function: domain.ToolFunction{
				Name:        "getTemperature",
				Description: "Get the current temperature for a location.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"location": map[string]interface{}{
							"type":        "string",
							"description": "City name, e.g. Beijing",
						},
					},
					"required": []string{"location"},
				},
			},
		},
		MinRole: domain.RoleCallerUser,
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Location string `json:"location"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if in.Location == "" {
				in.Location = "your location"
			}
			return fmt.Sprintf("The temperature in %s is 0°C.", in.Location), nil
		},
	})

	r.MustRegister(Tool{
		Definition: domain.ToolDefinition{
			Type: "function",
			Function: domain.ToolFunction{
				Name:        "runProgram",
				Description: "Run a registered maintenance program on the server.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"program": map[string]interface{}{
							"type":        "string",
							"description": "Program name",
						},
					},
					"required": []string{"program"},
				},
			},
		},
		MinRole: domain.RoleCallerOperator,
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Program string `json:"program"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if in.Program == "" {
				return "", fmt.Errorf("program is required")
			}
			return fmt.Sprintf("Program %s completed with exit code 0.", in.Program), nil
		},
	})
}
