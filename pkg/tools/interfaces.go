package tools

import (
	"context"
	"time"
)

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ToolResult struct {
	Success       bool          `json:"success"`
	Content       string        `json:"content,omitempty"`
	Error         string        `json:"error,omitempty"`
	ToolName      string        `json:"tool_name"`
	ExecutionTime time.Duration `json:"execution_time,omitempty"`
}

// Tool is the contract every audit tool implements. Execute receives the
// raw action input produced by the model and returns a textual observation.
type Tool interface {
	GetInfo() ToolInfo

	Execute(ctx context.Context, input string) (ToolResult, error)

	GetName() string

	GetDescription() string
}
