package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/observability"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/registry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ToolRegistryError struct {
	Component string
	Action    string
	Message   string
	Err       error
}

func (e *ToolRegistryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Component, e.Action, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Component, e.Action, e.Message)
}

func (e *ToolRegistryError) Unwrap() error {
	return e.Err
}

func NewToolRegistryError(component, action, message string, err error) *ToolRegistryError {
	return &ToolRegistryError{
		Component: component,
		Action:    action,
		Message:   message,
		Err:       err,
	}
}

// ToolRegistry holds the tools available to the agent. Registration order is
// preserved: it determines the order tools appear in the reasoning prompt.
type ToolRegistry struct {
	*registry.BaseRegistry[Tool]
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		BaseRegistry: registry.NewBaseRegistry[Tool](),
	}
}

func (r *ToolRegistry) RegisterTool(tool Tool) error {
	name := tool.GetName()
	if name == "" {
		return NewToolRegistryError("ToolRegistry", "RegisterTool", "tool name cannot be empty", nil)
	}
	if _, exists := r.Get(name); exists {
		return NewToolRegistryError("ToolRegistry", "RegisterTool",
			fmt.Sprintf("tool %s already registered", name), nil)
	}
	if err := r.Register(name, tool); err != nil {
		return NewToolRegistryError("ToolRegistry", "RegisterTool",
			fmt.Sprintf("failed to register tool %s", name), err)
	}
	return nil
}

func (r *ToolRegistry) GetTool(name string) (Tool, error) {
	tool, exists := r.Get(name)
	if !exists {
		return nil, NewToolRegistryError("ToolRegistry", "GetTool",
			fmt.Sprintf("tool %s not found", name), nil)
	}
	return tool, nil
}

// ListTools returns tool metadata in registration order.
func (r *ToolRegistry) ListTools() []ToolInfo {
	var infos []ToolInfo
	for _, tool := range r.List() {
		infos = append(infos, tool.GetInfo())
	}
	return infos
}

// ExecuteTool dispatches a tool call by name. It never panics: a panicking
// tool is reported as a failed result so the reasoning loop can continue.
func (r *ToolRegistry) ExecuteTool(ctx context.Context, toolName, input string) (result ToolResult, execErr error) {
	startTime := time.Now()

	tracer := observability.GetTracer("auditor.tools")
	ctx, span := tracer.Start(ctx, observability.SpanToolExecution,
		trace.WithAttributes(
			attribute.String(observability.AttrToolName, toolName),
		),
	)
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			execErr = NewToolRegistryError("ToolRegistry", "ExecuteTool",
				fmt.Sprintf("tool %s panicked: %v", toolName, rec), nil)
			span.RecordError(execErr)
			span.SetStatus(codes.Error, "tool panicked")
			result = ToolResult{
				Success:  false,
				Error:    execErr.Error(),
				ToolName: toolName,
			}
		}
	}()

	tool, err := r.GetTool(toolName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tool not found")

		if metrics := observability.GetGlobalMetrics(); metrics != nil {
			metrics.RecordToolExecution(ctx, toolName, time.Since(startTime), err)
		}

		return ToolResult{
			Success:  false,
			Error:    err.Error(),
			ToolName: toolName,
		}, err
	}

	result, execErr = tool.Execute(ctx, input)
	duration := time.Since(startTime)
	result.ToolName = toolName
	result.ExecutionTime = duration

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		var recordErr error
		if execErr != nil {
			recordErr = execErr
			span.RecordError(execErr)
			span.SetStatus(codes.Error, execErr.Error())
		} else if !result.Success {
			recordErr = fmt.Errorf("%s", result.Error)
			span.RecordError(recordErr)
			span.SetStatus(codes.Error, result.Error)
		} else {
			span.SetStatus(codes.Ok, "success")
		}
		metrics.RecordToolExecution(ctx, toolName, duration, recordErr)
	}

	span.SetAttributes(
		attribute.Bool("tool.success", result.Success),
		attribute.Int64("tool.duration_ms", duration.Milliseconds()),
	)

	return result, execErr
}
