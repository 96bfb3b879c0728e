// Package agent implements the ReAct orchestration loop: it renders the
// reasoning prompt, parses each completion into a step, dispatches tool
// calls and enforces the iteration budget.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/llms"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/observability"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/reasoning"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/tools"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultMaxIterations = 10

// Status is the terminal state of one run.
type Status string

const (
	// StatusAnswered means the model produced a parseable final answer.
	StatusAnswered Status = "answered"
	// StatusExhausted means the iteration budget ran out and the degraded
	// fallback answer was returned.
	StatusExhausted Status = "exhausted"
	// StatusError means the completion service failed; the run is fatal.
	StatusError Status = "error"
)

// RunResult is the outcome of one question.
type RunResult struct {
	Answer     string
	Status     Status
	Iterations int
	Steps      []reasoning.Step
}

// Agent drives the reason/act cycle over a tool registry. It holds no
// per-run state, so one Agent can serve concurrent runs.
type Agent struct {
	llm           llms.LLMProvider
	registry      *tools.ToolRegistry
	maxIterations int
}

func New(llm llms.LLMProvider, registry *tools.ToolRegistry, maxIterations int) *Agent {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Agent{
		llm:           llm,
		registry:      registry,
		maxIterations: maxIterations,
	}
}

// Run answers one investigative question. Parse failures and tool failures
// are recoverable: they become observations and the loop continues. The only
// fatal condition is the completion service itself failing.
func (a *Agent) Run(ctx context.Context, question string) (*RunResult, error) {
	startTime := time.Now()

	tracer := observability.GetTracer("auditor.agent")
	ctx, span := tracer.Start(ctx, observability.SpanAgentRun)
	defer span.End()

	scratchpad := reasoning.NewScratchpad()
	toolInfos := a.registry.ListTools()

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		prompt := reasoning.BuildPrompt(question, toolInfos, scratchpad)

		completion, err := a.complete(ctx, prompt)
		if err != nil {
			return a.finish(ctx, span, startTime, &RunResult{
				Status:     StatusError,
				Iterations: iteration,
				Steps:      scratchpad.Steps(),
			}, fmt.Errorf("completion failed at iteration %d: %w", iteration, err))
		}

		step, err := reasoning.Parse(completion)
		if err != nil {
			slog.Debug("Unparseable completion, recovering", "iteration", iteration, "error", err)
			scratchpad.Add(reasoning.Step{
				Observation: "Your response could not be parsed. Reply using the exact format: " +
					"'Thought: ...' then either 'Action: <tool>' with 'Action Input: <input>', " +
					"or 'Final Answer: <answer>'.",
			})
			continue
		}

		if step.Terminal {
			return a.finish(ctx, span, startTime, &RunResult{
				Answer:     step.FinalAnswer,
				Status:     StatusAnswered,
				Iterations: iteration + 1,
				Steps:      scratchpad.Steps(),
			}, nil)
		}

		observation := a.observe(ctx, step)
		scratchpad.Add(reasoning.Step{
			Thought:     step.Thought,
			Action:      step.Action,
			ActionInput: step.ActionInput,
			Observation: observation,
		})
	}

	return a.generateFinalAnswer(ctx, span, startTime, question, toolInfos, scratchpad)
}

// observe dispatches one tool call and always returns an observation.
func (a *Agent) observe(ctx context.Context, step *reasoning.ParsedStep) string {
	if _, err := a.registry.GetTool(step.Action); err != nil {
		names := make([]string, 0)
		for _, info := range a.registry.ListTools() {
			names = append(names, info.Name)
		}
		return fmt.Sprintf("Invalid tool name %q. Valid tools: %s.",
			step.Action, strings.Join(names, ", "))
	}

	result, err := a.registry.ExecuteTool(ctx, step.Action, step.ActionInput)
	if err != nil {
		return fmt.Sprintf("ERROR: tool %s failed: %v", step.Action, err)
	}
	if !result.Success {
		return fmt.Sprintf("ERROR: %s", result.Error)
	}
	return result.Content
}

// generateFinalAnswer implements the "generate" early stop: one extra
// completion asking the model to conclude from the scratchpad. If that also
// fails to parse into a final answer, the last observation is returned
// verbatim as a degraded answer.
func (a *Agent) generateFinalAnswer(ctx context.Context, span trace.Span, startTime time.Time,
	question string, toolInfos []tools.ToolInfo, scratchpad *reasoning.Scratchpad) (*RunResult, error) {

	slog.Debug("Iteration budget exhausted, forcing final answer", "max_iterations", a.maxIterations)

	prompt := reasoning.BuildFinalAnswerPrompt(question, toolInfos, scratchpad)
	completion, err := a.complete(ctx, prompt)
	if err != nil {
		return a.finish(ctx, span, startTime, &RunResult{
			Status:     StatusError,
			Iterations: a.maxIterations,
			Steps:      scratchpad.Steps(),
		}, fmt.Errorf("final answer completion failed: %w", err))
	}

	if step, err := reasoning.Parse(completion); err == nil && step.Terminal {
		return a.finish(ctx, span, startTime, &RunResult{
			Answer:     step.FinalAnswer,
			Status:     StatusAnswered,
			Iterations: a.maxIterations,
			Steps:      scratchpad.Steps(),
		}, nil)
	}

	answer, ok := scratchpad.LastObservation()
	if !ok {
		answer = "The investigation could not be completed within the iteration budget."
	}
	return a.finish(ctx, span, startTime, &RunResult{
		Answer:     answer,
		Status:     StatusExhausted,
		Iterations: a.maxIterations,
		Steps:      scratchpad.Steps(),
	}, nil)
}

func (a *Agent) complete(ctx context.Context, prompt string) (string, error) {
	completion, err := a.llm.Complete(ctx, prompt)

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		metrics.RecordLLMRequest(ctx, a.llm.GetModelName(), err)
	}

	return completion, err
}

func (a *Agent) finish(ctx context.Context, span trace.Span, startTime time.Time,
	result *RunResult, err error) (*RunResult, error) {

	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.String(observability.AttrRunStatus, string(result.Status)),
		attribute.Int(observability.AttrRunIteration, result.Iterations),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, string(result.Status))
	}

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		metrics.RecordAgentRun(ctx, string(result.Status), result.Iterations, duration)
	}

	slog.Debug("Agent run finished",
		"status", result.Status,
		"iterations", result.Iterations,
		"duration", duration,
	)

	if err != nil {
		return nil, err
	}
	return result, nil
}
