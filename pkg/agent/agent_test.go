package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/tools"
)

// scriptedLLM replays canned completions in order and records every prompt
// it receives.
type scriptedLLM struct {
	completions []string
	err         error
	prompts     []string
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	idx := len(s.prompts) - 1
	if idx >= len(s.completions) {
		idx = len(s.completions) - 1
	}
	return s.completions[idx], nil
}

func (s *scriptedLLM) GetModelName() string { return "scripted" }

func (s *scriptedLLM) Close() error { return nil }

type echoTool struct {
	name string
}

func (e *echoTool) GetInfo() tools.ToolInfo {
	return tools.ToolInfo{Name: e.name, Description: "echoes its input"}
}

func (e *echoTool) GetName() string { return e.name }

func (e *echoTool) GetDescription() string { return "echoes its input" }

func (e *echoTool) Execute(ctx context.Context, input string) (tools.ToolResult, error) {
	return tools.ToolResult{Success: true, Content: "echo: " + input}, nil
}

type failingTool struct{}

func (f *failingTool) GetInfo() tools.ToolInfo {
	return tools.ToolInfo{Name: "broken", Description: "always fails"}
}

func (f *failingTool) GetName() string { return "broken" }

func (f *failingTool) GetDescription() string { return "always fails" }

func (f *failingTool) Execute(ctx context.Context, input string) (tools.ToolResult, error) {
	return tools.ToolResult{}, fmt.Errorf("disk on fire")
}

func newTestRegistry(t *testing.T, toolList ...tools.Tool) *tools.ToolRegistry {
	t.Helper()
	registry := tools.NewToolRegistry()
	for _, tool := range toolList {
		require.NoError(t, registry.RegisterTool(tool))
	}
	return registry
}

func TestRun_ImmediateFinalAnswer(t *testing.T) {
	llm := &scriptedLLM{completions: []string{
		"Thought: I already know this.\nFinal Answer: The meal limit is $80.",
	}}
	agent := New(llm, newTestRegistry(t), 10)

	result, err := agent.Run(context.Background(), "Qual o limite para refeições?")
	require.NoError(t, err)
	assert.Equal(t, StatusAnswered, result.Status)
	assert.Equal(t, "The meal limit is $80.", result.Answer)
	assert.Equal(t, 1, result.Iterations)
	assert.Len(t, llm.prompts, 1)
}

func TestRun_ToolCallThenAnswer(t *testing.T) {
	llm := &scriptedLLM{completions: []string{
		"Thought: check the ledger\nAction: echo\nAction Input: resumo por categoria",
		"Thought: done\nFinal Answer: Based on the report, travel dominates.",
	}}
	agent := New(llm, newTestRegistry(t, &echoTool{name: "echo"}), 10)

	result, err := agent.Run(context.Background(), "Qual categoria gasta mais?")
	require.NoError(t, err)
	assert.Equal(t, StatusAnswered, result.Status)
	assert.Equal(t, 2, result.Iterations)

	// The second prompt must carry the first step's observation.
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], "Observation: echo: resumo por categoria")
	assert.Contains(t, llm.prompts[1], "Action Input: resumo por categoria")

	require.Len(t, result.Steps, 1)
	assert.Equal(t, "echo", result.Steps[0].Action)
}

func TestRun_UnknownToolDoesNotTerminate(t *testing.T) {
	llm := &scriptedLLM{completions: []string{
		"Action: spreadsheet_wizard\nAction Input: whatever",
		"Final Answer: recovered.",
	}}
	agent := New(llm, newTestRegistry(t, &echoTool{name: "echo"}), 10)

	result, err := agent.Run(context.Background(), "pergunta")
	require.NoError(t, err)
	assert.Equal(t, StatusAnswered, result.Status)

	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], `Invalid tool name "spreadsheet_wizard"`)
	assert.Contains(t, llm.prompts[1], "Valid tools: echo.")
}

func TestRun_ToolFailureBecomesObservation(t *testing.T) {
	llm := &scriptedLLM{completions: []string{
		"Action: broken\nAction Input: anything",
		"Final Answer: the tool is down.",
	}}
	agent := New(llm, newTestRegistry(t, &failingTool{}), 10)

	result, err := agent.Run(context.Background(), "pergunta")
	require.NoError(t, err)
	assert.Equal(t, StatusAnswered, result.Status)

	require.Len(t, result.Steps, 1)
	assert.Contains(t, result.Steps[0].Observation, "ERROR:")
	assert.Contains(t, result.Steps[0].Observation, "disk on fire")
}

func TestRun_ParseErrorIsRecoverable(t *testing.T) {
	llm := &scriptedLLM{completions: []string{
		"I will just ramble without any markers.",
		"Final Answer: back on track.",
	}}
	agent := New(llm, newTestRegistry(t), 10)

	result, err := agent.Run(context.Background(), "pergunta")
	require.NoError(t, err)
	assert.Equal(t, StatusAnswered, result.Status)
	assert.Equal(t, "back on track.", result.Answer)

	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], "could not be parsed")
}

func TestRun_ExhaustionWithGeneratedAnswer(t *testing.T) {
	completions := make([]string, 0, 11)
	for i := 0; i < 10; i++ {
		completions = append(completions, "Action: echo\nAction Input: again")
	}
	completions = append(completions, "Final Answer: best effort from the scratchpad.")

	llm := &scriptedLLM{completions: completions}
	agent := New(llm, newTestRegistry(t, &echoTool{name: "echo"}), 10)

	result, err := agent.Run(context.Background(), "pergunta difícil")
	require.NoError(t, err)
	assert.Equal(t, StatusAnswered, result.Status)
	assert.Equal(t, "best effort from the scratchpad.", result.Answer)
	assert.Equal(t, 10, result.Iterations)

	// Ten loop iterations plus one forced final completion.
	require.Len(t, llm.prompts, 11)
	assert.Contains(t, llm.prompts[10], "reasoning budget")
}

func TestRun_ExhaustionFallsBackToLastObservation(t *testing.T) {
	// Every completion is a tool call; even the forced final one.
	llm := &scriptedLLM{completions: []string{
		"Action: echo\nAction Input: still digging",
	}}
	agent := New(llm, newTestRegistry(t, &echoTool{name: "echo"}), 10)

	result, err := agent.Run(context.Background(), "pergunta")
	require.NoError(t, err)
	assert.Equal(t, StatusExhausted, result.Status)
	assert.Equal(t, "echo: still digging", result.Answer)
	assert.Len(t, llm.prompts, 11)
}

func TestRun_NeverExceedsIterationBudget(t *testing.T) {
	llm := &scriptedLLM{completions: []string{"no markers at all"}}
	agent := New(llm, newTestRegistry(t), 3)

	result, err := agent.Run(context.Background(), "pergunta")
	require.NoError(t, err)
	assert.Equal(t, StatusExhausted, result.Status)
	// Three loop completions plus the forced final one.
	assert.Len(t, llm.prompts, 4)
}

func TestRun_TransportErrorIsFatal(t *testing.T) {
	llm := &scriptedLLM{err: fmt.Errorf("connection refused")}
	agent := New(llm, newTestRegistry(t), 10)

	result, err := agent.Run(context.Background(), "pergunta")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNew_DefaultsIterationBudget(t *testing.T) {
	agent := New(&scriptedLLM{}, newTestRegistry(t), 0)
	assert.Equal(t, DefaultMaxIterations, agent.maxIterations)
}
