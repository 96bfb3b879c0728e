package reasoning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/tools"
)

func TestScratchpad_Render(t *testing.T) {
	pad := NewScratchpad()
	pad.Add(Step{
		Thought:     "check the policy",
		Action:      "policy_retriever",
		ActionInput: "limite para refeições",
		Observation: "Meals are capped at $80.",
	})
	pad.Add(Step{
		Observation: "Could not parse your response. Follow the Thought/Action format.",
	})

	rendered := pad.Render()
	assert.Equal(t, `Thought: check the policy
Action: policy_retriever
Action Input: limite para refeições
Observation: Meals are capped at $80.
Observation: Could not parse your response. Follow the Thought/Action format.
`, rendered)
}

func TestScratchpad_LastObservation(t *testing.T) {
	pad := NewScratchpad()

	_, ok := pad.LastObservation()
	assert.False(t, ok)

	pad.Add(Step{Observation: "first"})
	pad.Add(Step{Observation: "second"})

	obs, ok := pad.LastObservation()
	require.True(t, ok)
	assert.Equal(t, "second", obs)
}

func TestBuildPrompt(t *testing.T) {
	pad := NewScratchpad()
	pad.Add(Step{
		Thought:     "look at spending",
		Action:      "ledger_analysis",
		ActionInput: "resumo",
		Observation: "2 transactions total",
	})

	infos := []tools.ToolInfo{
		{Name: "policy_retriever", Description: "Searches the compliance policy."},
		{Name: "email_search", Description: "Searches internal emails."},
	}

	prompt := BuildPrompt("Quem gastou mais?", infos, pad)

	assert.Contains(t, prompt, "policy_retriever: Searches the compliance policy.")
	assert.Contains(t, prompt, "TOOL NAMES: policy_retriever, email_search")
	assert.Contains(t, prompt, "USER QUESTION: Quem gastou mais?")
	assert.Contains(t, prompt, "Observation: 2 transactions total")

	// Catalog order follows the slice order, which mirrors registration order.
	assert.Less(t,
		strings.Index(prompt, "policy_retriever:"),
		strings.Index(prompt, "email_search:"))
}

func TestBuildFinalAnswerPrompt(t *testing.T) {
	prompt := BuildFinalAnswerPrompt("Pergunta?", nil, NewScratchpad())
	assert.Contains(t, prompt, "Final Answer: <your answer>")
	assert.Contains(t, prompt, "reasoning budget")
}
