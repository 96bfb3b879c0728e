package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/embedders"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/vector"
)

// SearchTool answers a query by semantic similarity over one indexed corpus.
// The retrieved chunks are concatenated in decreasing similarity order so the
// model sees the most relevant passage first.
type SearchTool struct {
	name        string
	description string
	collection  string
	topK        int
	embedder    embedders.EmbedderProvider
	store       vector.Provider
}

func NewSearchTool(name, description, collection string, topK int, embedder embedders.EmbedderProvider, store vector.Provider) *SearchTool {
	return &SearchTool{
		name:        name,
		description: description,
		collection:  collection,
		topK:        topK,
		embedder:    embedder,
		store:       store,
	}
}

// NewPolicyRetrieverTool searches the Dunder Mifflin compliance policy corpus.
func NewPolicyRetrieverTool(collection string, topK int, embedder embedders.EmbedderProvider, store vector.Provider) *SearchTool {
	return NewSearchTool(
		"policy_retriever",
		"Searches the Dunder Mifflin COMPLIANCE POLICY. "+
			"Use this tool to look up RULES, SPENDING LIMITS, APPROVAL THRESHOLDS, "+
			"ALLOWED CATEGORIES or any corporate norm. "+
			"Example queries: 'Qual o limite para refeições?', 'Posso gastar X reais?', "+
			"'Quem aprova despesas acima de $500?'",
		collection, topK, embedder, store,
	)
}

// NewEmailSearchTool searches the internal email corpus.
func NewEmailSearchTool(collection string, topK int, embedder embedders.EmbedderProvider, store vector.Provider) *SearchTool {
	return NewSearchTool(
		"email_search",
		"Searches the company's INTERNAL EMAILS. "+
			"Use this tool to investigate CONVERSATIONS, CONSPIRACIES, PLANS, "+
			"schemes between employees or any suspicious communication. "+
			"Example queries: 'Michael está tramando contra Toby?', "+
			"'Alguém combinou desvio de verba?', 'O que fulano disse sobre X?'",
		collection, topK, embedder, store,
	)
}

func (t *SearchTool) GetInfo() ToolInfo {
	return ToolInfo{Name: t.name, Description: t.description}
}

func (t *SearchTool) GetName() string { return t.name }

func (t *SearchTool) GetDescription() string { return t.description }

func (t *SearchTool) Execute(ctx context.Context, input string) (ToolResult, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return ToolResult{
			Success:  false,
			Error:    "search query cannot be empty",
			ToolName: t.name,
		}, nil
	}

	embedding, err := t.embedder.Embed(ctx, query)
	if err != nil {
		return ToolResult{
			Success:  false,
			Error:    fmt.Sprintf("failed to embed query: %v", err),
			ToolName: t.name,
		}, nil
	}

	results, err := t.store.Search(ctx, t.collection, embedding, t.topK)
	if err != nil {
		return ToolResult{
			Success:  false,
			Error:    fmt.Sprintf("failed to search collection %s: %v", t.collection, err),
			ToolName: t.name,
		}, nil
	}

	if len(results) == 0 {
		return ToolResult{
			Success:  true,
			Content:  fmt.Sprintf("No relevant documents found in the %s corpus for this query.", t.collection),
			ToolName: t.name,
		}, nil
	}

	var sb strings.Builder
	for i, result := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(result.Content)
	}

	return ToolResult{
		Success:  true,
		Content:  sb.String(),
		ToolName: t.name,
	}, nil
}
