package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	embedErr error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) GetDimension() int { return 3 }

func (f *fakeEmbedder) GetModelName() string { return "fake-embedder" }

func (f *fakeEmbedder) Close() error { return nil }

type fakeStore struct {
	results   []vector.Result
	searchErr error

	lastCollection string
	lastTopK       int
}

func (f *fakeStore) Upsert(ctx context.Context, collection, id string, vec []float32, metadata map[string]any) error {
	return nil
}

func (f *fakeStore) Search(ctx context.Context, collection string, vec []float32, topK int) ([]vector.Result, error) {
	f.lastCollection = collection
	f.lastTopK = topK
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeStore) Count(ctx context.Context, collection string) (int, error) {
	return len(f.results), nil
}

func (f *fakeStore) CreateCollection(ctx context.Context, collection string, vectorDimension int) error {
	return nil
}

func (f *fakeStore) DeleteCollection(ctx context.Context, collection string) error {
	return nil
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) Close() error { return nil }

func TestSearchTool_ConcatenatesResultsBestFirst(t *testing.T) {
	store := &fakeStore{results: []vector.Result{
		{ID: "a", Score: 0.95, Content: "Meal expenses are capped at $80 per day."},
		{ID: "b", Score: 0.82, Content: "Expenses above $500 require VP approval."},
	}}
	tool := NewPolicyRetrieverTool("compliance", 5, &fakeEmbedder{}, store)

	result, err := tool.Execute(context.Background(), "qual o limite para refeições?")
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t,
		"Meal expenses are capped at $80 per day.\n\nExpenses above $500 require VP approval.",
		result.Content)
	assert.Equal(t, "compliance", store.lastCollection)
	assert.Equal(t, 5, store.lastTopK)
}

func TestSearchTool_NoResults(t *testing.T) {
	tool := NewEmailSearchTool("emails", 7, &fakeEmbedder{}, &fakeStore{})

	result, err := tool.Execute(context.Background(), "quem conspirou contra toby?")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Content, "No relevant documents found")
	assert.Contains(t, result.Content, "emails")
}

func TestSearchTool_EmptyQuery(t *testing.T) {
	tool := NewPolicyRetrieverTool("compliance", 5, &fakeEmbedder{}, &fakeStore{})

	result, err := tool.Execute(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "empty")
}

func TestSearchTool_FailuresBecomeResults(t *testing.T) {
	t.Run("embed error", func(t *testing.T) {
		tool := NewPolicyRetrieverTool("compliance", 5,
			&fakeEmbedder{embedErr: fmt.Errorf("connection refused")}, &fakeStore{})

		result, err := tool.Execute(context.Background(), "limites de gastos")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "failed to embed query")
	})

	t.Run("search error", func(t *testing.T) {
		tool := NewPolicyRetrieverTool("compliance", 5, &fakeEmbedder{},
			&fakeStore{searchErr: fmt.Errorf("collection missing")})

		result, err := tool.Execute(context.Background(), "limites de gastos")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "failed to search")
	})
}

func TestSearchTool_Descriptions(t *testing.T) {
	policy := NewPolicyRetrieverTool("compliance", 5, &fakeEmbedder{}, &fakeStore{})
	emails := NewEmailSearchTool("emails", 7, &fakeEmbedder{}, &fakeStore{})

	assert.Equal(t, "policy_retriever", policy.GetName())
	assert.Contains(t, policy.GetDescription(), "COMPLIANCE POLICY")
	assert.Equal(t, "email_search", emails.GetName())
	assert.Contains(t, emails.GetDescription(), "INTERNAL EMAILS")
}
