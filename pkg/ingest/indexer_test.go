package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/config"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/vector"
)

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) GetDimension() int { return 3 }

func (f *fakeEmbedder) GetModelName() string { return "fake" }

func (f *fakeEmbedder) Close() error { return nil }

type memoryStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]map[string]any
	created []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[string]map[string]map[string]any)}
}

func (m *memoryStore) Upsert(ctx context.Context, collection, id string, vec []float32, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	m.docs[collection][id] = metadata
	return nil
}

func (m *memoryStore) Search(ctx context.Context, collection string, vec []float32, topK int) ([]vector.Result, error) {
	return nil, nil
}

func (m *memoryStore) Count(ctx context.Context, collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection]), nil
}

func (m *memoryStore) CreateCollection(ctx context.Context, collection string, vectorDimension int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, collection)
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	return nil
}

func (m *memoryStore) DeleteCollection(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, collection)
	return nil
}

func (m *memoryStore) Name() string { return "memory" }

func (m *memoryStore) Close() error { return nil }

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIndexer_IngestCorpus(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("Compliance rule paragraph with enough text to matter.\n\n")
	}
	path := writeCorpus(t, sb.String())

	store := newMemoryStore()
	indexer := NewIndexer(&fakeEmbedder{}, store)

	cfg := &config.CorpusConfig{Path: path, ChunkSize: 120, ChunkOverlap: 20}
	indexed, err := indexer.IngestCorpus(context.Background(), "compliance", cfg, false)
	require.NoError(t, err)
	assert.Greater(t, indexed, 1)

	count, err := store.Count(context.Background(), "compliance")
	require.NoError(t, err)
	assert.Equal(t, indexed, count)

	for _, metadata := range store.docs["compliance"] {
		assert.Equal(t, path, metadata["source"])
		assert.NotEmpty(t, metadata["content"])
	}
}

func TestIndexer_SkipsPopulatedCollection(t *testing.T) {
	path := writeCorpus(t, "some policy text")

	store := newMemoryStore()
	require.NoError(t, store.Upsert(context.Background(), "compliance", "existing", nil,
		map[string]any{"content": "old"}))

	indexer := NewIndexer(&fakeEmbedder{}, store)
	cfg := &config.CorpusConfig{Path: path, ChunkSize: 500, ChunkOverlap: 100}

	indexed, err := indexer.IngestCorpus(context.Background(), "compliance", cfg, false)
	require.NoError(t, err)
	assert.Zero(t, indexed)

	count, _ := store.Count(context.Background(), "compliance")
	assert.Equal(t, 1, count)
}

func TestIndexer_ForceReingests(t *testing.T) {
	path := writeCorpus(t, "some policy text")

	store := newMemoryStore()
	require.NoError(t, store.Upsert(context.Background(), "compliance", "existing", nil,
		map[string]any{"content": "old"}))

	indexer := NewIndexer(&fakeEmbedder{}, store)
	cfg := &config.CorpusConfig{Path: path, ChunkSize: 500, ChunkOverlap: 100}

	indexed, err := indexer.IngestCorpus(context.Background(), "compliance", cfg, true)
	require.NoError(t, err)
	assert.Equal(t, 1, indexed)

	count, _ := store.Count(context.Background(), "compliance")
	assert.Equal(t, 1, count)
}

func TestIndexer_MissingCorpusFile(t *testing.T) {
	indexer := NewIndexer(&fakeEmbedder{}, newMemoryStore())
	cfg := &config.CorpusConfig{Path: "/nonexistent/corpus.txt", ChunkSize: 500, ChunkOverlap: 100}

	_, err := indexer.IngestCorpus(context.Background(), "compliance", cfg, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read corpus")
}

func TestIndexer_IngestAll(t *testing.T) {
	compliancePath := writeCorpus(t, "policy text")
	emailsPath := writeCorpus(t, "email text")

	store := newMemoryStore()
	indexer := NewIndexer(&fakeEmbedder{}, store)

	corpora := map[string]*config.CorpusConfig{
		"compliance": {Path: compliancePath, ChunkSize: 500, ChunkOverlap: 100},
		"emails":     {Path: emailsPath, ChunkSize: 1000, ChunkOverlap: 200},
	}

	require.NoError(t, indexer.IngestAll(context.Background(), corpora, false))

	for _, collection := range []string{"compliance", "emails"} {
		count, err := store.Count(context.Background(), collection)
		require.NoError(t, err)
		assert.Equal(t, 1, count, collection)
	}
}
