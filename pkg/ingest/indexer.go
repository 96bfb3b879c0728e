// Package ingest loads the raw corpora, splits them into chunks and builds
// the vector index the retrieval tools search.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/config"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/embedders"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/vector"
)

type Indexer struct {
	embedder embedders.EmbedderProvider
	store    vector.Provider
}

func NewIndexer(embedder embedders.EmbedderProvider, store vector.Provider) *Indexer {
	return &Indexer{embedder: embedder, store: store}
}

// IngestCorpus chunks one corpus file and indexes every chunk. A collection
// that already holds documents is left untouched unless force is set.
// Returns the number of chunks indexed.
func (ix *Indexer) IngestCorpus(ctx context.Context, collection string, cfg *config.CorpusConfig, force bool) (int, error) {
	count, err := ix.store.Count(ctx, collection)
	if err == nil && count > 0 {
		if !force {
			slog.Info("Collection already populated, skipping",
				"collection", collection, "documents", count)
			return 0, nil
		}
		if err := ix.store.DeleteCollection(ctx, collection); err != nil {
			return 0, fmt.Errorf("failed to reset collection %s: %w", collection, err)
		}
	}

	raw, err := os.ReadFile(cfg.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus %s: %w", cfg.Path, err)
	}

	splitter, err := NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap, cfg.Separators)
	if err != nil {
		return 0, fmt.Errorf("invalid chunking config for %s: %w", collection, err)
	}

	chunks := splitter.Split(string(raw))
	if len(chunks) == 0 {
		return 0, fmt.Errorf("corpus %s produced no chunks", cfg.Path)
	}

	if err := ix.store.CreateCollection(ctx, collection, ix.embedder.GetDimension()); err != nil {
		return 0, fmt.Errorf("failed to create collection %s: %w", collection, err)
	}

	slog.Info("Indexing corpus",
		"collection", collection, "path", cfg.Path, "chunks", len(chunks))

	for i, chunk := range chunks {
		embedding, err := ix.embedder.Embed(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d of %s: %w", i, collection, err)
		}

		metadata := map[string]any{
			"content":     chunk,
			"source":      cfg.Path,
			"chunk_index": i,
		}
		if err := ix.store.Upsert(ctx, collection, uuid.NewString(), embedding, metadata); err != nil {
			return 0, fmt.Errorf("failed to index chunk %d of %s: %w", i, collection, err)
		}
	}

	return len(chunks), nil
}

// IngestAll processes every configured corpus in name order.
func (ix *Indexer) IngestAll(ctx context.Context, corpora map[string]*config.CorpusConfig, force bool) error {
	names := make([]string, 0, len(corpora))
	for name := range corpora {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		indexed, err := ix.IngestCorpus(ctx, name, corpora[name], force)
		if err != nil {
			return err
		}
		if indexed > 0 {
			slog.Info("Corpus indexed", "collection", name, "chunks", indexed)
		}
	}
	return nil
}
