package vector

import "context"

// Result is one similarity-search hit.
type Result struct {
	ID       string
	Score    float32
	Content  string
	Metadata map[string]any
}

// Provider is a vector index over named collections. Implementations store
// pre-computed embeddings; they never embed text themselves.
//
// After ingestion the index is read-only for the process lifetime, so
// concurrent searches from independent agent runs are safe.
type Provider interface {
	// Upsert adds or updates a document with its vector embedding.
	Upsert(ctx context.Context, collection string, id string, vector []float32, metadata map[string]any) error

	// Search returns the topK most similar documents, best first.
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]Result, error)

	// Count reports how many documents a collection holds.
	Count(ctx context.Context, collection string) (int, error)

	// CreateCollection creates an empty collection (no-op if it exists).
	CreateCollection(ctx context.Context, collection string, vectorDimension int) error

	// DeleteCollection removes a collection and all its documents.
	DeleteCollection(ctx context.Context, collection string) error

	// Name returns the provider name.
	Name() string

	// Close persists (if applicable) and releases resources.
	Close() error
}
