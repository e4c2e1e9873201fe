package storage

import (
	"context"

	"github.com/poiesic/docingest/core"
)

// ChunkStore persists the chunk records of one document.
// Implementations must be thread-safe and support concurrent access.
type ChunkStore interface {
	// StoreChunks persists records for documentID atomically.
	// The new records replace every chunk previously stored for the document;
	// an empty list removes the document. Failures are reported wrapped in
	// ErrWriteFailed and leave the previous state untouched.
	StoreChunks(ctx context.Context, documentID string, records []*core.StorageRecord) error
}

// ManifestFilter selects documents by their tags. Empty fields match anything.
type ManifestFilter struct {
	Scope      string
	BusinessID string
	DatasetID  string
}

// Matches reports whether m satisfies the filter.
func (f ManifestFilter) Matches(m *core.DocumentManifest) bool {
	if f.Scope != "" && f.Scope != m.Scope {
		return false
	}
	if f.BusinessID != "" && f.BusinessID != m.BusinessID {
		return false
	}
	if f.DatasetID != "" && f.DatasetID != m.DatasetID {
		return false
	}
	return true
}

// ChunkRepository is a ChunkStore that can also read back and maintain what it stored.
type ChunkRepository interface {
	ChunkStore

	// GetDocumentChunks returns the chunks of a document ordered by index.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocumentChunks(ctx context.Context, documentID string) ([]*core.StorageRecord, error)

	// GetManifest returns the manifest of a document.
	// Returns ErrNotFound if the document doesn't exist.
	GetManifest(ctx context.Context, documentID string) (*core.DocumentManifest, error)

	// ListManifests returns the manifests matching filter ordered by document ID.
	ListManifests(ctx context.Context, filter ManifestFilter) ([]*core.DocumentManifest, error)

	// UpdateChunkEmbeddings replaces the embeddings of existing chunks, matched
	// by DocumentID and Index. Only Embedding is written; other fields keep
	// their stored values. Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunkEmbeddings(ctx context.Context, records ...*core.StorageRecord) error

	// DeleteDocument removes a document and all of its chunks.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, documentID string) error

	// Close closes the repository and releases resources.
	Close() error
}
