package ingestion

import "errors"

var (
	// ErrChunkStoreRequired is returned when a chunk store is not provided.
	ErrChunkStoreRequired = errors.New("chunk store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyDocumentID is returned when a document has no identifier.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrEmbeddingMismatch is returned when the embedder returns a different
	// number of vectors than texts it was given.
	ErrEmbeddingMismatch = errors.New("embedding result mismatch")

	// ErrDocumentPanicked is reported for a batch document whose processing panicked.
	ErrDocumentPanicked = errors.New("document processing panicked")
)
