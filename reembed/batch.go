package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/storage"
)

// BatchProcessor computes fresh embeddings for batches of stored chunks.
type BatchProcessor struct {
	repo           storage.ChunkRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	normalize      bool
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for each embedding call
// retryBaseDelay: base delay for exponential backoff
// normalize: scale vectors to unit length before storing them
func NewBatchProcessor(repo storage.ChunkRepository, embedder ai.Embedder, maxRetries int,
	retryBaseDelay time.Duration, normalize bool) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		normalize:      normalize,
	}
}

// Process embeds the chunk contents and writes the new vectors back.
// The records passed in are not modified.
func (bp *BatchProcessor) Process(ctx context.Context, chunks []*core.StorageRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(chunks), len(embeddings))
	}

	updates := make([]*core.StorageRecord, len(chunks))
	for i, chunk := range chunks {
		vector := embeddings[i]
		if bp.normalize {
			vector = NormalizeVector(vector)
		}
		updates[i] = &core.StorageRecord{
			DocumentID: chunk.DocumentID,
			Index:      chunk.Index,
			Embedding:  vector,
		}
	}

	if err := bp.repo.UpdateChunkEmbeddings(ctx, updates...); err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}
	return nil
}
