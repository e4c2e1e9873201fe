package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/chunking"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/storage"
)

// Pipeline orchestrates chunking, embedding and storage of documents.
// It holds no per-document state, so one Pipeline can serve concurrent callers.
type Pipeline struct {
	store     storage.ChunkStore
	embedder  ai.Embedder
	assembler *chunking.Assembler
	pool      *ants.Pool
	timeout   time.Duration // Per-document timeout; zero disables it
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size used by BatchProcessDocuments.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithAssembler sets the chunk assembler.
// Default is an assembler using the heuristic token counter.
func WithAssembler(assembler *chunking.Assembler) Option {
	return func(p *Pipeline) error {
		p.assembler = assembler
		return nil
	}
}

// WithDocumentTimeout bounds the time spent on a single document.
// Zero or a negative duration disables the timeout.
func WithDocumentTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout < 0 {
			timeout = 0
		}
		p.timeout = timeout
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store storage.ChunkStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrChunkStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:    store,
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.logger = p.logger.With("component", "ingestion")
	if p.assembler == nil {
		p.assembler = chunking.NewAssembler(chunking.WithLogger(p.logger))
	}

	return p, nil
}

// IngestOptions holds the per-document ingestion parameters.
// Zero-valued chunking fields fall back to their defaults; an empty Scope
// becomes core.DefaultScope.
type IngestOptions struct {
	Chunking   core.ChunkingOptions
	Scope      string
	BusinessID string   // Optional tenant identifier
	DatasetID  string   // Optional dataset identifier
	AgentKeys  []string // Optional routing tags copied onto every record
}

// Result reports the outcome of ingesting one document.
type Result struct {
	DocumentID string
	ChunkCount int
}

// ProcessDocument chunks, embeds and stores a single document.
//
// Configuration errors are returned before the store is called. Empty or
// whitespace-only content is not an error: the store receives an empty record
// list, which clears any chunks previously stored for documentID. Store
// errors are returned unchanged and never retried.
func (p *Pipeline) ProcessDocument(ctx context.Context, documentID, content string, opts *IngestOptions) (*Result, error) {
	if documentID == "" {
		return nil, ErrEmptyDocumentID
	}
	if opts == nil {
		opts = &IngestOptions{}
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	chunkingOpts := opts.Chunking.WithDefaults()
	chunks, err := p.assembler.Chunk(content, chunkingOpts)
	if err != nil {
		return nil, err
	}

	records, err := p.buildRecords(ctx, documentID, chunks, chunkingOpts.DocumentType, opts)
	if err != nil {
		return nil, err
	}

	if err := p.store.StoreChunks(ctx, documentID, records); err != nil {
		p.logger.Error("error storing chunks", "document", documentID, "chunks", len(records), "err", err)
		return nil, err
	}

	p.logger.Info("ingested document", "document", documentID, "chunks", len(records))
	return &Result{DocumentID: documentID, ChunkCount: len(records)}, nil
}

// buildRecords embeds the chunk texts and builds one storage record per chunk.
func (p *Pipeline) buildRecords(ctx context.Context, documentID string, chunks []core.Chunk,
	documentType core.DocumentType, opts *IngestOptions) ([]*core.StorageRecord, error) {
	if len(chunks) == 0 {
		return []*core.StorageRecord{}, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	p.logger.Debug("generating embeddings for chunks", "document", documentID, "chunks", len(texts))
	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		p.logger.Error("error generating embeddings", "document", documentID, "err", err)
		return nil, fmt.Errorf("embedding document %q: %w", documentID, err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(chunks), len(embeddings))
	}

	scope := opts.Scope
	if scope == "" {
		scope = core.DefaultScope
	}

	records := make([]*core.StorageRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = &core.StorageRecord{
			Id:           core.RecordID(documentID, chunk.Index, chunk.Text),
			DocumentID:   documentID,
			Index:        chunk.Index,
			Content:      chunk.Text,
			Embedding:    embeddings[i],
			Meta:         chunk.Meta,
			DocumentType: documentType,
			Scope:        scope,
			BusinessID:   opts.BusinessID,
			DatasetID:    opts.DatasetID,
			AgentKeys:    slices.Clone(opts.AgentKeys),
		}
	}
	return records, nil
}

// Release releases the worker pool.
// The pipeline should not be used for batches after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
