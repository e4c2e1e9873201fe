package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Document is one input of a batch.
type Document struct {
	ID      string
	Content string
	Options *IngestOptions // nil means defaults
}

// DocumentResult is the outcome of one document in a batch.
type DocumentResult struct {
	DocumentID string
	ChunkCount int
	Err        error
}

// OK reports whether the document was stored.
func (r DocumentResult) OK() bool {
	return r.Err == nil
}

// BatchResult aggregates a batch. Results are in input order.
type BatchResult struct {
	Processed int // Number of documents stored successfully
	Results   []DocumentResult
}

// Failed returns the results of documents that failed.
func (b *BatchResult) Failed() []DocumentResult {
	var failed []DocumentResult
	for _, r := range b.Results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err joins the errors of all failed documents, or returns nil.
func (b *BatchResult) Err() error {
	var errs []error
	for _, r := range b.Failed() {
		errs = append(errs, fmt.Errorf("document %q: %w", r.DocumentID, r.Err))
	}
	return errors.Join(errs...)
}

// BatchProcessDocuments processes documents independently on the worker pool.
// A failing document never aborts the others. Processed is counted once every
// document has finished.
func (p *Pipeline) BatchProcessDocuments(ctx context.Context, documents []Document) *BatchResult {
	results := make([]DocumentResult, len(documents))

	var wg sync.WaitGroup
	for i, doc := range documents {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			results[i] = p.processIsolated(ctx, doc)
		})
		if err != nil {
			wg.Done()
			results[i] = DocumentResult{DocumentID: doc.ID, Err: err}
		}
	}
	wg.Wait()

	batch := &BatchResult{Results: results}
	for _, r := range results {
		if r.OK() {
			batch.Processed++
		}
	}

	p.logger.Info("processed batch", "documents", len(documents), "processed", batch.Processed)
	return batch
}

// processIsolated runs ProcessDocument and turns a panic into a failed result.
func (p *Pipeline) processIsolated(ctx context.Context, doc Document) (result DocumentResult) {
	result.DocumentID = doc.ID
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("document processing panicked", "document", doc.ID, "panic", r)
			result.ChunkCount = 0
			result.Err = fmt.Errorf("%w: %v", ErrDocumentPanicked, r)
		}
	}()

	res, err := p.ProcessDocument(ctx, doc.ID, doc.Content, doc.Options)
	if err != nil {
		result.Err = err
		return result
	}
	result.ChunkCount = res.ChunkCount
	return result
}
