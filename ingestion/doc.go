// Package ingestion turns raw documents into stored, embedded chunks.
//
// The Pipeline type runs the ingestion workflow for one document:
//   - Splitting content into overlapping chunks with the chunk assembler
//   - Embedding every chunk text in a single batch call
//   - Handing the resulting records to the chunk store in one call
//
// Each document is processed synchronously. BatchProcessDocuments fans
// independent documents out over a worker pool and reports a result per
// document, so one failure never aborts its siblings.
package ingestion
