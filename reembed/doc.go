// Package reembed recomputes the embeddings of chunks already in storage,
// typically after switching to a different embedding model.
//
// Chunks are read document by document, embedded in batches with retry and
// exponential backoff, optionally normalized to unit length, and written back
// without touching their content or metadata.
package reembed
