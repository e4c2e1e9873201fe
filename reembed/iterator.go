// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"errors"

	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/storage"
)

const (
	// DefaultBatchSize is the default number of chunks handed to fn at once
	DefaultBatchSize = 100
)

// ChunkIterator walks the chunks of every stored document matching a filter.
type ChunkIterator struct {
	repo      storage.ChunkRepository
	filter    storage.ManifestFilter
	batchSize int
}

// NewChunkIterator creates a new chunk iterator.
// batchSize: number of chunks per batch; values <= 0 select DefaultBatchSize
func NewChunkIterator(repo storage.ChunkRepository, filter storage.ManifestFilter, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ChunkIterator{
		repo:      repo,
		filter:    filter,
		batchSize: batchSize,
	}
}

// Count returns the number of documents and chunks the iterator will visit.
func (it *ChunkIterator) Count(ctx context.Context) (documents, chunks int, err error) {
	manifests, err := it.repo.ListManifests(ctx, it.filter)
	if err != nil {
		return 0, 0, err
	}
	for _, m := range manifests {
		chunks += m.ChunkCount
	}
	return len(manifests), chunks, nil
}

// ForEach calls fn with batches of at most batchSize chunks, in document and
// index order. A batch may span documents. Documents deleted while iterating
// are skipped. Iteration stops at the first error from fn or when ctx ends.
func (it *ChunkIterator) ForEach(ctx context.Context, fn func([]*core.StorageRecord) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	manifests, err := it.repo.ListManifests(ctx, it.filter)
	if err != nil {
		return err
	}

	batch := make([]*core.StorageRecord, 0, it.batchSize)
	for _, manifest := range manifests {
		chunks, err := it.repo.GetDocumentChunks(ctx, manifest.DocumentID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		for _, chunk := range chunks {
			batch = append(batch, chunk)
			if len(batch) < it.batchSize {
				continue
			}
			if err := fn(batch); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			batch = make([]*core.StorageRecord, 0, it.batchSize)
		}
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
