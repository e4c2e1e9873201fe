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

package core

import (
	"fmt"
	"slices"
)

// ValidateChunkingOptions validates ChunkingOptions according to domain rules.
//
// Validation rules:
//   - ChunkSize must be greater than zero
//   - Overlap must be zero or positive and strictly smaller than ChunkSize
//   - Strategy must be a known strategy name
//   - DocumentType must be a known document type
//
// Defaults are NOT applied here; call WithDefaults first when fields may be omitted.
func ValidateChunkingOptions(opts ChunkingOptions) error {
	if opts.ChunkSize <= 0 {
		return fmt.Errorf("%w: %w: got %d", ErrConfiguration, ErrInvalidChunkSize, opts.ChunkSize)
	}

	if opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		return fmt.Errorf("%w: %w: overlap %d, chunk size %d",
			ErrConfiguration, ErrInvalidOverlap, opts.Overlap, opts.ChunkSize)
	}

	if !slices.Contains(strategies, opts.Strategy) {
		return fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnknownStrategy, opts.Strategy)
	}

	if !slices.Contains(documentTypes, opts.DocumentType) {
		return fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnknownDocumentType, opts.DocumentType)
	}

	return nil
}

// ValidateStorageRecord validates a StorageRecord before it is persisted.
//
// Validation rules:
//   - DocumentID must not be empty
//   - Content must not be empty
//   - Embedding must not be empty
//
// NOT validated:
//   - Scope, BusinessID, DatasetID (resolved by the caller)
//   - InsertedAt (stamped by the store)
func ValidateStorageRecord(record *StorageRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyDocumentID)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyContent)
	}

	if len(record.Embedding) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyEmbedding)
	}

	return nil
}
