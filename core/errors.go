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

import "errors"

// Configuration errors. Every specific error below is reported wrapped in
// ErrConfiguration, so callers can match either one with errors.Is.
var (
	// ErrConfiguration indicates invalid ChunkingOptions.
	ErrConfiguration = errors.New("invalid chunking configuration")

	// ErrInvalidChunkSize indicates a chunk size that is not positive.
	ErrInvalidChunkSize = errors.New("chunk size must be greater than zero")

	// ErrInvalidOverlap indicates a negative overlap or one that is not smaller than the chunk size.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and smaller than chunk size")

	// ErrUnknownStrategy indicates an unrecognized chunking strategy name.
	ErrUnknownStrategy = errors.New("unknown chunking strategy")

	// ErrUnknownDocumentType indicates an unrecognized document type.
	ErrUnknownDocumentType = errors.New("unknown document type")
)

// Record validation errors
var (
	// ErrInvalidRecord indicates a StorageRecord failed validation.
	ErrInvalidRecord = errors.New("invalid storage record")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyDocumentID indicates a missing document identifier.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrEmptyEmbedding indicates a record without an embedding vector.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")
)
