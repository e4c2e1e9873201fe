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

// Package docingest wires chunk storage, an embedding provider and the
// ingestion pipeline together behind a single Database handle.
package docingest

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/ai/hash"
	"github.com/poiesic/docingest/ai/openai"
	"github.com/poiesic/docingest/ingestion"
	"github.com/poiesic/docingest/reembed"
	"github.com/poiesic/docingest/storage"
	"github.com/poiesic/docingest/storage/badger"
)

type Database struct {
	backend  *badger.Backend
	repo     storage.ChunkRepository
	provider ai.Provider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig selects the embedding provider from cfg.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider uses an existing provider instead of building one from config.
// The Database takes ownership and closes it.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory. The file path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewProvider builds the embedding provider named by cfg.Provider.
func NewProvider(cfg *ai.Config) (ai.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return openai.NewProvider(cfg)
	case ai.ProviderHash:
		return hash.NewProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown Provider %q", ai.ErrInvalidConfig, cfg.Provider)
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Create provider first so a bad config leaves nothing open
	provider := options.provider
	if provider == nil {
		var err error
		provider, err = NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		provider.Close()
		return nil, err
	}

	// Create chunk repository
	repo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		provider.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		repo:     repo,
		provider: provider,
		logger:   slog.Default().With("component", "database"),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.repo
}

func (db *Database) Embedder() ai.Embedder {
	return db.provider.Embedder()
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.repo, db.provider.Embedder(), opts...)
}

// NewReembedder re-embeds stored chunks with embedder, or with the database's
// own embedder when embedder is nil.
func (db *Database) NewReembedder(embedder ai.Embedder, config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	if embedder == nil {
		embedder = db.provider.Embedder()
	}
	return reembed.NewReembedder(db.repo, embedder, config, progress)
}
