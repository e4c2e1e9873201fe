package docingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/ai/hash"
	"github.com/poiesic/docingest/ai/mock"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/ingestion"
	"github.com/poiesic/docingest/reembed"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.ChunkRepository())
		assert.IsType(t, &hash.Embedder{}, db.Embedder())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("error with invalid provider", func(t *testing.T) {
		db, err := NewDatabase(t.TempDir(), WithAIConfig(ai.NewConfig(ai.WithProvider("word2vec"))))
		assert.ErrorIs(t, err, ai.ErrInvalidConfig)
		assert.Nil(t, db)
	})
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(ai.NewConfig(ai.WithDimensions(16)))
	require.NoError(t, err)
	defer p.Close()
	vec, err := p.Embedder().EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, vec, 16)

	p, err = NewProvider(ai.NewConfig(ai.WithProvider(ai.ProviderOpenAI)))
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestDatabase_Close(t *testing.T) {
	provider := mock.NewMockProvider()
	db, err := NewDatabase("", WithInMemory(), WithProvider(provider))
	require.NoError(t, err)

	assert.NoError(t, db.Close())
	assert.True(t, provider.(*mock.MockProvider).Closed())
}

func TestDatabase_IngestAndReembed(t *testing.T) {
	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	pipeline, err := db.NewIngestionPipeline(ingestion.WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	result, err := pipeline.ProcessDocument(ctx, "readme",
		"# Title\n\nPara one. Para two.\n\n# Section 2\n\nMore text.",
		&ingestion.IngestOptions{Chunking: core.ChunkingOptions{ChunkSize: 40, Overlap: 5, Strategy: core.StrategyMarkdown}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ChunkCount)

	manifest, err := db.ChunkRepository().GetManifest(ctx, "readme")
	require.NoError(t, err)
	assert.Equal(t, 2, manifest.ChunkCount)

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 8
	stats, err := db.NewReembedder(embedder, &reembed.Config{BatchSize: 10, MaxRetries: 1}, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Chunks)

	chunks, err := db.ChunkRepository().GetDocumentChunks(ctx, "readme")
	require.NoError(t, err)
	assert.Len(t, chunks[0].Embedding, 8)
}
