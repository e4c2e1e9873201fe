package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/textmetrics"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docingest.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "hash", cfg.Embedding.Provider)
	assert.Equal(t, ai.DefaultDimensions, cfg.Embedding.Dimensions)
	assert.Equal(t, core.DefaultChunkSize, cfg.Chunking.ChunkSize)
	assert.Equal(t, core.DefaultOverlap, cfg.Chunking.Overlap)
	assert.Equal(t, core.DefaultScope, cfg.Ingest.Scope)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "/var/lib/docingest"

[embedding]
provider = "openai"
model = "text-embedding-3-small"
host = "http://localhost:8080"

[chunking]
chunk_size = 800
overlap = 0
strategy = "markdown"

[ingest]
business_id = "acme"
agent_keys = ["support", "sales"]
pool_size = 8
timeout = "30s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/docingest", cfg.Database.Path)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, 800, cfg.Chunking.ChunkSize)
	assert.Equal(t, 0, cfg.Chunking.Overlap)
	assert.Equal(t, []string{"support", "sales"}, cfg.Ingest.AgentKeys)
	assert.Equal(t, 8, cfg.Ingest.PoolSize)
	// Untouched keys keep their defaults.
	assert.Equal(t, core.DefaultScope, cfg.Ingest.Scope)

	opts, err := cfg.ChunkingOptions()
	require.NoError(t, err)
	assert.Equal(t, core.ChunkingOptions{ChunkSize: 800, Overlap: 0, Strategy: core.StrategyMarkdown}, opts)

	timeout, err := cfg.DocumentTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	aiCfg := cfg.AIConfig()
	require.NoError(t, aiCfg.Validate())
	assert.Equal(t, ai.ProviderOpenAI, aiCfg.Provider)
	assert.Equal(t, "http://localhost:8080/v1", aiCfg.EmbeddingHost)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[chunking\nchunk_size = ")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[chunking]\nchunk_size = 800\n[ingest]\ndataset_id = \"file\"\n")
	t.Setenv("DOCINGEST_CHUNK_SIZE", "500")
	t.Setenv("DOCINGEST_DATASET_ID", "env")
	t.Setenv("DOCINGEST_AGENT_KEYS", "a, b,,c")
	t.Setenv("DOCINGEST_REQUESTS_PER_SECOND", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Chunking.ChunkSize)
	assert.Equal(t, "env", cfg.Ingest.DatasetID)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Ingest.AgentKeys)
	assert.Equal(t, 2.5, cfg.Embedding.RequestsPerSecond)
}

func TestLoad_BadEnvInteger(t *testing.T) {
	t.Setenv("DOCINGEST_OVERLAP", "lots")
	_, err := Load(writeConfig(t, ""))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestChunkingOptions_UnknownStrategy(t *testing.T) {
	cfg := Default()
	cfg.Chunking.Strategy = "bogus"
	_, err := cfg.ChunkingOptions()
	assert.ErrorIs(t, err, core.ErrUnknownStrategy)
}

func TestDocumentTimeout_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Ingest.Timeout = "soon"
	_, err := cfg.DocumentTimeout()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTokenCounter_Heuristic(t *testing.T) {
	counter, err := Default().TokenCounter()
	require.NoError(t, err)
	assert.Equal(t, textmetrics.HeuristicCounter{}, counter)
}
