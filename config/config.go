// Package config loads docingest command-line configuration.
//
// Values are resolved in order: built-in defaults, then a TOML file, then
// DOCINGEST_* environment variables. Command-line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/textmetrics"
)

// DefaultPath is the config file read when no path is given.
// A missing default file is not an error.
const DefaultPath = "docingest.toml"

// ErrInvalidConfig indicates a malformed configuration value.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Ingest    IngestConfig    `toml:"ingest"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type EmbeddingConfig struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	Host              string  `toml:"host"`
	APIKey            string  `toml:"api_key"`
	Dimensions        int     `toml:"dimensions"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type ChunkingConfig struct {
	ChunkSize int    `toml:"chunk_size"`
	Overlap   int    `toml:"overlap"`
	Strategy  string `toml:"strategy"`
	Tokenizer string `toml:"tokenizer"` // "heuristic" or a tiktoken encoding/model name
}

type IngestConfig struct {
	Scope      string   `toml:"scope"`
	BusinessID string   `toml:"business_id"`
	DatasetID  string   `toml:"dataset_id"`
	AgentKeys  []string `toml:"agent_keys"`
	PoolSize   int      `toml:"pool_size"`
	Timeout    string   `toml:"timeout"` // Go duration, empty disables
}

// Default returns a Config with all defaults applied.
func Default() Config {
	aiDefaults := ai.DefaultConfig()
	return Config{
		Database: DatabaseConfig{Path: "docingest_db"},
		Embedding: EmbeddingConfig{
			Provider:   string(aiDefaults.Provider),
			Model:      aiDefaults.EmbeddingModel,
			Host:       aiDefaults.EmbeddingHost,
			Dimensions: aiDefaults.Dimensions,
		},
		Chunking: ChunkingConfig{
			ChunkSize: core.DefaultChunkSize,
			Overlap:   core.DefaultOverlap,
			Strategy:  string(core.StrategyAuto),
			Tokenizer: "heuristic",
		},
		Ingest: IngestConfig{Scope: core.DefaultScope},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
// An empty path reads DefaultPath if it exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, err
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"DOCINGEST_DB_PATH":            &cfg.Database.Path,
		"DOCINGEST_EMBEDDING_PROVIDER": &cfg.Embedding.Provider,
		"DOCINGEST_EMBEDDING_MODEL":    &cfg.Embedding.Model,
		"DOCINGEST_EMBEDDING_HOST":     &cfg.Embedding.Host,
		"DOCINGEST_EMBEDDING_API_KEY":  &cfg.Embedding.APIKey,
		"DOCINGEST_STRATEGY":           &cfg.Chunking.Strategy,
		"DOCINGEST_TOKENIZER":          &cfg.Chunking.Tokenizer,
		"DOCINGEST_SCOPE":              &cfg.Ingest.Scope,
		"DOCINGEST_BUSINESS_ID":        &cfg.Ingest.BusinessID,
		"DOCINGEST_DATASET_ID":         &cfg.Ingest.DatasetID,
		"DOCINGEST_TIMEOUT":            &cfg.Ingest.Timeout,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"DOCINGEST_EMBEDDING_DIMENSIONS": &cfg.Embedding.Dimensions,
		"DOCINGEST_CHUNK_SIZE":           &cfg.Chunking.ChunkSize,
		"DOCINGEST_OVERLAP":              &cfg.Chunking.Overlap,
		"DOCINGEST_POOL_SIZE":            &cfg.Ingest.PoolSize,
	}
	for name, dst := range ints {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, name, v)
		}
		*dst = n
	}

	if v := os.Getenv("DOCINGEST_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: DOCINGEST_REQUESTS_PER_SECOND=%q is not a number", ErrInvalidConfig, v)
		}
		cfg.Embedding.RequestsPerSecond = rps
	}

	if v := os.Getenv("DOCINGEST_AGENT_KEYS"); v != "" {
		cfg.Ingest.AgentKeys = SplitList(v)
	}
	return nil
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// AIConfig converts the embedding section into an ai.Config.
func (c Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(ai.ProviderKind(c.Embedding.Provider)),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithAPIToken(c.Embedding.APIKey),
		ai.WithDimensions(c.Embedding.Dimensions),
		ai.WithRequestsPerSecond(c.Embedding.RequestsPerSecond),
	)
}

// ChunkingOptions converts the chunking section. The document type is left
// empty for the caller to fill in per document.
func (c Config) ChunkingOptions() (core.ChunkingOptions, error) {
	strategy, err := core.ParseStrategy(c.Chunking.Strategy)
	if err != nil {
		return core.ChunkingOptions{}, err
	}
	return core.ChunkingOptions{
		ChunkSize: c.Chunking.ChunkSize,
		Overlap:   c.Chunking.Overlap,
		Strategy:  strategy,
	}, nil
}

// TokenCounter returns the counter selected by the tokenizer setting.
func (c Config) TokenCounter() (textmetrics.TokenCounter, error) {
	switch strings.ToLower(strings.TrimSpace(c.Chunking.Tokenizer)) {
	case "", "heuristic":
		return textmetrics.HeuristicCounter{}, nil
	default:
		return textmetrics.NewTiktokenCounter(c.Chunking.Tokenizer)
	}
}

// DocumentTimeout parses the ingest timeout. Empty means no timeout.
func (c Config) DocumentTimeout() (time.Duration, error) {
	if c.Ingest.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Ingest.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %w", ErrInvalidConfig, c.Ingest.Timeout, err)
	}
	return d, nil
}
