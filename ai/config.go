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

package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ProviderKind selects an embedding backend.
type ProviderKind string

const (
	// ProviderHash is the deterministic, offline placeholder embedder.
	ProviderHash ProviderKind = "hash"
	// ProviderOpenAI talks to an OpenAI-compatible embedding API.
	ProviderOpenAI ProviderKind = "openai"
)

// DefaultDimensions is the embedding length produced by the hash provider.
const DefaultDimensions = 256

// ErrInvalidConfig indicates an invalid AI configuration.
var ErrInvalidConfig = errors.New("ai config")

// Config holds configuration for embedding providers.
type Config struct {
	// Provider selects the embedding backend. Default: "hash"
	Provider ProviderKind

	// Dimensions is the vector length of the hash provider.
	// Values <= 0 are normalized to DefaultDimensions.
	Dimensions int

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// APIToken authenticates against the embedding service.
	// Local OpenAI-compatible servers usually accept any value.
	APIToken string

	// RequestsPerSecond limits calls to the embedding service. 0 disables limiting.
	RequestsPerSecond float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the embedding backend.
func WithProvider(kind ProviderKind) ConfigOption {
	return func(c *Config) {
		c.Provider = kind
	}
}

// WithDimensions sets the vector length of the hash provider.
func WithDimensions(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dim
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAPIToken sets the token sent to the embedding service.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// WithRequestsPerSecond limits the request rate against the embedding service.
func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// DefaultConfig returns a Config using the hash provider.
// The OpenAI fields point at a local OpenAI-compatible server so that
// switching providers only requires WithProvider(ProviderOpenAI).
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderHash,
		Dimensions:     DefaultDimensions,
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderOpenAI),
//	    WithEmbeddingHost("http://localhost:11434"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Provider = ProviderKind(strings.ToLower(strings.TrimSpace(string(c.Provider))))
	if c.Provider == "" {
		c.Provider = ProviderHash
	}

	if c.Dimensions <= 0 {
		c.Dimensions = DefaultDimensions
	}

	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate normalizes the configuration and checks required fields.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderHash:
	case ProviderOpenAI:
		if c.EmbeddingHost == "" {
			return fmt.Errorf("%w: EmbeddingHost is required", ErrInvalidConfig)
		}
		if c.EmbeddingModel == "" {
			return fmt.Errorf("%w: EmbeddingModel is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown Provider %q", ErrInvalidConfig, c.Provider)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: RequestsPerSecond must not be negative", ErrInvalidConfig)
	}
	return nil
}
