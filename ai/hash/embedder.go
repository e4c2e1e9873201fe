// Package hash provides a deterministic, non-semantic placeholder embedder.
//
// Vectors are synthesized from a 32-bit polynomial rolling hash of the text,
// so identical text always yields bit-identical vectors and any change to the
// text changes the vector. Nothing is learned and similarity between vectors
// carries no meaning; the embedder exists for reproducible ingestion and tests.
package hash

import (
	"context"
	"log/slog"
	"math"

	"github.com/poiesic/docingest/ai"
)

// Vector returns the embedding of text with dim entries.
// Entry i is sin((h + 31*i) * 0.01), where h is the wrapping int32 rolling
// hash h = h*31 + r over the runes of text. dim <= 0 selects ai.DefaultDimensions.
func Vector(text string, dim int) []float32 {
	if dim <= 0 {
		dim = ai.DefaultDimensions
	}

	var h int32
	for _, r := range text {
		h = h*31 + r
	}

	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(int64(h)+int64(i)*31) * 0.01))
	}
	return vec
}

// Embedder implements ai.Embedder with Vector.
type Embedder struct {
	dim int
}

// New creates an Embedder producing vectors of length dim.
// dim <= 0 selects ai.DefaultDimensions.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = ai.DefaultDimensions
	}
	return &Embedder{dim: dim}
}

// Dimensions returns the vector length.
func (e *Embedder) Dimensions() int {
	return e.dim
}

// EmbedText returns Vector(text, e.Dimensions()).
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Vector(text, e.dim), nil
}

// EmbedTexts embeds every text, preserving order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = Vector(text, e.dim)
	}
	return vectors, nil
}

// Provider implements ai.Provider around an Embedder.
type Provider struct {
	embedder *Embedder
	logger   *slog.Logger
}

// NewProvider creates a hash provider from config. Only Dimensions is used.
//
// Returns ai.Provider interface for consistency with other providers.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Provider{
		embedder: New(config.Dimensions),
		logger:   slog.Default().With("component", "hash-provider"),
	}, nil
}

// Embedder returns the hash embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op.
func (p *Provider) Close() error {
	p.logger.Debug("closing hash provider")
	return nil
}

var (
	_ ai.Embedder = (*Embedder)(nil)
	_ ai.Provider = (*Provider)(nil)
)
