package openai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docingest/ai"
)

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(0))
	assert.Nil(t, newLimiter(-2))

	l := newLimiter(0.5)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())

	l = newLimiter(20)
	require.NotNil(t, l)
	assert.Equal(t, 20, l.Burst())
}

func TestEmbedder_WaitHonorsContext(t *testing.T) {
	e := &Embedder{limiter: newLimiter(0.001)}
	// Drain the single token.
	require.NoError(t, e.wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, e.wait(ctx))
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(&ai.Config{Provider: ai.ProviderOpenAI})
	assert.ErrorIs(t, err, ai.ErrInvalidConfig)
}

func TestNewProvider(t *testing.T) {
	// Creating the client does not contact the host.
	p, err := NewProvider(ai.NewConfig(
		ai.WithProvider(ai.ProviderOpenAI),
		ai.WithEmbeddingHost("http://127.0.0.1:1"),
		ai.WithRequestsPerSecond(2),
	))
	require.NoError(t, err)
	assert.NotNil(t, p.Embedder())
	assert.NoError(t, p.Close())
}
