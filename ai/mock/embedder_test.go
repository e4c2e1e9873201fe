package mock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docingest/ai/hash"
)

func TestMockEmbedder_Defaults(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	v, err := m.EmbedText(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, hash.Vector("one", 0), v)

	vs, err := m.EmbedTexts(ctx, []string{"two", "three"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{hash.Vector("two", 0), hash.Vector("three", 0)}, vs)

	assert.Equal(t, 2, m.CallCount())
	assert.Equal(t, []string{"one", "two", "three"}, m.Texts())

	m.Reset()
	assert.Zero(t, m.CallCount())
	assert.Empty(t, m.Texts())
}

func TestMockEmbedder_InjectedBehavior(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockEmbedder()
	m.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, boom
	}

	_, err := m.EmbedTexts(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.CallCount())
}

func TestMockEmbedder_Concurrent(t *testing.T) {
	m := NewMockEmbedder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.EmbedTexts(context.Background(), []string{"a"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, m.CallCount())
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	mp := p.(*MockProvider)

	assert.Same(t, mp.GetMockEmbedder(), p.Embedder())
	require.NoError(t, p.Close())
	assert.True(t, mp.Closed())
}
