package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docingest/ai/hash"
)

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
		want  []float32
	}{
		{name: "already unit", input: []float32{0, 1, 0}, want: []float32{0, 1, 0}},
		{name: "pythagorean", input: []float32{3, 4}, want: []float32{0.6, 0.8}},
		{name: "negative", input: []float32{-2, 0}, want: []float32{-1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.input)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-6)
			}
		})
	}
}

func TestNormalizeVector_HashEmbedding(t *testing.T) {
	v := hash.Vector("some chunk of text", 256)
	n := NormalizeVector(v)

	assert.InDelta(t, 1.0, magnitude(n), 1e-5)
	// Input is left untouched.
	assert.Equal(t, hash.Vector("some chunk of text", 256), v)
}

func TestNormalizeVector_Degenerate(t *testing.T) {
	assert.Empty(t, NormalizeVector(nil))
	assert.Equal(t, []float32{0, 0, 0}, NormalizeVector([]float32{0, 0, 0}))
}
