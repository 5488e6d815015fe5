package vectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine_SelfSimilarity(t *testing.T) {
	v := []float32{0.3, -0.5, 0.8, 0.1}

	sim, err := Cosine(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)
}

func TestCosine_LengthMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2, 3}, []float32{1, 2})
	assert.Error(t, err)
}

func TestCosine_Orthogonal(t *testing.T) {
	sim, err := Cosine([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-6)
}

func TestCosine_ZeroVector(t *testing.T) {
	sim, err := Cosine([]float32{0, 0}, []float32{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestSerialize_WireFormat(t *testing.T) {
	s := Serialize([]float32{0.5, -1, 2.25})
	// Bracketed, comma separated, no spaces
	assert.Equal(t, "[0.5,-1,2.25]", s)
}

func TestParse_RoundTrip(t *testing.T) {
	orig := []float32{0.125, -0.75, 3}

	parsed, err := Parse(Serialize(orig))
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{"", "0.1,0.2", "[0.1,abc]", "[0.1"} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParse_Empty(t *testing.T) {
	v, err := Parse("[]")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestEstimateCost(t *testing.T) {
	// 4000 chars ~ 1000 tokens
	cost := EstimateCost(string(make([]byte, 4000)), DefaultEmbeddingPricePerMillionTokens)
	assert.InDelta(t, 0.00002, cost, 1e-9)

	assert.Zero(t, EstimateCost("", DefaultEmbeddingPricePerMillionTokens))
}
