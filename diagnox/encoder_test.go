package diagnox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]string{"fever", "cough", "headache"})
	require.NoError(t, err)
	return c
}

func TestEncodeSetsSelectedPositions(t *testing.T) {
	c := testCatalog(t)
	vec := Encode(c, []string{"fever", "headache"})
	assert.Equal(t, FeatureVector{1, 0, 1}, vec)
}

func TestEncodeLengthMatchesCatalog(t *testing.T) {
	c := testCatalog(t)
	assert.Len(t, Encode(c, nil), 3)
	assert.Equal(t, FeatureVector{0, 0, 0}, Encode(c, nil))
	assert.Equal(t, FeatureVector{1, 1, 1}, Encode(c, c.Names()))
}

func TestEncodeIgnoresSelectionOrder(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, Encode(c, []string{"fever", "headache"}), Encode(c, []string{"headache", "fever"}))
	assert.Equal(t, Encode(c, []string{"fever"}), Encode(c, []string{"fever", "fever"}))
}

func TestEncodeIgnoresUnknownNames(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, Encode(c, []string{"fever"}), Encode(c, []string{"fever", "not_a_real_symptom"}))
	assert.Equal(t, FeatureVector{0, 0, 0}, Encode(c, []string{"not_a_real_symptom"}))
}

func TestDecode(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, []string{"fever", "headache"}, Decode(c, FeatureVector{1, 0, 1}))
	assert.Nil(t, Decode(c, FeatureVector{0, 0, 0}))
}
