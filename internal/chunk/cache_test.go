package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheBound(t *testing.T) {
	const capacity = 8
	c := NewCache(capacity, testChunkSize, 12)
	for i := 0; i < capacity*3; i++ {
		c.Planes(Key{i, 0, 0})
		assert.LessOrEqual(t, c.Len(), capacity)
	}
	assert.Equal(t, capacity, c.Len())
	assert.Equal(t, capacity*3, c.Misses())
}

func TestCacheEvictsLeastRecentlyTouched(t *testing.T) {
	c := NewCache(3, testChunkSize, 12)
	a, b, d := Key{1, 0, 0}, Key{2, 0, 0}, Key{3, 0, 0}
	c.Planes(a)
	c.Planes(b)
	c.Planes(d)

	// Touch a so b becomes the oldest.
	c.Planes(a)
	c.Planes(Key{4, 0, 0})

	assert.True(t, c.Contains(a))
	assert.False(t, c.Contains(b))
	assert.True(t, c.Contains(d))
	assert.Equal(t, 4, c.Misses())
}

func TestCacheHitReturnsSameLayout(t *testing.T) {
	c := NewCache(4, testChunkSize, 12)
	k := Key{5, -5, 5}
	first := c.Planes(k)
	second := c.Planes(k)
	require.Len(t, second, PlanesPerChunk)
	assert.Same(t, &first[0], &second[0], "hit serves the cached slice")
	assert.Equal(t, 1, c.Misses())
	assert.Equal(t, GeneratePlanes(k, testChunkSize, 12), second)
}

func TestCachePurge(t *testing.T) {
	c := NewCache(0, testChunkSize, 12)
	c.Planes(Key{})
	c.Purge()
	assert.Zero(t, c.Len())
	assert.False(t, c.Contains(Key{}))
}
