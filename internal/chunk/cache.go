package chunk

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of chunk layouts kept when no size is configured.
const DefaultCacheSize = 256

// Cache memoises GeneratePlanes for one chunk size and catalog size. Generation is cheap, so the
// cache only saves work when the camera moves back and forth over the same chunks.
// Like the rest of the scene it is owned by a single render goroutine.
type Cache struct {
	size       float32
	mediaCount int
	layouts    *lru.Cache[string, []PlaneData]
	misses     int
}

// NewCache returns a cache holding at most capacity layouts (DefaultCacheSize when capacity <= 0).
func NewCache(capacity int, size float32, mediaCount int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	layouts, err := lru.New[string, []PlaneData](capacity)
	if err != nil {
		// Only returned for a non-positive size, which is ruled out above.
		panic(err)
	}
	return &Cache{size: size, mediaCount: mediaCount, layouts: layouts}
}

// Planes returns the layout of chunk k, generating and inserting it on a miss. A hit marks k as
// most recently used; an insert beyond capacity evicts the least recently used layout.
// The returned slice is shared and must not be modified.
func (c *Cache) Planes(k Key) []PlaneData {
	key := k.String()
	if planes, ok := c.layouts.Get(key); ok {
		return planes
	}
	c.misses++
	planes := GeneratePlanes(k, c.size, c.mediaCount)
	c.layouts.Add(key, planes)
	return planes
}

// Contains reports whether k's layout is cached without touching its recency.
func (c *Cache) Contains(k Key) bool {
	return c.layouts.Contains(k.String())
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	return c.layouts.Len()
}

// Misses returns how many layouts have been generated so far.
func (c *Cache) Misses() int {
	return c.misses
}

// Purge drops every cached layout.
func (c *Cache) Purge() {
	c.layouts.Purge()
}

// ChunkSize returns the world size of one chunk.
func (c *Cache) ChunkSize() float32 {
	return c.size
}

// MediaCount returns the catalog size the layouts were generated for.
func (c *Cache) MediaCount() int {
	return c.mediaCount
}
