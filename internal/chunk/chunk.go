// Package chunk addresses world space as a grid of cubes and derives, for any cube, a small fixed
// set of media planes from a seeded hash of its coordinates.
package chunk

import (
	"fmt"
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PlanesPerChunk is the number of planes every chunk owns.
const PlanesPerChunk = 5

// DefaultSize is the side of a chunk in world units.
const DefaultSize = 110

const (
	minPlaneSize   = 12
	planeSizeRange = 8
	// Raw media indices are drawn from [0, mediaIndexRange) and reduced modulo the catalog size at
	// render time, so a layout survives small changes in catalog length.
	mediaIndexRange = 1_000_000
	dedupeAttempts  = 10
	planeSeedStride = 1000
)

// Key identifies one chunk by integer grid coordinates.
type Key struct {
	X, Y, Z int
}

// String returns "x,y,z". It is the hash input and the cache key, so it must never change.
func (k Key) String() string {
	return strconv.Itoa(k.X) + "," + strconv.Itoa(k.Y) + "," + strconv.Itoa(k.Z)
}

// Origin returns the world position of the chunk's minimum corner.
func (k Key) Origin(size float32) rl.Vector3 {
	return rl.NewVector3(float32(k.X)*size, float32(k.Y)*size, float32(k.Z)*size)
}

// Chebyshev returns the largest per-axis distance between two keys.
func (k Key) Chebyshev(o Key) int {
	return max(abs(k.X-o.X), abs(k.Y-o.Y), abs(k.Z-o.Z))
}

// KeyAt returns the key of the chunk containing world position p.
func KeyAt(p rl.Vector3, size float32) Key {
	return Key{
		X: int(math.Floor(float64(p.X / size))),
		Y: int(math.Floor(float64(p.Y / size))),
		Z: int(math.Floor(float64(p.Z / size))),
	}
}

// PlaneData is one generated plane placement. It is never mutated after generation.
type PlaneData struct {
	ID         string
	Chunk      Key
	Position   rl.Vector3
	Scale      rl.Vector3
	MediaIndex int
}

// Media returns the catalog index this plane shows for a catalog of mediaCount items.
func (p PlaneData) Media(mediaCount int) int {
	if mediaCount <= 0 {
		return 0
	}
	return p.MediaIndex % mediaCount
}

// GeneratePlanes derives the planes of chunk k. It is a pure function of (k, size, mediaCount):
// revisiting a chunk always yields the same layout.
//
// Media indices are re-rolled up to dedupeAttempts times to avoid repeating an index (modulo
// mediaCount) inside the chunk. With fewer than PlanesPerChunk items repeats are unavoidable and
// the last roll is kept.
func GeneratePlanes(k Key, size float32, mediaCount int) []PlaneData {
	seed := float64(HashString(k.String()))
	origin := k.Origin(size)
	planes := make([]PlaneData, 0, PlanesPerChunk)
	used := make(map[int]bool, PlanesPerChunk)

	for i := 0; i < PlanesPerChunk; i++ {
		s := seed + float64(i*planeSeedStride)
		planeSize := float32(minPlaneSize + SeededRandom(s)*planeSizeRange)
		pos := rl.NewVector3(
			origin.X+float32(SeededRandom(s+1))*size,
			origin.Y+float32(SeededRandom(s+2))*size,
			origin.Z+float32(SeededRandom(s+3))*size,
		)

		idx := int(SeededRandom(s+4) * mediaIndexRange)
		if mediaCount > 0 {
			for attempt := 0; attempt < dedupeAttempts && used[idx%mediaCount]; attempt++ {
				idx = int(SeededRandom(s+5+float64(attempt)) * mediaIndexRange)
			}
			used[idx%mediaCount] = true
		}

		planes = append(planes, PlaneData{
			ID:         fmt.Sprintf("%s#%d", k, i),
			Chunk:      k,
			Position:   pos,
			Scale:      rl.NewVector3(planeSize, planeSize, 1),
			MediaIndex: idx,
		})
	}
	return planes
}

// HashString is a 31-multiplier rolling hash over s, wrapped to 32 bits, returned as a
// non-negative value.
func HashString(s string) int64 {
	var h int32
	for _, c := range s {
		h = h*31 + int32(c)
	}
	return abs64(int64(h))
}

// SeededRandom maps n to a pseudo-random value in [0, 1) via the fractional part of sin(n)*10000.
func SeededRandom(n float64) float64 {
	x := math.Sin(n) * 10000
	return x - math.Floor(x)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
