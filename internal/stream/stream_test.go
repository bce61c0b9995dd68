package stream

import (
	"testing"
	"time"

	"pixels/internal/chunk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func ms(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

func TestVisibleSetAroundOrigin(t *testing.T) {
	const renderDistance, margin = 2, 1
	m := New(renderDistance, margin)
	m.Request(chunk.Key{}, 0, t0)
	visible, changed := m.Flush(t0)
	require.True(t, changed)

	maxDist := renderDistance + margin
	side := 2*maxDist + 1
	require.Len(t, visible, side*side*side)

	want := map[chunk.Key]bool{}
	for x := -maxDist; x <= maxDist; x++ {
		for y := -maxDist; y <= maxDist; y++ {
			for z := -maxDist; z <= maxDist; z++ {
				want[chunk.Key{X: x, Y: y, Z: z}] = true
			}
		}
	}
	got := map[chunk.Key]bool{}
	for _, k := range visible {
		assert.False(t, got[k], "duplicate key %v", k)
		got[k] = true
	}
	assert.Equal(t, want, got)
	assert.Equal(t, chunk.Key{}, visible[0], "nearest chunk first")
}

func TestFlushCoalescesRequests(t *testing.T) {
	m := New(1, 0)
	a, b, c := chunk.Key{X: 1}, chunk.Key{X: 2}, chunk.Key{X: 3}

	m.Request(a, 0, t0)
	_, changed := m.Flush(t0)
	require.True(t, changed)

	m.Request(b, 0, ms(10))
	m.Request(c, 0, ms(20))
	_, changed = m.Flush(ms(30))
	assert.False(t, changed, "inside the throttle interval")
	assert.True(t, m.Pending())

	visible, changed := m.Flush(ms(110))
	require.True(t, changed)
	center, _ := m.Center()
	assert.Equal(t, c, center, "latest request wins")
	assert.Contains(t, visible, chunk.Key{X: 4})
	assert.NotContains(t, visible, chunk.Key{X: 0})
	assert.Equal(t, 2, m.Updates())
}

func TestZoomingLengthensInterval(t *testing.T) {
	m := New(1, 0)
	m.Request(chunk.Key{}, 0.5, t0)
	assert.Equal(t, ZoomInterval, m.Interval())
	_, changed := m.Flush(t0)
	require.True(t, changed)

	m.Request(chunk.Key{Z: -1}, 0.5, ms(200))
	_, changed = m.Flush(ms(200))
	assert.False(t, changed)
	_, changed = m.Flush(ms(350))
	assert.False(t, changed)
	_, changed = m.Flush(ms(450))
	assert.True(t, changed)
}

func TestRequestBackToCenterDropsPending(t *testing.T) {
	m := New(1, 0)
	m.Request(chunk.Key{}, 0, t0)
	m.Flush(t0)

	m.Request(chunk.Key{X: 1}, 0, ms(10))
	m.Request(chunk.Key{}, 0, ms(20))
	assert.False(t, m.Pending())
	_, changed := m.Flush(ms(500))
	assert.False(t, changed)
}

func TestFlushWithoutRequest(t *testing.T) {
	m := New(2, 1)
	visible, changed := m.Flush(t0)
	assert.False(t, changed)
	assert.Empty(t, visible)
	_, ok := m.Center()
	assert.False(t, ok)
}

func TestThrottleInterval(t *testing.T) {
	tests := []struct {
		vz   float32
		want time.Duration
	}{
		{0, IdleInterval},
		{0.05, IdleInterval},
		{-0.3, ZoomInterval},
		{1, ZoomInterval},
		{1.5, FastZoomInterval},
		{-2.5, HyperZoomInterval},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ThrottleInterval(tt.vz), "vz=%v", tt.vz)
	}
}

func TestOffsets(t *testing.T) {
	assert.Equal(t, []chunk.Key{{}}, Offsets(0))
	o := Offsets(2)
	require.Len(t, o, 125)
	var origin chunk.Key
	for i := 1; i < len(o); i++ {
		assert.LessOrEqual(t, o[i-1].Chebyshev(origin), o[i].Chebyshev(origin))
	}
}

func TestDiff(t *testing.T) {
	prev := []chunk.Key{{X: 0}, {X: 1}, {X: 2}}
	next := []chunk.Key{{X: 1}, {X: 2}, {X: 3}}
	mount, unmount := Diff(prev, next)
	assert.Equal(t, []chunk.Key{{X: 3}}, mount)
	assert.Equal(t, []chunk.Key{{X: 0}}, unmount)

	mount, unmount = Diff(nil, prev)
	assert.Equal(t, prev, mount)
	assert.Empty(t, unmount)
}
