// Package stream decides which chunks are mounted around the camera. Requests carry the camera's
// current chunk; the newest request wins and is applied at most once per throttle interval, the
// interval growing with forward speed so fast travel does not churn chunks it will leave anyway.
package stream

import (
	"cmp"
	"slices"
	"time"

	"pixels/internal/chunk"

	"github.com/chewxy/math32"
	"golang.org/x/time/rate"
)

// Throttle intervals by forward speed (|velocity.z| in world units per frame).
const (
	IdleInterval       = 100 * time.Millisecond
	ZoomInterval       = 400 * time.Millisecond
	FastZoomInterval   = 500 * time.Millisecond
	HyperZoomInterval  = 600 * time.Millisecond
	zoomThreshold      = 0.05
	fastZoomThreshold  = 1.0
	hyperZoomThreshold = 2.0
)

// ThrottleInterval returns the minimum time between two visible-set updates at forward speed vz.
func ThrottleInterval(vz float32) time.Duration {
	switch s := math32.Abs(vz); {
	case s <= zoomThreshold:
		return IdleInterval
	case s <= fastZoomThreshold:
		return ZoomInterval
	case s <= hyperZoomThreshold:
		return FastZoomInterval
	default:
		return HyperZoomInterval
	}
}

// Manager holds the visible chunk set and the latest requested center.
type Manager struct {
	maxDist  int
	offsets  []chunk.Key
	limiter  *rate.Limiter
	interval time.Duration

	pending    chunk.Key
	hasPending bool
	center     chunk.Key
	hasCenter  bool
	visible    []chunk.Key
	updates    int
}

// New returns a Manager that keeps every chunk within renderDistance+fadeMargin (Chebyshev) of
// the center mounted. The first request is applied immediately.
func New(renderDistance, fadeMargin int) *Manager {
	maxDist := max(renderDistance+fadeMargin, 0)
	return &Manager{
		maxDist:  maxDist,
		offsets:  Offsets(maxDist),
		limiter:  rate.NewLimiter(rate.Every(IdleInterval), 1),
		interval: IdleInterval,
	}
}

// Request records center as the chunk the camera is in. Only the most recent request is kept.
// velocityZ selects the throttle interval for the next flush.
func (m *Manager) Request(center chunk.Key, velocityZ float32, now time.Time) {
	if iv := ThrottleInterval(velocityZ); iv != m.interval {
		m.interval = iv
		m.limiter.SetLimitAt(now, rate.Every(iv))
	}
	if m.hasCenter && center == m.center {
		// Back where we already are: a stale pending move must not be applied later.
		m.hasPending = false
		return
	}
	m.pending = center
	m.hasPending = true
}

// Flush applies the pending center if the throttle allows it, recomputing the whole visible set
// around it. It returns the visible set and whether it changed.
func (m *Manager) Flush(now time.Time) ([]chunk.Key, bool) {
	if !m.hasPending {
		return m.visible, false
	}
	if !m.limiter.AllowN(now, 1) {
		return m.visible, false
	}
	m.center = m.pending
	m.hasCenter = true
	m.hasPending = false
	m.visible = m.around(m.center)
	m.updates++
	return m.visible, true
}

// Visible returns the current visible set, nearest chunks first.
func (m *Manager) Visible() []chunk.Key {
	return m.visible
}

// Center returns the chunk the visible set is built around.
func (m *Manager) Center() (chunk.Key, bool) {
	return m.center, m.hasCenter
}

// Pending reports whether a request is waiting for the throttle.
func (m *Manager) Pending() bool {
	return m.hasPending
}

// Interval returns the throttle interval currently in force.
func (m *Manager) Interval() time.Duration {
	return m.interval
}

// Updates returns how many times the visible set has been recomputed.
func (m *Manager) Updates() int {
	return m.updates
}

// MaxDistance returns the Chebyshev radius of the visible set.
func (m *Manager) MaxDistance() int {
	return m.maxDist
}

func (m *Manager) around(center chunk.Key) []chunk.Key {
	out := make([]chunk.Key, 0, len(m.offsets))
	for _, o := range m.offsets {
		out = append(out, chunk.Key{X: center.X + o.X, Y: center.Y + o.Y, Z: center.Z + o.Z})
	}
	return out
}

// Offsets returns every offset with Chebyshev length <= maxDist, nearest first. For a cube this is
// all (2*maxDist+1)^3 offsets; the distance filter is what makes the shell a cube and not a sphere.
func Offsets(maxDist int) []chunk.Key {
	var origin chunk.Key
	out := make([]chunk.Key, 0, (2*maxDist+1)*(2*maxDist+1)*(2*maxDist+1))
	for x := -maxDist; x <= maxDist; x++ {
		for y := -maxDist; y <= maxDist; y++ {
			for z := -maxDist; z <= maxDist; z++ {
				o := chunk.Key{X: x, Y: y, Z: z}
				if o.Chebyshev(origin) <= maxDist {
					out = append(out, o)
				}
			}
		}
	}
	slices.SortStableFunc(out, func(a, b chunk.Key) int {
		return cmp.Compare(a.Chebyshev(origin), b.Chebyshev(origin))
	})
	return out
}

// Diff returns the keys present in next but not prev (to mount) and in prev but not next (to unmount).
func Diff(prev, next []chunk.Key) (mount, unmount []chunk.Key) {
	in := make(map[chunk.Key]bool, len(prev))
	for _, k := range prev {
		in[k] = true
	}
	keep := make(map[chunk.Key]bool, len(next))
	for _, k := range next {
		keep[k] = true
		if !in[k] {
			mount = append(mount, k)
		}
	}
	for _, k := range prev {
		if !keep[k] {
			unmount = append(unmount, k)
		}
	}
	return mount, unmount
}
