// Package ambient draws the scene's background life: dust motes that always surround the camera
// and the atmosphere colour behind everything.
package ambient

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	DefaultDustCount  = 600
	DefaultDustRadius = 150

	dustStep      = 1.0 / 60
	dustAmplitude = 1.6
	moteSize      = 0.12
)

type mote struct {
	base  rl.Vector3
	phase float32
	speed float32
}

// Dust is a fixed pool of motes kept within radius of the camera on every axis. A mote that
// falls behind is moved by 2*radius to the far side, so the cloud never thins out.
type Dust struct {
	motes     []mote
	positions []rl.Vector3
	radius    float32
	clock     float32
	wraps     int
}

// NewDust scatters count motes in a cube of half-side radius around the origin. The same seed
// gives the same cloud.
func NewDust(count int, radius float32, seed uint64) *Dust {
	if radius <= 0 {
		radius = DefaultDustRadius
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	d := &Dust{
		motes:     make([]mote, max(count, 0)),
		positions: make([]rl.Vector3, max(count, 0)),
		radius:    radius,
	}
	for i := range d.motes {
		d.motes[i] = mote{
			base: rl.NewVector3(
				(r.Float32()*2-1)*radius,
				(r.Float32()*2-1)*radius,
				(r.Float32()*2-1)*radius,
			),
			phase: r.Float32() * 2 * math32.Pi,
			speed: 0.3 + r.Float32()*0.7,
		}
		d.positions[i] = d.motes[i].base
	}
	return d
}

// Update advances the drift by one frame and wraps motes around camera.
func (d *Dust) Update(camera rl.Vector3) {
	d.clock += dustStep
	for i := range d.motes {
		m := &d.motes[i]
		m.base.X = d.wrap(m.base.X, camera.X)
		m.base.Y = d.wrap(m.base.Y, camera.Y)
		m.base.Z = d.wrap(m.base.Z, camera.Z)
		a := d.clock*m.speed + m.phase
		d.positions[i] = rl.NewVector3(
			m.base.X+math32.Sin(a)*dustAmplitude,
			m.base.Y+math32.Cos(a*0.8)*dustAmplitude,
			m.base.Z+math32.Sin(a*0.6)*dustAmplitude*0.5,
		)
	}
}

// wrap folds v into [center-radius, center+radius] in one step. A non-finite center leaves
// v alone; a non-finite offset puts the mote on the center.
func (d *Dust) wrap(v, center float32) float32 {
	if math32.IsInf(center, 0) || math32.IsNaN(center) {
		return v
	}
	off := v - center
	if off >= -d.radius && off <= d.radius {
		return v
	}
	d.wraps++
	span := 2 * d.radius
	off = math32.Mod(off+d.radius, span)
	if math32.IsNaN(off) {
		return center
	}
	if off < 0 {
		off += span
	}
	return center + off - d.radius
}

// Positions returns the current mote positions. The slice is reused between frames.
func (d *Dust) Positions() []rl.Vector3 {
	return d.positions
}

// Len returns the number of motes.
func (d *Dust) Len() int {
	return len(d.motes)
}

// Wraps returns how many axis wraps have happened so far.
func (d *Dust) Wraps() int {
	return d.wraps
}

// Draw renders the motes as small cubes. Must be called inside BeginMode3D.
func (d *Dust) Draw(tint rl.Color) {
	size := rl.NewVector3(moteSize, moteSize, moteSize)
	for _, p := range d.positions {
		rl.DrawCubeV(p, size, tint)
	}
}
