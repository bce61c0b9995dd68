// Package plane holds the per-frame visual state of one media plane (opacity, focus dim,
// parallax tilt, aspect) and the raylib renderer that draws planes.
package plane

import (
	"pixels/internal/catalog"
	"pixels/internal/chunk"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	opacityLerp = 0.18
	snapBelow   = 0.01

	// DimTarget is the rendered share of a plane while another plane is focused.
	DimTarget = 0.3
	dimLerp   = 0.06

	// VisibleAlpha and OpaqueAlpha bound the rendered alpha for drawing and depth writes.
	VisibleAlpha = 0.01
	OpaqueAlpha  = 0.99

	tiltDepth  = 80
	tiltRadius = 35
	// MaxTilt is the largest parallax tilt in radians (about 2.3 degrees).
	MaxTilt  = 0.04
	tiltLerp = 0.1

	// DefaultAspect is used until the media reports its size.
	DefaultAspect = 4.0 / 3.0
)

// GridState is the camera's chunk and raw depth, written once per frame.
type GridState struct {
	X, Y, Z int
	CamZ    float32
}

// Key returns the camera chunk.
func (g GridState) Key() chunk.Key {
	return chunk.Key{X: g.X, Y: g.Y, Z: g.Z}
}

// Source is the texture a plane draws; *media.Handle implements it.
type Source interface {
	Ready() bool
	Failed() bool
	Aspect() float32
	Texture() rl.Texture2D
}

// Frame is the shared per-frame context every plane reads.
type Frame struct {
	Grid           GridState
	RenderDistance int
	FadeMargin     int

	// Pointer is the camera ray through the pointer; only used when PointerValid.
	Pointer      rl.Ray
	PointerValid bool

	FocusActive bool
	FocusedID   string
}

// Plane is one mounted media plane.
type Plane struct {
	Data   chunk.PlaneData
	Item   catalog.MediaItem
	Handle Source

	opacity      float32
	dim          float32
	tiltX, tiltY float32
	aspect       float32
	aspectKnown  bool
}

// New returns a transparent plane for data showing item. handle may be nil until the media cache
// hands one out.
func New(data chunk.PlaneData, item catalog.MediaItem, handle Source) *Plane {
	p := &Plane{Data: data, Item: item, Handle: handle, dim: 1, aspect: DefaultAspect}
	if a := item.Aspect(); a > 0 {
		p.aspect = a
		p.aspectKnown = true
	}
	return p
}

// Update advances opacity, dim and tilt by one frame.
func (p *Plane) Update(f *Frame) {
	if !p.aspectKnown && p.Handle != nil && p.Handle.Ready() {
		if a := p.Handle.Aspect(); a > 0 {
			p.aspect = a
		}
		p.aspectKnown = true
	}

	dist := p.Data.Chunk.Chebyshev(f.Grid.Key())
	depth := p.Data.Position.Z - f.Grid.CamZ
	target := TargetOpacity(GridFade(dist, f.RenderDistance, f.FadeMargin), DepthFade(depth))
	if p.opacity < snapBelow && target < snapBelow {
		p.opacity = 0
	} else {
		p.opacity = lerp(p.opacity, target, opacityLerp)
	}

	dimTo := float32(1)
	if f.FocusActive && f.FocusedID != p.Data.ID {
		dimTo = DimTarget
	}
	p.dim = lerp(p.dim, dimTo, dimLerp)

	tx, ty := p.tiltTarget(f, depth)
	p.tiltX = lerp(p.tiltX, tx, tiltLerp)
	p.tiltY = lerp(p.tiltY, ty, tiltLerp)
}

// tiltTarget returns the rotation about x and y the plane leans toward: it turns its face
// toward a pointer hovering near its centre.
func (p *Plane) tiltTarget(f *Frame, depth float32) (float32, float32) {
	if !f.PointerValid || math32.Abs(depth) >= tiltDepth {
		return 0, 0
	}
	r := f.Pointer
	if math32.Abs(r.Direction.Z) < 1e-6 {
		return 0, 0
	}
	t := (p.Data.Position.Z - r.Position.Z) / r.Direction.Z
	if t <= 0 {
		return 0, 0
	}
	dx := r.Position.X + r.Direction.X*t - p.Data.Position.X
	dy := r.Position.Y + r.Direction.Y*t - p.Data.Position.Y
	d := math32.Hypot(dx, dy)
	if d >= tiltRadius {
		return 0, 0
	}
	falloff := 1 - d/tiltRadius
	tx := clampTilt(-dy / tiltRadius * falloff * MaxTilt)
	ty := clampTilt(dx / tiltRadius * falloff * MaxTilt)
	return tx, ty
}

func clampTilt(v float32) float32 {
	return math32.Max(-MaxTilt, math32.Min(MaxTilt, v))
}

// Opacity returns the eased fade opacity before focus dimming.
func (p *Plane) Opacity() float32 { return p.opacity }

// Dim returns the eased focus dim factor.
func (p *Plane) Dim() float32 { return p.dim }

// Alpha returns the rendered alpha.
func (p *Plane) Alpha() float32 { return p.opacity * p.dim }

// Tilt returns the current rotation about the x and y axes in radians.
func (p *Plane) Tilt() (x, y float32) { return p.tiltX, p.tiltY }

// Aspect returns width/height used for drawing.
func (p *Plane) Aspect() float32 { return p.aspect }

// Failed reports whether the plane's media could not be loaded. Failed planes are never drawn
// or picked.
func (p *Plane) Failed() bool { return p.Handle != nil && p.Handle.Failed() }

// Visible reports whether the plane should be drawn this frame.
func (p *Plane) Visible() bool {
	return p.Handle != nil && p.Handle.Ready() && p.Alpha() > VisibleAlpha
}

// DepthWrite reports whether the plane is opaque enough to write depth.
func (p *Plane) DepthWrite() bool { return p.Alpha() > OpaqueAlpha }

// ID returns the plane id.
func (p *Plane) ID() string { return p.Data.ID }

// Title returns the media title shown when the plane is focused.
func (p *Plane) Title() string { return p.Item.Title }

// Center returns the world position of the plane's centre.
func (p *Plane) Center() rl.Vector3 { return p.Data.Position }

// Size returns the world width and height of the plane.
func (p *Plane) Size() (w, h float32) {
	h = p.Data.Scale.Y
	return h * p.aspect, h
}

// Pickable reports whether a click may focus the plane.
func (p *Plane) Pickable() bool { return p.Visible() }
