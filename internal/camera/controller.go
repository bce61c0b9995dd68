// Package camera turns latched input into camera motion: the intro dolly, inertial free roam
// with pointer drift, the idle nudge and click-to-focus fly-to. It never calls raylib input
// functions, so it runs headless in tests.
package camera

import (
	"time"

	"pixels/internal/chunk"
	"pixels/internal/plane"

	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	introStartZ = 420
	introFrames = 168

	keyImpulse   = 0.45
	dragScale    = 0.035
	wheelScale   = 1.2
	pinchScale   = 0.02
	maxAxisSpeed = 6

	velocityLerp = 0.16
	targetDecay  = 0.92
	snapBelow    = 1e-4

	driftX         = 2.2
	driftY         = 1.4
	driftFrequency = 3.0
	driftDamping   = 1.0
	driftFrameRate = 60
	clickMaxDrag   = 5
	idleDelay      = 30 * time.Second
	idleImpulse    = 2.4
	fillFraction   = 0.65
	flyStep        = 0.012
	flyCompleteAt  = 0.85
	defaultFovy    = 60
	defaultAspect  = 16.0 / 9.0
)

// Target is something a click can focus.
type Target interface {
	ID() string
	Title() string
	Center() rl.Vector3
	Size() (w, h float32)
}

// Picker returns the nearest focusable target hit by ray.
type Picker interface {
	Pick(ray rl.Ray) (Target, bool)
}

// Callbacks are the controller's outward signals. Nil fields are skipped.
type Callbacks struct {
	// OnFocusTitle receives the focused title, or "" when focus is released.
	OnFocusTitle func(title string)
	// OnFlyComplete fires true once per fly when it is nearly done, false on unfocus.
	OnFlyComplete func(done bool)
}

// Options configure a Controller. Zero fields take defaults.
type Options struct {
	Fovy      float32
	ChunkSize float32
	SkipIntro bool
}

// Controller owns the camera position and navigation phase. One per scene.
type Controller struct {
	opts Options
	cb   Callbacks

	phase    Phase
	position rl.Vector3
	velocity rl.Vector3
	target   rl.Vector3

	drift       rl.Vector3
	driftVel    rl.Vector3
	driftSpring harmonica.Spring

	aspect    float32
	pressed   bool
	dragDist  float32
	lastInput time.Time
	nudged    bool
	nudges    int
}

// New returns a controller at the start of the intro (or in free roam at the origin when
// SkipIntro is set).
func New(opts Options, cb Callbacks) *Controller {
	if opts.Fovy <= 0 {
		opts.Fovy = defaultFovy
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunk.DefaultSize
	}
	c := &Controller{
		opts:        opts,
		cb:          cb,
		aspect:      defaultAspect,
		driftSpring: harmonica.NewSpring(harmonica.FPS(driftFrameRate), driftFrequency, driftDamping),
	}
	if opts.SkipIntro {
		c.phase = FreeRoam{}
	} else {
		c.phase = &Intro{}
		c.position.Z = introStartZ
	}
	return c
}

// Update advances the controller by one frame.
func (c *Controller) Update(in Input, now time.Time, picker Picker) {
	if a := in.aspect(); a > 0 {
		c.aspect = a
	}
	if c.lastInput.IsZero() || in.Active() {
		c.lastInput = now
		c.nudged = false
	}
	click := c.trackDrag(in)

	switch p := c.phase.(type) {
	case *Intro:
		c.updateIntro(p)
	case FreeRoam:
		c.updateFree(in, click, now, picker)
	case *FlyingTo:
		if c.wantsUnfocus(in, click) {
			c.Unfocus()
			break
		}
		c.updateFly(p)
	case Focused:
		if c.wantsUnfocus(in, click) {
			c.Unfocus()
		}
	}
	c.updateDrift(in)
}

// trackDrag accumulates the pointer travel of the current press and reports a click on release.
func (c *Controller) trackDrag(in Input) bool {
	if in.Pressed {
		c.pressed = true
		c.dragDist = 0
	}
	if c.pressed {
		c.dragDist += math32.Hypot(in.DragDX, in.DragDY)
	}
	if in.Released && c.pressed {
		c.pressed = false
		return c.dragDist < clickMaxDrag
	}
	return false
}

// dragging reports whether the current press has moved far enough to be a drag.
func (c *Controller) dragging(in Input) bool {
	return c.pressed && in.Dragging && c.dragDist >= clickMaxDrag
}

func (c *Controller) updateIntro(p *Intro) {
	p.Frame++
	t := float32(p.Frame) / introFrames
	if t >= 1 {
		c.position.Z = 0
		c.phase = FreeRoam{}
		return
	}
	c.position.Z = lerp(introStartZ, 0, EaseInOutCubic(t))
}

func (c *Controller) updateFree(in Input, click bool, now time.Time, picker Picker) {
	if click && picker != nil {
		if t, ok := picker.Pick(c.Ray(in.PointerX, in.PointerY, in.ScreenW, in.ScreenH)); ok {
			c.FlyTo(t)
			return
		}
	}

	if in.Keys.Has(KeyLeft) {
		c.target.X -= keyImpulse
	}
	if in.Keys.Has(KeyRight) {
		c.target.X += keyImpulse
	}
	if in.Keys.Has(KeyForward) {
		c.target.Z -= keyImpulse
	}
	if in.Keys.Has(KeyBack) {
		c.target.Z += keyImpulse
	}
	if in.Keys.Has(KeyUp) {
		c.target.Y += keyImpulse
	}
	if in.Keys.Has(KeyDown) {
		c.target.Y -= keyImpulse
	}
	if c.pressed && in.Dragging {
		// Content follows the pointer: dragging right moves the camera left.
		c.target.X -= in.DragDX * dragScale
		c.target.Y += in.DragDY * dragScale
	}
	c.target.Z -= in.Wheel * wheelScale
	c.target.Z -= in.Pinch * pinchScale

	if !c.nudged && now.Sub(c.lastInput) >= idleDelay {
		c.target.Z -= idleImpulse
		c.nudged = true
		c.nudges++
	}

	c.target = clampVec(c.target, maxAxisSpeed)
	c.integrate()
}

// integrate eases velocity toward the target velocity, decays the target and moves.
func (c *Controller) integrate() {
	c.velocity = rl.Vector3{
		X: snap(lerp(c.velocity.X, c.target.X, velocityLerp)),
		Y: snap(lerp(c.velocity.Y, c.target.Y, velocityLerp)),
		Z: snap(lerp(c.velocity.Z, c.target.Z, velocityLerp)),
	}
	c.target = rl.Vector3{
		X: snap(c.target.X * targetDecay),
		Y: snap(c.target.Y * targetDecay),
		Z: snap(c.target.Z * targetDecay),
	}
	c.position = rl.Vector3Add(c.position, c.velocity)
}

func (c *Controller) wantsUnfocus(in Input, click bool) bool {
	return click || in.Escape || in.Directional() || c.dragging(in)
}

// FlyTo starts a fly toward t, framing it so it fills fillFraction of the viewport.
func (c *Controller) FlyTo(t Target) {
	w, h := t.Size()
	dist := ViewDistance(w, h, c.opts.Fovy, c.aspect)
	to := rl.Vector3Add(t.Center(), rl.NewVector3(0, 0, dist))
	c.phase = &FlyingTo{ID: t.ID(), Title: t.Title(), From: c.position, To: to}
	c.velocity = rl.Vector3{}
	c.target = rl.Vector3{}
	if c.cb.OnFocusTitle != nil {
		c.cb.OnFocusTitle(t.Title())
	}
}

func (c *Controller) updateFly(p *FlyingTo) {
	p.Progress += flyStep
	if p.Progress >= flyCompleteAt && !p.Completed {
		p.Completed = true
		if c.cb.OnFlyComplete != nil {
			c.cb.OnFlyComplete(true)
		}
	}
	if p.Progress >= 1 {
		c.position = p.To
		c.phase = Focused{ID: p.ID, Title: p.Title}
		return
	}
	e := EaseInOutCubic(p.Progress)
	c.position = rl.Vector3{
		X: lerp(p.From.X, p.To.X, e),
		Y: lerp(p.From.Y, p.To.Y, e),
		Z: lerp(p.From.Z, p.To.Z, e),
	}
}

// Unfocus cancels a fly or focus and returns to free roam with zero velocity.
func (c *Controller) Unfocus() {
	switch c.phase.(type) {
	case *FlyingTo, Focused:
	default:
		return
	}
	c.phase = FreeRoam{}
	c.velocity = rl.Vector3{}
	c.target = rl.Vector3{}
	if c.cb.OnFocusTitle != nil {
		c.cb.OnFocusTitle("")
	}
	if c.cb.OnFlyComplete != nil {
		c.cb.OnFlyComplete(false)
	}
}

// Goto moves the camera to pos, leaving any focus.
func (c *Controller) Goto(pos rl.Vector3) {
	c.Unfocus()
	if _, ok := c.phase.(*Intro); ok {
		c.phase = FreeRoam{}
	}
	c.position = pos
	c.velocity = rl.Vector3{}
	c.target = rl.Vector3{}
}

func (c *Controller) updateDrift(in Input) {
	var goal rl.Vector3
	_, free := c.phase.(FreeRoam)
	if free && in.PointerInside && !c.dragging(in) && in.ScreenW > 0 && in.ScreenH > 0 {
		nx := clamp(2*in.PointerX/in.ScreenW-1, -1, 1)
		ny := clamp(2*in.PointerY/in.ScreenH-1, -1, 1)
		goal = rl.NewVector3(nx*driftX, -ny*driftY, 0)
	}
	x, vx := c.driftSpring.Update(float64(c.drift.X), float64(c.driftVel.X), float64(goal.X))
	y, vy := c.driftSpring.Update(float64(c.drift.Y), float64(c.driftVel.Y), float64(goal.Y))
	c.drift = rl.NewVector3(float32(x), float32(y), 0)
	c.driftVel = rl.NewVector3(float32(vx), float32(vy), 0)
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Position returns the integrated camera position without drift.
func (c *Controller) Position() rl.Vector3 { return c.position }

// RenderPosition returns the position the scene is drawn from (position plus drift).
func (c *Controller) RenderPosition() rl.Vector3 { return rl.Vector3Add(c.position, c.drift) }

// Velocity returns the current velocity in world units per frame.
func (c *Controller) Velocity() rl.Vector3 { return c.velocity }

// TargetVelocity returns the velocity the controller is easing toward.
func (c *Controller) TargetVelocity() rl.Vector3 { return c.target }

// Drift returns the pointer sway offset.
func (c *Controller) Drift() rl.Vector3 { return c.drift }

// Nudges returns how many idle nudges have fired.
func (c *Controller) Nudges() int { return c.nudges }

// Focus returns the id of the plane being flown to or focused.
func (c *Controller) Focus() (string, bool) {
	switch p := c.phase.(type) {
	case *FlyingTo:
		return p.ID, true
	case Focused:
		return p.ID, true
	}
	return "", false
}

// Grid returns the camera chunk and raw depth.
func (c *Controller) Grid() plane.GridState {
	k := chunk.KeyAt(c.position, c.opts.ChunkSize)
	return plane.GridState{X: k.X, Y: k.Y, Z: k.Z, CamZ: c.position.Z}
}

// Camera3D returns the raylib camera looking down -Z from the render position.
func (c *Controller) Camera3D() rl.Camera3D {
	pos := c.RenderPosition()
	return rl.Camera3D{
		Position:   pos,
		Target:     rl.Vector3Add(pos, rl.NewVector3(0, 0, -1)),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       c.opts.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// Ray returns the world ray through screen point (x, y) for a w by h viewport.
func (c *Controller) Ray(x, y, w, h float32) rl.Ray {
	aspect := c.aspect
	if w > 0 && h > 0 {
		aspect = w / h
	} else {
		w, h = 2, 2
		x, y = 1, 1
	}
	tanHalf := math32.Tan(c.opts.Fovy * rl.Deg2rad / 2)
	ndcX := 2*x/w - 1
	ndcY := 1 - 2*y/h
	dir := rl.Vector3Normalize(rl.NewVector3(ndcX*tanHalf*aspect, ndcY*tanHalf, -1))
	return rl.NewRay(c.RenderPosition(), dir)
}

// ViewDistance is how far in front of a w by h plane the camera stops so the plane fills
// fillFraction of the viewport on its tighter axis.
func ViewDistance(w, h, fovy, aspect float32) float32 {
	if aspect <= 0 {
		aspect = defaultAspect
	}
	tanHalf := math32.Tan(fovy * rl.Deg2rad / 2)
	heightFit := (h / fillFraction) / (2 * tanHalf)
	widthFit := (w / fillFraction) / (2 * tanHalf * aspect)
	return math32.Max(heightFit, widthFit)
}

// Intersect returns the distance along ray to t's quad (facing +Z, no tilt), if hit.
func Intersect(ray rl.Ray, t Target) (float32, bool) {
	if math32.Abs(ray.Direction.Z) < 1e-6 {
		return 0, false
	}
	c := t.Center()
	d := (c.Z - ray.Position.Z) / ray.Direction.Z
	if d <= 0 {
		return 0, false
	}
	w, h := t.Size()
	hx := ray.Position.X + ray.Direction.X*d
	hy := ray.Position.Y + ray.Direction.Y*d
	if math32.Abs(hx-c.X) > w/2 || math32.Abs(hy-c.Y) > h/2 {
		return 0, false
	}
	return d, true
}

// EaseInOutCubic maps t in [0,1] onto a cubic ease-in-out curve.
func EaseInOutCubic(t float32) float32 {
	t = clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func clamp(v, lo, hi float32) float32 { return math32.Max(lo, math32.Min(hi, v)) }

func clampVec(v rl.Vector3, m float32) rl.Vector3 {
	return rl.Vector3{X: clamp(v.X, -m, m), Y: clamp(v.Y, -m, m), Z: clamp(v.Z, -m, m)}
}

func snap(v float32) float32 {
	if math32.Abs(v) < snapBelow {
		return 0
	}
	return v
}
