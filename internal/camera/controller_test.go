package camera

import (
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

const frame = 16 * time.Millisecond

type quad struct {
	id, title string
	center    rl.Vector3
	w, h      float32
}

func (q quad) ID() string               { return q.id }
func (q quad) Title() string            { return q.title }
func (q quad) Center() rl.Vector3       { return q.center }
func (q quad) Size() (float32, float32) { return q.w, q.h }

type quadPicker []quad

func (p quadPicker) Pick(ray rl.Ray) (Target, bool) {
	var best Target
	bestD := float32(0)
	for _, q := range p {
		if d, ok := Intersect(ray, q); ok && (best == nil || d < bestD) {
			best, bestD = q, d
		}
	}
	return best, best != nil
}

type recorder struct {
	titles    []string
	completes []bool
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnFocusTitle:  func(s string) { r.titles = append(r.titles, s) },
		OnFlyComplete: func(b bool) { r.completes = append(r.completes, b) },
	}
}

func screen() Input {
	return Input{PointerX: 800, PointerY: 450, PointerInside: true, ScreenW: 1600, ScreenH: 900}
}

func click() Input {
	in := screen()
	in.Pressed = true
	in.Released = true
	return in
}

func TestIntroDollyIgnoresInput(t *testing.T) {
	c := New(Options{}, Callbacks{})
	require.IsType(t, &Intro{}, c.Phase())
	assert.Equal(t, float32(introStartZ), c.Position().Z)

	prev := c.Position().Z
	in := screen()
	in.Keys = KeyLeft | KeyForward
	for i := 0; i < introFrames; i++ {
		c.Update(in, t0.Add(time.Duration(i)*frame), nil)
		assert.LessOrEqual(t, c.Position().Z, prev)
		prev = c.Position().Z
	}
	assert.Equal(t, FreeRoam{}, c.Phase())
	assert.Equal(t, float32(0), c.Position().Z)
	assert.Equal(t, float32(0), c.Position().X)
}

func TestTargetVelocityDecays(t *testing.T) {
	c := New(Options{SkipIntro: true}, Callbacks{})
	in := screen()
	in.Keys = KeyForward
	c.Update(in, t0, nil)
	assert.InDelta(t, -keyImpulse*targetDecay, c.TargetVelocity().Z, 1e-6)
	assert.InDelta(t, -keyImpulse*velocityLerp, c.Velocity().Z, 1e-6)

	now := t0
	prev := c.TargetVelocity().Z
	for i := 0; i < 20; i++ {
		now = now.Add(frame)
		c.Update(screen(), now, nil)
		got := c.TargetVelocity().Z
		assert.InDelta(t, prev*targetDecay, got, 1e-6, "geometric decay at step %d", i)
		prev = got
	}
	for i := 0; i < 300; i++ {
		now = now.Add(frame)
		c.Update(screen(), now, nil)
	}
	assert.Equal(t, rl.Vector3{}, c.TargetVelocity(), "snaps to zero")
	assert.Equal(t, rl.Vector3{}, c.Velocity())
	assert.Less(t, c.Position().Z, float32(0), "moved forward")
}

func TestAxisClamp(t *testing.T) {
	c := New(Options{SkipIntro: true}, Callbacks{})
	in := screen()
	in.Wheel = 10
	c.Update(in, t0, nil)
	assert.InDelta(t, -maxAxisSpeed*targetDecay, c.TargetVelocity().Z, 1e-5)
}

func TestDragMovesAgainstPointer(t *testing.T) {
	c := New(Options{SkipIntro: true}, Callbacks{})
	in := screen()
	in.Pressed, in.Dragging = true, true
	c.Update(in, t0, nil)
	in.Pressed = false
	in.DragDX, in.DragDY = 20, 10
	c.Update(in, t0.Add(frame), nil)
	assert.Less(t, c.TargetVelocity().X, float32(0))
	assert.Greater(t, c.TargetVelocity().Y, float32(0))

	// A release after a real drag is not a click.
	rel := screen()
	rel.Released = true
	c.Update(rel, t0.Add(2*frame), quadPicker{{id: "a", center: rl.NewVector3(0, 0, -50), w: 16, h: 12}})
	assert.Equal(t, FreeRoam{}, c.Phase())
}

func TestFlyToCompletes(t *testing.T) {
	rec := &recorder{}
	c := New(Options{SkipIntro: true}, rec.callbacks())
	target := quad{id: "0,0,-1#2", title: "Harbour", center: rl.NewVector3(0, 0, -50), w: 16, h: 12}
	picker := quadPicker{target}

	c.Update(click(), t0, picker)
	fly, ok := c.Phase().(*FlyingTo)
	require.True(t, ok, "click on a plane starts a fly")
	assert.Equal(t, []string{"Harbour"}, rec.titles)
	id, focused := c.Focus()
	assert.True(t, focused)
	assert.Equal(t, target.id, id)

	want := rl.Vector3Add(target.center, rl.NewVector3(0, 0, ViewDistance(16, 12, defaultFovy, 1600.0/900.0)))
	assert.Equal(t, want, fly.To)

	now := t0
	prev := float32(0)
	firedAt := float32(-1)
	for i := 0; i < 200; i++ {
		now = now.Add(frame)
		before := len(rec.completes)
		c.Update(screen(), now, picker)
		if p, ok := c.Phase().(*FlyingTo); ok {
			assert.Greater(t, p.Progress, prev)
			prev = p.Progress
			if len(rec.completes) > before {
				firedAt = p.Progress
			}
		} else if len(rec.completes) > before {
			firedAt = 1
		}
		if _, done := c.Phase().(Focused); done {
			break
		}
	}
	require.Equal(t, Focused{ID: target.id, Title: "Harbour"}, c.Phase())
	assert.Equal(t, want, c.Position(), "snaps exactly onto the target")
	assert.Equal(t, []bool{true}, rec.completes, "fly complete fires once")
	assert.GreaterOrEqual(t, firedAt, float32(flyCompleteAt))
	assert.Less(t, firedAt, float32(flyCompleteAt+flyStep))
}

func TestViewDistanceFitsTighterAxis(t *testing.T) {
	tall := ViewDistance(10, 40, 60, 16.0/9.0)
	wide := ViewDistance(80, 10, 60, 16.0/9.0)
	tanHalf := float32(0.57735026)
	assert.InDelta(t, (40/fillFraction)/(2*tanHalf), tall, 1e-3)
	assert.InDelta(t, (80/fillFraction)/(2*tanHalf*16/9), wide, 1e-3)
}

func TestUnfocus(t *testing.T) {
	target := quad{id: "p", title: "Dune", center: rl.NewVector3(0, 0, -40), w: 12, h: 12}
	tests := []struct {
		name  string
		input func() Input
	}{
		{"escape", func() Input { in := screen(); in.Escape = true; return in }},
		{"click", click},
		{"key", func() Input { in := screen(); in.Keys = KeyBack; return in }},
		{"scroll", func() Input { in := screen(); in.Wheel = -1; return in }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := New(Options{SkipIntro: true}, rec.callbacks())
			c.Update(click(), t0, quadPicker{target})
			require.IsType(t, &FlyingTo{}, c.Phase())

			c.Update(tt.input(), t0.Add(frame), quadPicker{target})
			assert.Equal(t, FreeRoam{}, c.Phase())
			assert.Equal(t, []string{"Dune", ""}, rec.titles)
			assert.Equal(t, []bool{false}, rec.completes)
			assert.Equal(t, rl.Vector3{}, c.Velocity())
			_, focused := c.Focus()
			assert.False(t, focused)
		})
	}
}

func TestClickOnEmptySpaceIsNoop(t *testing.T) {
	rec := &recorder{}
	c := New(Options{SkipIntro: true}, rec.callbacks())
	c.Update(click(), t0, quadPicker{{id: "off", center: rl.NewVector3(500, 0, -50), w: 10, h: 10}})
	assert.Equal(t, FreeRoam{}, c.Phase())
	assert.Empty(t, rec.titles)
}

func TestIdleNudge(t *testing.T) {
	c := New(Options{SkipIntro: true}, Callbacks{})
	c.Update(screen(), t0, nil)
	c.Update(screen(), t0.Add(29*time.Second), nil)
	assert.Zero(t, c.Nudges())

	c.Update(screen(), t0.Add(30*time.Second), nil)
	assert.Equal(t, 1, c.Nudges())
	assert.InDelta(t, -idleImpulse*targetDecay, c.TargetVelocity().Z, 1e-5)

	c.Update(screen(), t0.Add(45*time.Second), nil)
	c.Update(screen(), t0.Add(70*time.Second), nil)
	assert.Equal(t, 1, c.Nudges(), "fires once per idle period")

	in := screen()
	in.Keys = KeyLeft
	c.Update(in, t0.Add(75*time.Second), nil)
	c.Update(screen(), t0.Add(104*time.Second), nil)
	assert.Equal(t, 1, c.Nudges())
	c.Update(screen(), t0.Add(105*time.Second), nil)
	assert.Equal(t, 2, c.Nudges(), "re-armed by fresh input")
}

func TestPointerMoveResetsIdleClock(t *testing.T) {
	c := New(Options{SkipIntro: true}, Callbacks{})
	c.Update(screen(), t0, nil)

	hover := screen()
	hover.PointerX += 40
	hover.PointerMoved = true
	assert.True(t, hover.Active())
	assert.False(t, hover.Directional(), "hovering never unfocuses")
	c.Update(hover, t0.Add(20*time.Second), nil)

	c.Update(screen(), t0.Add(49*time.Second), nil)
	assert.Zero(t, c.Nudges())
	c.Update(screen(), t0.Add(50*time.Second), nil)
	assert.Equal(t, 1, c.Nudges())
}

func TestDriftFollowsPointer(t *testing.T) {
	c := New(Options{SkipIntro: true}, Callbacks{})
	in := screen()
	in.PointerX, in.PointerY = 1600, 0
	now := t0
	for i := 0; i < 240; i++ {
		now = now.Add(frame)
		c.Update(in, now, nil)
	}
	assert.InDelta(t, driftX, c.Drift().X, 0.05)
	assert.InDelta(t, driftY, c.Drift().Y, 0.05)
	assert.InDelta(t, c.Position().X+c.Drift().X, c.RenderPosition().X, 1e-6)

	in.PointerInside = false
	for i := 0; i < 240; i++ {
		now = now.Add(frame)
		c.Update(in, now, nil)
	}
	assert.InDelta(t, 0, c.Drift().X, 0.05)
}

func TestRayAndIntersect(t *testing.T) {
	c := New(Options{SkipIntro: true}, Callbacks{})
	ray := c.Ray(800, 450, 1600, 900)
	assert.InDelta(t, -1, ray.Direction.Z, 1e-6)

	q := quad{center: rl.NewVector3(0, 0, -30), w: 4, h: 4}
	d, ok := Intersect(ray, q)
	require.True(t, ok)
	assert.InDelta(t, 30, d, 1e-4)

	_, ok = Intersect(ray, quad{center: rl.NewVector3(10, 0, -30), w: 4, h: 4})
	assert.False(t, ok)
	_, ok = Intersect(ray, quad{center: rl.NewVector3(0, 0, 30), w: 4, h: 4})
	assert.False(t, ok, "behind the camera")

	right := c.Ray(1600, 450, 1600, 900)
	assert.Greater(t, right.Direction.X, float32(0))
	up := c.Ray(800, 0, 1600, 900)
	assert.Greater(t, up.Direction.Y, float32(0))
}

func TestGotoLeavesFocus(t *testing.T) {
	rec := &recorder{}
	c := New(Options{}, rec.callbacks())
	c.Goto(rl.NewVector3(110, 0, -220))
	assert.Equal(t, FreeRoam{}, c.Phase())
	g := c.Grid()
	assert.Equal(t, 1, g.X)
	assert.Equal(t, -2, g.Z)
	assert.Equal(t, float32(-220), g.CamZ)
}

func TestEaseInOutCubic(t *testing.T) {
	assert.Equal(t, float32(0), EaseInOutCubic(0))
	assert.Equal(t, float32(1), EaseInOutCubic(1))
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-6)
	prev := float32(0)
	for x := float32(0); x <= 1; x += 0.01 {
		v := EaseInOutCubic(x)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}
