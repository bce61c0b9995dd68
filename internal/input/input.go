// Package input latches raylib mouse, keyboard and touch state into a camera.Input once per frame.
package input

import (
	"pixels/internal/camera"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var keyBindings = []struct {
	keys []int32
	bit  camera.Keys
}{
	{[]int32{rl.KeyA, rl.KeyLeft}, camera.KeyLeft},
	{[]int32{rl.KeyD, rl.KeyRight}, camera.KeyRight},
	{[]int32{rl.KeyW, rl.KeyUp}, camera.KeyForward},
	{[]int32{rl.KeyS, rl.KeyDown}, camera.KeyBack},
	{[]int32{rl.KeyE}, camera.KeyUp},
	{[]int32{rl.KeyQ}, camera.KeyDown},
}

// Poller converts raylib state into camera input. It keeps the previous pointer and pinch
// distance so it can report deltas.
type Poller struct {
	// Blocked suppresses keyboard navigation, e.g. while the console has focus.
	Blocked bool

	lastX, lastY float32
	havePointer  bool
	touchDown    bool
	pinchDist    float32
	pinching     bool
}

// New returns a poller.
func New() *Poller {
	return &Poller{}
}

// Poll reads the current frame's input. Call once per frame after the window has polled events.
func (p *Poller) Poll() camera.Input {
	in := camera.Input{
		ScreenW:       float32(rl.GetScreenWidth()),
		ScreenH:       float32(rl.GetScreenHeight()),
		PointerInside: rl.IsCursorOnScreen(),
	}
	if !p.Blocked {
		for _, b := range keyBindings {
			for _, k := range b.keys {
				if rl.IsKeyDown(k) {
					in.Keys |= b.bit
					break
				}
			}
		}
		in.Escape = rl.IsKeyPressed(rl.KeyEscape)
	}

	switch touches := rl.GetTouchPointCount(); {
	case touches >= 2:
		p.pollPinch(&in)
	case touches == 1:
		p.pinching = false
		p.pollPointer(&in, rl.GetTouchPosition(0), !p.touchDown, false, true)
		p.touchDown = true
	default:
		p.pinching = false
		released := p.touchDown
		p.touchDown = false
		if released {
			in.Released = true
			in.PointerX, in.PointerY = p.lastX, p.lastY
			p.havePointer = false
			return in
		}
		pos := rl.GetMousePosition()
		p.pollPointer(&in, pos,
			rl.IsMouseButtonPressed(rl.MouseButtonLeft),
			rl.IsMouseButtonReleased(rl.MouseButtonLeft),
			rl.IsMouseButtonDown(rl.MouseButtonLeft))
		in.Wheel = rl.GetMouseWheelMove()
	}
	return in
}

func (p *Poller) pollPointer(in *camera.Input, pos rl.Vector2, pressed, released, down bool) {
	in.PointerX, in.PointerY = pos.X, pos.Y
	in.Pressed = pressed
	in.Released = released
	in.Dragging = down
	in.PointerMoved = p.havePointer && (pos.X != p.lastX || pos.Y != p.lastY)
	if down && p.havePointer && !pressed {
		in.DragDX = pos.X - p.lastX
		in.DragDY = pos.Y - p.lastY
	}
	p.lastX, p.lastY = pos.X, pos.Y
	p.havePointer = true
}

func (p *Poller) pollPinch(in *camera.Input) {
	a, b := rl.GetTouchPosition(0), rl.GetTouchPosition(1)
	d := math32.Hypot(a.X-b.X, a.Y-b.Y)
	if p.pinching {
		in.Pinch = d - p.pinchDist
	}
	p.pinchDist = d
	p.pinching = true
	in.PointerX, in.PointerY = (a.X+b.X)/2, (a.Y+b.Y)/2
	// A second finger turns a pending tap into a gesture, never a click.
	p.touchDown = false
	p.havePointer = false
}
