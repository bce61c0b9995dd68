package camera

// Keys is a bit set of held navigation keys.
type Keys uint8

const (
	KeyLeft Keys = 1 << iota
	KeyRight
	KeyForward
	KeyBack
	KeyUp
	KeyDown
)

// Has reports whether every key in k2 is held.
func (k Keys) Has(k2 Keys) bool { return k&k2 == k2 }

// Input is one frame of latched user input. Positions and deltas are in screen pixels.
type Input struct {
	Keys   Keys
	Escape bool

	PointerX, PointerY float32

	// PointerInside is false once the pointer has left the window. PointerMoved is set when
	// the pointer position changed since the previous frame.
	PointerInside bool
	PointerMoved  bool
	ScreenW       float32
	ScreenH       float32

	// Pressed and Released are edges of the primary button (or the single touch).
	Pressed  bool
	Released bool
	Dragging bool
	DragDX   float32
	DragDY   float32

	// Wheel is in notches, positive away from the user. Pinch is the change of the two-touch
	// distance in pixels, positive when the fingers spread.
	Wheel float32
	Pinch float32
}

// Directional reports whether the frame carries navigation input (keys, wheel or pinch).
func (in Input) Directional() bool {
	return in.Keys != 0 || in.Wheel != 0 || in.Pinch != 0
}

// Active reports whether the frame counts as user activity for the idle timer.
func (in Input) Active() bool {
	return in.Directional() || in.Escape || in.Pressed || in.Released || in.PointerMoved ||
		in.DragDX != 0 || in.DragDY != 0
}

func (in Input) aspect() float32 {
	if in.ScreenW <= 0 || in.ScreenH <= 0 {
		return 0
	}
	return in.ScreenW / in.ScreenH
}
