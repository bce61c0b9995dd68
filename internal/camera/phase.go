package camera

import rl "github.com/gen2brain/raylib-go/raylib"

// Phase is the controller's navigation state: *Intro, FreeRoam, *FlyingTo or Focused.
type Phase interface {
	phase()
	String() string
}

// Intro is the opening dolly; input is ignored until it ends.
type Intro struct {
	Frame int
}

// FreeRoam is inertial navigation driven by keys, drag, wheel and pinch.
type FreeRoam struct{}

// FlyingTo eases the camera toward a plane picked by a click.
type FlyingTo struct {
	ID, Title string
	From, To  rl.Vector3
	Progress  float32
	Completed bool
}

// Focused holds the camera in front of the plane it flew to.
type Focused struct {
	ID, Title string
}

func (*Intro) phase()    {}
func (FreeRoam) phase()  {}
func (*FlyingTo) phase() {}
func (Focused) phase()   {}

func (*Intro) String() string    { return "intro" }
func (FreeRoam) String() string  { return "free" }
func (*FlyingTo) String() string { return "flying" }
func (Focused) String() string   { return "focused" }
