package scene

import (
	"time"

	"pixels/internal/chunk"
	"pixels/internal/media"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Stats is a snapshot for the debug overlay.
type Stats struct {
	Phase      string
	Position   rl.Vector3
	Chunk      chunk.Key
	Mounted    int
	Populated  int
	Planes     int
	Drawn      int
	IdleTasks  int
	Layouts    int
	LayoutMiss int
	Streamed   int
	Throttle   time.Duration
	Media      media.Stats
	DustWraps  int
	Atmosphere string
}

// Stats collects counters from every owned service.
func (s *Scene) Stats() Stats {
	st := Stats{
		Phase:      s.ctrl.Phase().String(),
		Position:   s.ctrl.Position(),
		Chunk:      s.ctrl.Grid().Key(),
		Mounted:    len(s.mounted),
		Planes:     len(s.live),
		Drawn:      s.drawn,
		IdleTasks:  s.idle.Len(),
		Layouts:    s.layouts.Len(),
		LayoutMiss: s.layouts.Misses(),
		Streamed:   s.stream.Updates(),
		Throttle:   s.stream.Interval(),
		Media:      s.media.Stats(),
		DustWraps:  s.dust.Wraps(),
		Atmosphere: s.atmos.Hex(),
	}
	for _, m := range s.mounted {
		if m.populated {
			st.Populated++
		}
	}
	return st
}
