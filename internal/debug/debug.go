// Package debug draws the FPS, heap and scene counters overlay.
package debug

import (
	"fmt"
	"runtime"

	"pixels/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// Text is rebuilt every updateInterval frames to limit allocations.
	updateInterval = 30
)

// Debug holds the overlay toggles. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool

	font       rl.Font
	frameCount uint32
	lines      []string
	memStats   runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn.
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
	d.lines = nil
}

// SetShowMemAlloc sets whether the heap counter is drawn.
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
	d.lines = nil
}

// SetShowStats sets whether the scene counters are drawn.
func (d *Debug) SetShowStats(show bool) {
	d.ShowStats = show
	d.lines = nil
}

// SetFont sets the font used for the overlay. Zero texture ID = raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Any reports whether any overlay is enabled.
func (d *Debug) Any() bool {
	return d.ShowFPS || d.ShowMemAlloc || d.ShowStats
}

// Lines formats the enabled overlays. fps and heap are passed in so the text can be built
// without a window.
func (d *Debug) Lines(fps int32, heapBytes uint64, st scene.Stats) []string {
	var out []string
	if d.ShowFPS {
		out = append(out, fmt.Sprintf("FPS: %d", fps))
	}
	if d.ShowMemAlloc {
		out = append(out, fmt.Sprintf("Mem: %.2f MiB", float64(heapBytes)/(1024*1024)))
	}
	if d.ShowStats {
		m := st.Media
		out = append(out,
			fmt.Sprintf("phase: %s", st.Phase),
			fmt.Sprintf("pos: %.1f, %.1f, %.1f  chunk: %s", st.Position.X, st.Position.Y, st.Position.Z, st.Chunk),
			fmt.Sprintf("chunks: %d mounted, %d built, %d queued", st.Mounted, st.Populated, st.IdleTasks),
			fmt.Sprintf("planes: %d live, %d drawn", st.Planes, st.Drawn),
			fmt.Sprintf("layouts: %d cached, %d generated", st.Layouts, st.LayoutMiss),
			fmt.Sprintf("textures: %d ready, %d pending, %d failed, %d idle", m.Ready, m.Pending, m.Failed, m.Idle),
			fmt.Sprintf("video: %d playing  evicted: %d", m.Playing, m.Evictions),
			fmt.Sprintf("stream: %d updates, throttle %s", st.Streamed, st.Throttle),
		)
	}
	return out
}

// Draw renders the enabled overlays at the top-right. Call after the scene and console.
func (d *Debug) Draw(st scene.Stats) {
	if !d.Any() {
		return
	}
	d.frameCount++
	if d.lines == nil || d.frameCount%updateInterval == 0 {
		if d.ShowMemAlloc {
			runtime.ReadMemStats(&d.memStats)
		}
		d.lines = d.Lines(rl.GetFPS(), d.memStats.Alloc, st)
	}

	screenW := float32(rl.GetScreenWidth())
	y := float32(padding)
	for i, text := range d.lines {
		col := rl.LightGray
		if i == 0 && d.ShowFPS {
			col = rl.Green
		}
		if d.font.Texture.ID != 0 {
			x := screenW - rl.MeasureTextEx(d.font, text, fontSize, 1).X - padding
			rl.DrawTextEx(d.font, text, rl.NewVector2(x, y), fontSize, 1, col)
		} else {
			x := int32(screenW) - rl.MeasureText(text, fontSize) - padding
			rl.DrawText(text, x, int32(y), fontSize, col)
		}
		y += lineHeight
	}
}
