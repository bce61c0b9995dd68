// Package graphics owns the raylib window and the frame loop.
package graphics

import (
	"time"

	"pixels/internal/config"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frame is one iteration of the main loop. Update runs before BeginDrawing; Draw runs between
// BeginDrawing and EndDrawing.
type Frame interface {
	Update(now time.Time)
	Draw()
}

// Open creates the window described by w. Call before loading any GPU resource.
func Open(w config.Window) {
	flags := uint32(rl.FlagMsaa4xHint | rl.FlagWindowResizable | rl.FlagVsyncHint)
	if w.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	width, height := w.Width, w.Height
	if w.Fullscreen {
		width, height = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	}
	rl.InitWindow(width, height, w.Title)
	// Escape releases focus in the canvas; the window closes through its close button.
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(w.TargetFPS)
}

// Run drives f until the window is closed, then closes the window.
func Run(f Frame) {
	defer rl.CloseWindow()
	for !rl.WindowShouldClose() {
		f.Update(time.Now())
		rl.BeginDrawing()
		f.Draw()
		rl.EndDrawing()
	}
}
