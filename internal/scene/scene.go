// Package scene composes the canvas: it owns the media and layout caches, streams chunks around
// the camera, keeps the mounted planes up to date and draws them with the ambient layers.
package scene

import (
	"log/slog"
	"time"

	"pixels/internal/ambient"
	"pixels/internal/camera"
	"pixels/internal/catalog"
	"pixels/internal/chunk"
	"pixels/internal/idle"
	"pixels/internal/input"
	"pixels/internal/logger"
	"pixels/internal/media"
	"pixels/internal/plane"
	"pixels/internal/stream"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// mount is one chunk in the visible set. Its planes are created by a deferred idle task.
type mount struct {
	key       chunk.Key
	planes    []*plane.Plane
	handles   []*media.Handle
	cancel    func()
	populated bool
}

// Scene is the mount point of the canvas. Update and Draw run once per frame on the render
// goroutine; nothing else may touch a Scene.
type Scene struct {
	opts Options
	cb   Callbacks
	log  *slog.Logger

	items   []catalog.MediaItem
	input   InputSource
	ctrl    *camera.Controller
	media   *media.Cache
	layouts *chunk.Cache
	stream  *stream.Manager
	idle    *idle.Queue
	render  *plane.Renderer
	dust    *ambient.Dust
	atmos   *ambient.Atmosphere

	mounted map[chunk.Key]*mount
	visible []chunk.Key
	live    []*plane.Plane
	dirty   bool
	frame   plane.Frame
	last    camera.Input
	drawn   int
	closed  bool
}

// New returns a scene showing items. The camera starts the intro dolly unless opts.SkipIntro.
func New(items []catalog.MediaItem, opts Options, cb Callbacks) *Scene {
	opts.normalize()
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	in := opts.Input
	if in == nil {
		in = input.New()
	}
	loader := opts.Loader
	if loader == nil {
		loader = media.NewFileLoader(opts.MediaCacheDir, opts.MaxTextureSize, log)
	}
	up := opts.Uploader
	if up == nil {
		up = media.GPU{}
	}

	s := &Scene{
		opts:    opts,
		cb:      cb,
		log:     log,
		items:   items,
		input:   in,
		media:   media.NewCache(loader, up, media.Options{Workers: opts.DecodeWorkers, IdleCapacity: opts.TextureIdleCache}, log),
		layouts: chunk.NewCache(opts.PlaneCacheSize, opts.ChunkSize, len(items)),
		stream:  stream.New(opts.RenderDistance, opts.ChunkFadeMargin),
		idle:    idle.New(),
		render:  plane.NewRenderer(),
		dust:    ambient.NewDust(opts.DustCount, ambient.DefaultDustRadius, opts.DustSeed),
		atmos:   ambient.NewAtmosphere(opts.Dark, opts.DarkColor, opts.LightColor),
		mounted: make(map[chunk.Key]*mount),
	}
	s.ctrl = camera.New(camera.Options{
		Fovy:      opts.Fovy,
		ChunkSize: opts.ChunkSize,
		SkipIntro: opts.SkipIntro,
	}, camera.Callbacks{
		OnFocusTitle:  s.focusTitle,
		OnFlyComplete: s.flyComplete,
	})
	s.frame.RenderDistance = opts.RenderDistance
	s.frame.FadeMargin = opts.ChunkFadeMargin
	if len(items) == 0 {
		log.Warn("scene has no media; chunks will stay empty")
	}
	return s
}

func (s *Scene) focusTitle(title string) {
	if title != "" {
		s.log.Info("focus", "title", title)
	}
	if s.cb.OnFocusTitle != nil {
		s.cb.OnFocusTitle(title)
	}
}

func (s *Scene) flyComplete(done bool) {
	if s.cb.OnFlyComplete != nil {
		s.cb.OnFlyComplete(done)
	}
}

// Update advances the scene by one frame: input, camera, streaming, deferred chunk work, media,
// planes and ambient layers, in that order.
func (s *Scene) Update(now time.Time) {
	if s.closed {
		return
	}
	in := s.input.Poll()
	s.last = in
	s.ctrl.Update(in, now, s)

	grid := s.ctrl.Grid()
	s.stream.Request(grid.Key(), s.ctrl.Velocity().Z, now)
	if next, changed := s.stream.Flush(now); changed {
		s.apply(next)
	}

	s.idle.Run(time.Duration(s.opts.IdleBudgetMillis) * time.Millisecond)
	s.media.Poll()
	s.rebuildLive()

	s.frame.Grid = grid
	s.frame.FocusedID, s.frame.FocusActive = s.ctrl.Focus()
	s.frame.PointerValid = in.PointerInside && in.ScreenW > 0 && in.ScreenH > 0
	if s.frame.PointerValid {
		s.frame.Pointer = s.ctrl.Ray(in.PointerX, in.PointerY, in.ScreenW, in.ScreenH)
	}
	for _, p := range s.live {
		p.Update(&s.frame)
	}

	s.dust.Update(s.ctrl.RenderPosition())
	s.atmos.Update()
}

// Draw renders the frame. Call between BeginDrawing and EndDrawing, before any 2D overlay.
func (s *Scene) Draw() {
	bg := s.atmos.Color()
	rl.ClearBackground(bg)
	cam := s.ctrl.Camera3D()
	rl.BeginMode3D(cam)
	s.dust.Draw(s.atmos.DustTint())
	s.render.SetView(cam.Position, bg)
	s.drawn = s.render.Draw(s.live)
	rl.EndMode3D()
}

// Close cancels pending chunk work, stops decoding and unloads every GPU resource.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for k := range s.mounted {
		s.unmount(k)
	}
	s.idle.Clear()
	s.media.Close()
	s.render.Unload()
}

// Pick returns the nearest pickable plane under ray. It implements camera.Picker.
func (s *Scene) Pick(ray rl.Ray) (camera.Target, bool) {
	var best *plane.Plane
	bestD := float32(0)
	for _, p := range s.live {
		if !p.Pickable() {
			continue
		}
		if d, ok := camera.Intersect(ray, p); ok && (best == nil || d < bestD) {
			best, bestD = p, d
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// SetItems replaces the catalog. Every mounted chunk is rebuilt from a fresh layout cache so no
// plane keeps an index into the old list.
func (s *Scene) SetItems(items []catalog.MediaItem) {
	s.items = items
	s.layouts = chunk.NewCache(s.opts.PlaneCacheSize, s.opts.ChunkSize, len(items))
	keys := s.visible
	for k := range s.mounted {
		s.unmount(k)
	}
	for _, k := range keys {
		s.mountChunk(k)
	}
	s.log.Info("catalog replaced", "items", len(items))
}

// SetDark switches the atmosphere theme.
func (s *Scene) SetDark(dark bool) {
	s.atmos.SetDark(dark)
}

// Dark reports the selected theme.
func (s *Scene) Dark() bool {
	return s.atmos.Dark()
}

// Goto moves the camera to pos, leaving any focus.
func (s *Scene) Goto(pos rl.Vector3) {
	s.ctrl.Goto(pos)
}

// Unfocus releases any focus and returns to free roam.
func (s *Scene) Unfocus() {
	s.ctrl.Unfocus()
}

// Purge drops every cached plane layout. Mounted planes are unaffected.
func (s *Scene) Purge() {
	s.layouts.Purge()
}

// Controller returns the camera controller.
func (s *Scene) Controller() *camera.Controller {
	return s.ctrl
}

// Planes returns the planes of every populated chunk. The slice is rebuilt when chunks change.
func (s *Scene) Planes() []*plane.Plane {
	return s.live
}

// Input returns the input latched on the last Update.
func (s *Scene) Input() camera.Input {
	return s.last
}
