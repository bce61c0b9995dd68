package media

import (
	"context"
	"image"

	"pixels/internal/catalog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// State is the decode state of a Handle.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Handle is the shared cache entry for one media URL. Planes hold a reference with
// Cache.Acquire while they draw it. All methods must be called on the render goroutine.
type Handle struct {
	item    catalog.MediaItem
	state   State
	err     error
	tex     rl.Texture2D
	width   int
	height  int
	refs    int
	waiters []func(*Handle)

	ctx    context.Context
	cancel context.CancelFunc
	frames chan *image.RGBA
}

// URL returns the media URL the handle was created for.
func (h *Handle) URL() string { return h.item.URL }

// Item returns the catalog entry that first requested the handle.
func (h *Handle) Item() catalog.MediaItem { return h.item }

// State returns the current decode state.
func (h *Handle) State() State { return h.state }

// Ready reports whether the texture is uploaded and drawable.
func (h *Handle) Ready() bool { return h.state == Ready }

// Failed reports whether decoding or upload failed. Failed handles are never retried.
func (h *Handle) Failed() bool { return h.state == Failed }

// Settled reports whether the handle is ready or failed.
func (h *Handle) Settled() bool { return h.state != Pending }

// Err returns the failure cause, nil unless Failed.
func (h *Handle) Err() error { return h.err }

// Texture returns the GPU texture. It is only valid while the handle is Ready.
func (h *Handle) Texture() rl.Texture2D { return h.tex }

// Size returns the decoded pixel size (after downscaling), zero until Ready.
func (h *Handle) Size() (width, height int) { return h.width, h.height }

// Aspect returns width/height of the decoded media, or 0 when unknown.
func (h *Handle) Aspect() float32 {
	if h.width <= 0 || h.height <= 0 {
		return 0
	}
	return float32(h.width) / float32(h.height)
}

// Refs returns the number of outstanding Acquire calls.
func (h *Handle) Refs() int { return h.refs }

// Playing reports whether the handle streams video frames.
func (h *Handle) Playing() bool { return h.frames != nil }

func (h *Handle) settle(state State, err error) {
	h.state = state
	h.err = err
	waiters := h.waiters
	h.waiters = nil
	for _, fn := range waiters {
		fn(h)
	}
}
