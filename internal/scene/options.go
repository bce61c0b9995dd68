package scene

import (
	"log/slog"

	"pixels/internal/ambient"
	"pixels/internal/camera"
	"pixels/internal/chunk"
	"pixels/internal/media"
)

// Options configure a Scene. The tuning fields carry the same names as config.Scene so the
// config layer can copy them across with copier.
type Options struct {
	ChunkSize        float32
	RenderDistance   int
	ChunkFadeMargin  int
	PlaneCacheSize   int
	TextureIdleCache int
	DecodeWorkers    int
	MaxTextureSize   int
	DustCount        int
	Fovy             float32
	IdleBudgetMillis int

	Dark          bool
	DarkColor     string
	LightColor    string
	MediaCacheDir string
	SkipIntro     bool
	DustSeed      uint64

	// Input, Loader and Uploader default to the raylib poller, the file loader and the GPU.
	Input    InputSource
	Loader   media.Loader
	Uploader media.Uploader
	Logger   *slog.Logger
}

// InputSource latches one frame of user input. *input.Poller implements it.
type InputSource interface {
	Poll() camera.Input
}

// Callbacks are the scene's outward signals, forwarded from the camera controller.
type Callbacks struct {
	OnFocusTitle  func(title string)
	OnFlyComplete func(done bool)
}

// DefaultOptions returns the built-in tuning.
func DefaultOptions() Options {
	return Options{
		ChunkSize:        chunk.DefaultSize,
		RenderDistance:   2,
		ChunkFadeMargin:  1,
		PlaneCacheSize:   chunk.DefaultCacheSize,
		TextureIdleCache: media.DefaultIdleCapacity,
		DecodeWorkers:    media.DefaultWorkers,
		MaxTextureSize:   media.DefaultMaxTextureSize,
		DustCount:        ambient.DefaultDustCount,
		Fovy:             60,
		IdleBudgetMillis: 4,
		Dark:             true,
		DarkColor:        ambient.DefaultDarkColor,
		LightColor:       ambient.DefaultLightColor,
		MediaCacheDir:    "assets/media/cache",
		DustSeed:         1,
	}
}

func (o *Options) normalize() {
	d := DefaultOptions()
	if o.ChunkSize <= 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.RenderDistance < 0 {
		o.RenderDistance = d.RenderDistance
	}
	if o.ChunkFadeMargin < 0 {
		o.ChunkFadeMargin = d.ChunkFadeMargin
	}
	if o.IdleBudgetMillis <= 0 {
		o.IdleBudgetMillis = d.IdleBudgetMillis
	}
	if o.MaxTextureSize <= 0 {
		o.MaxTextureSize = d.MaxTextureSize
	}
	if o.DustCount < 0 {
		o.DustCount = 0
	}
}
