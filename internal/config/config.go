package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the path to the config file, relative to the process working directory.
const DefaultPath = "config/pixels.yaml"

// Prefs holds everything the canvas reads at startup. Persisted as YAML; fields missing from the
// file keep their Default value.
type Prefs struct {
	Window Window `yaml:"window"`
	Scene  Scene  `yaml:"scene"`
	Theme  Theme  `yaml:"theme"`
	Debug  Debug  `yaml:"debug"`
	Paths  Paths  `yaml:"paths"`
}

// Window controls the raylib window.
type Window struct {
	Title      string `yaml:"title"`
	Width      int32  `yaml:"width"`
	Height     int32  `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	TargetFPS  int32  `yaml:"target_fps"`
}

// Scene holds the world and cache tuning. Field names match scene.Options so the two can be
// copied field by field.
type Scene struct {
	ChunkSize        float32 `yaml:"chunk_size"`
	RenderDistance   int     `yaml:"render_distance"`
	ChunkFadeMargin  int     `yaml:"chunk_fade_margin"`
	PlaneCacheSize   int     `yaml:"plane_cache_size"`
	TextureIdleCache int     `yaml:"texture_idle_cache"`
	DecodeWorkers    int     `yaml:"decode_workers"`
	MaxTextureSize   int     `yaml:"max_texture_size"`
	DustCount        int     `yaml:"dust_count"`
	Fovy             float32 `yaml:"fovy"`
	IdleBudgetMillis int     `yaml:"idle_budget_ms"`
}

// Theme selects the atmosphere colours. Colours are hex strings ("#rrggbb").
type Theme struct {
	Dark       bool   `yaml:"dark"`
	DarkColor  string `yaml:"dark_color"`
	LightColor string `yaml:"light_color"`
}

// Debug toggles overlays. All off by default.
type Debug struct {
	ShowFPS      bool   `yaml:"show_fps"`
	ShowMemAlloc bool   `yaml:"show_memalloc"`
	ShowStats    bool   `yaml:"show_stats"`
	LogLevel     string `yaml:"log_level"`
}

// Paths points at the files the canvas reads or writes.
type Paths struct {
	Catalog    string `yaml:"catalog"`
	MediaCache string `yaml:"media_cache"`
	LogFile    string `yaml:"log_file"`
	CaptionCSS string `yaml:"caption_css"`
	FontDir    string `yaml:"font_dir"`
}

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{
		Window: Window{
			Title:     "pixels",
			Width:     1280,
			Height:    800,
			TargetFPS: 60,
		},
		Scene: Scene{
			ChunkSize:        110,
			RenderDistance:   2,
			ChunkFadeMargin:  1,
			PlaneCacheSize:   256,
			TextureIdleCache: 256,
			DecodeWorkers:    4,
			MaxTextureSize:   1024,
			DustCount:        600,
			Fovy:             60,
			IdleBudgetMillis: 4,
		},
		Theme: Theme{Dark: true, DarkColor: "#0b0b0e", LightColor: "#efece6"},
		Debug: Debug{LogLevel: "info"},
		Paths: Paths{
			Catalog:    "assets/catalog.yaml",
			MediaCache: "assets/media/cache",
			LogFile:    "logs/pixels.txt",
			CaptionCSS: "assets/ui/caption.css",
			FontDir:    "assets/fonts",
		},
	}
}

// Load reads preferences from path. If the file is missing, returns Default() and no error.
// A file that exists but cannot be parsed returns Default() and the parse error so the caller can log it.
func Load(path string) (Prefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("config: %w", err)
	}
	// Decoding onto the defaults keeps every key the file leaves out.
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	p.normalize()
	return p, nil
}

// Save writes preferences to path as YAML, creating the directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides prefs from PIXELS_* environment variables (see env.Load for .env support).
func ApplyEnv(p *Prefs) {
	if v := os.Getenv("PIXELS_CATALOG"); v != "" {
		p.Paths.Catalog = v
	}
	if v := os.Getenv("PIXELS_LOG"); v != "" {
		p.Paths.LogFile = v
	}
	if v := os.Getenv("PIXELS_LOG_LEVEL"); v != "" {
		p.Debug.LogLevel = v
	}
	switch strings.ToLower(os.Getenv("PIXELS_THEME")) {
	case "dark":
		p.Theme.Dark = true
	case "light":
		p.Theme.Dark = false
	}
	if v := os.Getenv("PIXELS_FULLSCREEN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			p.Window.Fullscreen = b
		}
	}
	p.normalize()
}

// normalize replaces out-of-range values with defaults so a hand-edited file cannot break the scene.
func (p *Prefs) normalize() {
	d := Default()
	if p.Window.Width <= 0 || p.Window.Height <= 0 {
		p.Window.Width, p.Window.Height = d.Window.Width, d.Window.Height
	}
	if p.Window.TargetFPS <= 0 {
		p.Window.TargetFPS = d.Window.TargetFPS
	}
	s := &p.Scene
	if s.ChunkSize <= 0 {
		s.ChunkSize = d.Scene.ChunkSize
	}
	if s.RenderDistance < 0 {
		s.RenderDistance = d.Scene.RenderDistance
	}
	if s.ChunkFadeMargin < 0 {
		s.ChunkFadeMargin = d.Scene.ChunkFadeMargin
	}
	if s.PlaneCacheSize <= 0 {
		s.PlaneCacheSize = d.Scene.PlaneCacheSize
	}
	if s.TextureIdleCache <= 0 {
		s.TextureIdleCache = d.Scene.TextureIdleCache
	}
	if s.DecodeWorkers <= 0 {
		s.DecodeWorkers = d.Scene.DecodeWorkers
	}
	if s.MaxTextureSize < 64 {
		s.MaxTextureSize = d.Scene.MaxTextureSize
	}
	if s.DustCount < 0 {
		s.DustCount = 0
	}
	if s.Fovy <= 10 || s.Fovy >= 150 {
		s.Fovy = d.Scene.Fovy
	}
	if s.IdleBudgetMillis <= 0 {
		s.IdleBudgetMillis = d.Scene.IdleBudgetMillis
	}
	if p.Theme.DarkColor == "" {
		p.Theme.DarkColor = d.Theme.DarkColor
	}
	if p.Theme.LightColor == "" {
		p.Theme.LightColor = d.Theme.LightColor
	}
}
