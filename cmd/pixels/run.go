package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pixels/internal/camera"
	"pixels/internal/catalog"
	"pixels/internal/commands"
	"pixels/internal/config"
	"pixels/internal/debug"
	"pixels/internal/env"
	"pixels/internal/fonts"
	"pixels/internal/graphics"
	"pixels/internal/input"
	"pixels/internal/logger"
	"pixels/internal/scene"
	"pixels/internal/terminal"
	"pixels/internal/ui"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jinzhu/copier"
	"github.com/spf13/cobra"
)

type runFlags struct {
	config     string
	catalog    string
	logLevel   string
	fullscreen bool
	skipIntro  bool
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the canvas window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f, cmd.Flags().Changed("fullscreen"))
		},
	}
	cmd.Flags().StringVar(&f.config, "config", config.DefaultPath, "Config file")
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "Media catalog (JSON or YAML); overrides the config")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error; overrides the config")
	cmd.Flags().BoolVar(&f.fullscreen, "fullscreen", false, "Open fullscreen")
	cmd.Flags().BoolVar(&f.skipIntro, "skip-intro", false, "Start in free roam")
	return cmd
}

// loadPrefs layers config file, .env, environment and flags, in that order.
func loadPrefs(f runFlags, fullscreenSet bool) (config.Prefs, []string) {
	var notes []string
	if keys, err := env.Load(".env"); err != nil {
		notes = append(notes, fmt.Sprintf(".env: %v", err))
	} else if len(keys) > 0 {
		notes = append(notes, fmt.Sprintf(".env: set %d variables", len(keys)))
	}
	prefs, err := config.Load(f.config)
	if err != nil {
		notes = append(notes, err.Error())
	}
	config.ApplyEnv(&prefs)
	f.apply(&prefs, fullscreenSet)
	return prefs, notes
}

// apply overrides prefs with the flags given on the command line.
func (f runFlags) apply(p *config.Prefs, fullscreenSet bool) {
	if f.catalog != "" {
		p.Paths.Catalog = f.catalog
	}
	if f.logLevel != "" {
		p.Debug.LogLevel = f.logLevel
	}
	if fullscreenSet {
		p.Window.Fullscreen = f.fullscreen
	}
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// sceneOptions copies the tuning block and fills in the fields that live elsewhere in prefs.
func sceneOptions(prefs config.Prefs, skipIntro bool) (scene.Options, error) {
	opts := scene.DefaultOptions()
	if err := copier.Copy(&opts, &prefs.Scene); err != nil {
		return opts, fmt.Errorf("scene options: %w", err)
	}
	opts.Dark = prefs.Theme.Dark
	opts.DarkColor = prefs.Theme.DarkColor
	opts.LightColor = prefs.Theme.LightColor
	opts.MediaCacheDir = prefs.Paths.MediaCache
	opts.SkipIntro = skipIntro
	opts.DustSeed = uint64(time.Now().UnixNano())
	return opts, nil
}

func run(ctx context.Context, f runFlags, fullscreenSet bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	prefs, notes := loadPrefs(f, fullscreenSet)
	log := logger.New(prefs.Paths.LogFile, parseLevel(prefs.Debug.LogLevel))
	slogger := log.Slog()
	slogger.Info("starting", "session", log.Session(), "config", f.config)
	for _, n := range notes {
		slogger.Warn(n)
	}

	items, err := catalog.Load(prefs.Paths.Catalog, slogger)
	if err != nil {
		slogger.Warn("catalog unavailable, canvas will be empty", "path", prefs.Paths.Catalog, "err", err)
		items = nil
	}

	opts, err := sceneOptions(prefs, f.skipIntro)
	if err != nil {
		return err
	}
	poller := input.New()
	opts.Input = poller
	opts.Logger = slogger

	caption := ui.NewCaption()
	graphics.Open(prefs.Window)

	scn := scene.New(items, opts, scene.Callbacks{
		OnFocusTitle:  caption.OnFocusTitle,
		OnFlyComplete: caption.OnFlyComplete,
	})
	defer scn.Close()

	eng := ui.New()
	if err := eng.LoadCSS(prefs.Paths.CaptionCSS); err != nil {
		slogger.Debug("using built-in caption style", "path", prefs.Paths.CaptionCSS, "err", err)
	}
	dbg := debug.New()
	dbg.SetShowFPS(prefs.Debug.ShowFPS)
	dbg.SetShowMemAlloc(prefs.Debug.ShowMemAlloc)
	dbg.SetShowStats(prefs.Debug.ShowStats)

	reg := commands.NewRegistry()
	commands.RegisterCanvas(reg, scn, dbg)
	term := terminal.New(log, reg)

	if path, err := fonts.Find(prefs.Paths.FontDir, ""); err != nil {
		slogger.Debug("no font found, using raylib default", "dir", prefs.Paths.FontDir, "err", err)
	} else if err := eng.LoadFont(path); err != nil {
		slogger.Warn("font load failed", "path", path, "err", err)
	} else {
		term.SetFont(eng.Font())
		dbg.SetFont(eng.Font())
	}
	defer eng.UnloadFont()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	reloads := make(chan config.Prefs, 1)
	go func() {
		if err := config.Watch(ctx, f.config, reloads, slogger); err != nil {
			slogger.Debug("config watch disabled", "err", err)
		}
	}()

	graphics.Run(&app{
		flags:   f,
		prefs:   prefs,
		log:     slogger,
		scene:   scn,
		poller:  poller,
		caption: caption,
		ui:      eng,
		term:    term,
		debug:   dbg,
		reloads: reloads,
	})
	slogger.Info("window closed", "session", log.Session())
	return nil
}

// app is the per-frame glue between the scene and the 2D overlays.
type app struct {
	flags   runFlags
	prefs   config.Prefs
	log     *slog.Logger
	scene   *scene.Scene
	poller  *input.Poller
	caption *ui.Caption
	ui      *ui.Engine
	term    *terminal.Terminal
	debug   *debug.Debug
	reloads chan config.Prefs
	nodes   []*ui.Node
}

func (a *app) Update(now time.Time) {
	select {
	case p := <-a.reloads:
		a.reload(p)
	default:
	}

	wasOpen := a.term.IsOpen()
	a.term.Update()
	// The Escape that closes the console must not also release focus.
	a.poller.Blocked = wasOpen || a.term.IsOpen()

	a.scene.Update(now)
	_, intro := a.scene.Controller().Phase().(*camera.Intro)
	a.caption.Update(!intro)
}

// reload applies the parts of prefs that can change while running.
func (a *app) reload(p config.Prefs) {
	a.flags.apply(&p, false)
	old := a.prefs
	a.prefs = p
	if p.Theme.Dark != old.Theme.Dark {
		a.scene.SetDark(p.Theme.Dark)
	}
	if p.Debug != old.Debug {
		a.debug.SetShowFPS(p.Debug.ShowFPS)
		a.debug.SetShowMemAlloc(p.Debug.ShowMemAlloc)
		a.debug.SetShowStats(p.Debug.ShowStats)
	}
	if p.Paths.CaptionCSS != old.Paths.CaptionCSS {
		if err := a.ui.LoadCSS(p.Paths.CaptionCSS); err != nil {
			a.log.Warn("caption style reload failed", "path", p.Paths.CaptionCSS, "err", err)
		}
	}
	if p.Paths.Catalog != old.Paths.Catalog {
		items, err := catalog.Load(p.Paths.Catalog, a.log)
		if err != nil {
			a.log.Warn("catalog reload failed", "path", p.Paths.Catalog, "err", err)
			return
		}
		a.scene.SetItems(items)
	}
}

func (a *app) Draw() {
	a.scene.Draw()
	a.nodes = a.caption.AppendNodes(a.nodes[:0])
	a.ui.Draw(a.nodes)
	a.term.Draw()
	if a.debug.Any() {
		a.debug.Draw(a.scene.Stats())
	}
	if a.term.IsOpen() {
		rl.SetMouseCursor(rl.MouseCursorIBeam)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}
