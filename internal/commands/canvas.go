package commands

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Canvas is what the console can drive. *scene.Scene implements it.
type Canvas interface {
	SetDark(dark bool)
	Goto(pos rl.Vector3)
	Unfocus()
	Purge()
}

// Overlay toggles debug overlays. *debug.Debug implements it.
type Overlay interface {
	SetShowFPS(show bool)
	SetShowStats(show bool)
}

// errExclusive is returned when both halves of a --x/--y toggle are given.
var errExclusive = errors.New("flags are mutually exclusive")

// toggle registers a --on/--off pair and applies the chosen value.
func toggle(r *Registry, name, on, off string, apply func(bool)) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	onF := fs.Bool(on, false, "")
	offF := fs.Bool(off, false, "")
	r.Register(name, fmt.Sprintf("--%s|--%s", on, off), fs, func([]string) error {
		switch {
		case *onF && *offF:
			return fmt.Errorf("commands: %s: --%s and --%s: %w", name, on, off, errExclusive)
		case *onF:
			apply(true)
		case *offF:
			apply(false)
		default:
			return fmt.Errorf("commands: %s: want --%s or --%s", name, on, off)
		}
		return nil
	})
}

// RegisterCanvas adds the canvas commands: theme, fps, stats, goto, unfocus and purge.
func RegisterCanvas(r *Registry, c Canvas, o Overlay) {
	toggle(r, "theme", "dark", "light", c.SetDark)
	toggle(r, "fps", "show", "hide", o.SetShowFPS)
	toggle(r, "stats", "show", "hide", o.SetShowStats)

	r.Register("goto", "X Y Z", nil, func(args []string) error {
		if len(args) != 3 {
			return fmt.Errorf("commands: goto: want X Y Z, got %d values", len(args))
		}
		var v [3]float32
		for i, a := range args {
			f, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return fmt.Errorf("commands: goto: %w", err)
			}
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return fmt.Errorf("commands: goto: %q is not a finite coordinate", a)
			}
			v[i] = float32(f)
		}
		c.Goto(rl.NewVector3(v[0], v[1], v[2]))
		return nil
	})
	r.Register("unfocus", "", nil, func([]string) error {
		c.Unfocus()
		return nil
	})
	r.Register("purge", "", nil, func([]string) error {
		c.Purge()
		return nil
	})
}
