package ambient

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultDarkColor  = "#0b0b0e"
	DefaultLightColor = "#efece6"

	blendRate = 0.04
	settled   = 1e-3
)

// Atmosphere is the background and fog colour. Switching theme eases towards the new colour
// instead of cutting.
type Atmosphere struct {
	dark, light colorful.Color
	current     colorful.Color
	isDark      bool
}

// NewAtmosphere parses the two theme colours, falling back to the defaults for values that are
// not valid hex.
func NewAtmosphere(dark bool, darkHex, lightHex string) *Atmosphere {
	a := &Atmosphere{
		dark:   parseHex(darkHex, DefaultDarkColor),
		light:  parseHex(lightHex, DefaultLightColor),
		isDark: dark,
	}
	a.current = a.target()
	return a
}

func parseHex(s, fallback string) colorful.Color {
	if c, err := colorful.Hex(s); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

func (a *Atmosphere) target() colorful.Color {
	if a.isDark {
		return a.dark
	}
	return a.light
}

// SetDark selects the theme. The colour follows over the next frames.
func (a *Atmosphere) SetDark(dark bool) {
	a.isDark = dark
}

// Dark reports the selected theme.
func (a *Atmosphere) Dark() bool {
	return a.isDark
}

// Update moves the current colour one step towards the theme colour.
func (a *Atmosphere) Update() {
	t := a.target()
	if a.current.DistanceRgb(t) < settled {
		a.current = t
		return
	}
	a.current = a.current.BlendRgb(t, blendRate).Clamped()
}

// Settled reports whether the colour has reached the theme colour.
func (a *Atmosphere) Settled() bool {
	return a.current == a.target()
}

// Color returns the current colour, opaque.
func (a *Atmosphere) Color() rl.Color {
	r, g, b := a.current.RGB255()
	return rl.NewColor(r, g, b, 255)
}

// Hex returns the current colour as #rrggbb.
func (a *Atmosphere) Hex() string {
	return a.current.Hex()
}

// DustTint is a faint contrasting tint for dust motes on the current background.
func (a *Atmosphere) DustTint() rl.Color {
	_, _, l := a.current.Hcl()
	if l < 0.5 {
		return rl.NewColor(255, 255, 255, 46)
	}
	return rl.NewColor(0, 0, 0, 38)
}
