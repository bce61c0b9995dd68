package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// Rule is a single CSS rule: one selector and a set of property values (raw strings).
type Rule struct {
	Selector string            // e.g. ".caption" or "#hint"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// ComputedStyle holds resolved values used for drawing.
// LeftPct/TopPct: 0–100 for percentage positioning; -1 means use Left/Top as pixels.
// Width or Height 0 means fit the text.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	LeftPct    int32
	TopPct     int32
	Padding    int32
	FontSize   int32
	Opacity    float32
}

// DefaultComputedStyle returns a minimal style (transparent background, white text, no border, fit to text).
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		LeftPct:    -1,
		TopPct:     -1,
		Padding:    4,
		FontSize:   defaultFontSize,
		Opacity:    1,
	}
}

// ParseColor parses #RGB, #RRGGBB or #RRGGBBAA into an rl.Color.
func ParseColor(s string) (rl.Color, bool) {
	s = strings.TrimSpace(s)
	alpha := uint8(255)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return rl.Black, false
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return rl.Black, false
	}
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, alpha), true
}

// ParsePx parses "12px" or a unitless "12" as pixels.
func ParsePx(s string) (int32, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px")))
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" with N in 0..100.
func ParsePct(s string) (int32, bool) {
	num, ok := strings.CutSuffix(strings.TrimSpace(s), "%")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// properties maps each supported CSS property to the field it sets. Values that fail to parse
// leave the field untouched.
var properties = map[string]func(s *ComputedStyle, v string){
	"background":       func(s *ComputedStyle, v string) { setColor(&s.Background, v) },
	"background-color": func(s *ComputedStyle, v string) { setColor(&s.Background, v) },
	"color":            func(s *ComputedStyle, v string) { setColor(&s.Color, v) },
	"border":           func(s *ComputedStyle, v string) { s.HasBorder = setColor(&s.Border, v) || s.HasBorder },
	"border-color":     func(s *ComputedStyle, v string) { s.HasBorder = setColor(&s.Border, v) || s.HasBorder },
	"width":            func(s *ComputedStyle, v string) { setPx(&s.Width, v, 0) },
	"height":           func(s *ComputedStyle, v string) { setPx(&s.Height, v, 0) },
	"padding":          func(s *ComputedStyle, v string) { setPx(&s.Padding, v, 0) },
	"font-size":        func(s *ComputedStyle, v string) { setPx(&s.FontSize, v, 1) },
	"left":             func(s *ComputedStyle, v string) { setOffset(&s.LeftPct, &s.Left, v) },
	"top":              func(s *ComputedStyle, v string) { setOffset(&s.TopPct, &s.Top, v) },
	"opacity":          setOpacity,
}

func setOpacity(s *ComputedStyle, v string) {
	if f, err := strconv.ParseFloat(v, 32); err == nil {
		s.Opacity = float32(max(0, min(1, f)))
	}
}

func setColor(dst *rl.Color, v string) bool {
	c, ok := ParseColor(v)
	if ok {
		*dst = c
	}
	return ok
}

func setPx(dst *int32, v string, floor int32) {
	if n, ok := ParsePx(v); ok && n >= floor {
		*dst = n
	}
}

// setOffset accepts "N%" or a pixel length.
func setOffset(pct, px *int32, v string) {
	if n, ok := ParsePct(v); ok {
		*pct = n
	} else if n, ok := ParsePx(v); ok {
		*px = n
	}
}

// ResolveProps builds a ComputedStyle from the merged properties of every matching rule.
// Unknown properties are ignored.
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	for k, v := range props {
		if set, ok := properties[k]; ok {
			set(&out, strings.TrimSpace(v))
		}
	}
	return out
}
