package ui

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const defaultFontSize = 20

//go:embed caption.css
var defaultCSS string

// Engine holds the current stylesheet and draws nodes with raylib, in the order given.
// Resolved styles are cached per class/id pair and recomputed only when the stylesheet changes.
// If a font is loaded (LoadFont), text is drawn with it; otherwise raylib's default font is used.
type Engine struct {
	sheet  *Stylesheet
	styles map[string]ComputedStyle
	font   rl.Font
}

// New creates an engine styled by the built-in caption sheet.
func New() *Engine {
	e := &Engine{}
	sheet, err := ParseCSS(defaultCSS)
	if err != nil {
		panic(err)
	}
	e.SetStylesheet(sheet)
	return e
}

// LoadCSS loads and parses a CSS file from path. Replaces the current stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return fmt.Errorf("ui: %s: %w", path, err)
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.styles = make(map[string]ComputedStyle)
}

// LoadFont loads a TTF/OTF font from path for text rendering. On failure the engine keeps its font.
// Call after the window exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if !rl.IsFontValid(f) || f.Texture.ID == 0 {
		return fmt.Errorf("ui: font %s: %w", path, os.ErrNotExist)
	}
	e.UnloadFont()
	e.font = f
	return nil
}

// UnloadFont releases a loaded font.
func (e *Engine) UnloadFont() {
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
		e.font = rl.Font{}
	}
}

// Font returns the loaded font; its texture ID is zero when none is loaded.
func (e *Engine) Font() rl.Font {
	return e.font
}

// Style returns the resolved style for n. Every class in n.Class (space separated) and n.ID are
// matched; rules apply in sheet order, so later rules win.
func (e *Engine) Style(n *Node) ComputedStyle {
	key := n.Class + "#" + n.ID
	if s, ok := e.styles[key]; ok {
		return s
	}
	s := ResolveProps(e.resolveProps(n))
	e.styles[key] = s
	return s
}

// resolveProps returns merged properties for a node.
func (e *Engine) resolveProps(n *Node) map[string]string {
	merged := make(map[string]string)
	if e.sheet == nil {
		return merged
	}
	classes := strings.Fields(n.Class)
	for _, rule := range e.sheet.Rules {
		sel := rule.Selector
		matches := false
		switch sel[0] {
		case '.':
			for _, c := range classes {
				if c == sel[1:] {
					matches = true
					break
				}
			}
		case '#':
			matches = n.ID != "" && n.ID == sel[1:]
		}
		if matches {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

// Layout sets n.Bounds for a screen of w by h pixels. textW is the measured width of n.Text.
func Layout(n *Node, style ComputedStyle, textW float32, screenW, screenH int32) {
	w, h := float32(style.Width), float32(style.Height)
	if w <= 0 {
		w = textW + 2*float32(style.Padding)
	}
	if h <= 0 {
		h = float32(style.FontSize + 2*style.Padding)
	}
	x, y := float32(style.Left), float32(style.Top)
	if style.LeftPct >= 0 {
		x = (float32(screenW) - w) * float32(style.LeftPct) / 100
	}
	if style.TopPct >= 0 {
		y = (float32(screenH) - h) * float32(style.TopPct) / 100
	}
	n.Bounds = rl.NewRectangle(x, y, w, h)
}

func (e *Engine) measure(text string, size int32) float32 {
	if text == "" {
		return 0
	}
	if e.font.Texture.ID != 0 {
		return rl.MeasureTextEx(e.font, text, float32(size), 1).X
	}
	return float32(rl.MeasureText(text, size))
}

// Draw draws nodes: background, 1px border, then text. Nodes whose combined alpha is below
// 0.01 are skipped.
func (e *Engine) Draw(nodes []*Node) {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	for _, n := range nodes {
		style := e.Style(n)
		a := style.Opacity * n.Alpha
		if a < 0.01 {
			continue
		}
		Layout(n, style, e.measure(n.Text, style.FontSize), screenW, screenH)
		x, y := int32(n.Bounds.X), int32(n.Bounds.Y)
		w, h := int32(n.Bounds.Width), int32(n.Bounds.Height)

		if style.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, fade(style.Background, a))
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, fade(style.Border, a))
		}
		if n.Text != "" {
			tx, ty := x+style.Padding, y+style.Padding
			col := fade(style.Color, a)
			if e.font.Texture.ID != 0 {
				rl.DrawTextEx(e.font, n.Text, rl.NewVector2(float32(tx), float32(ty)), float32(style.FontSize), 1, col)
			} else {
				rl.DrawText(n.Text, tx, ty, style.FontSize, col)
			}
		}
	}
}

func fade(c rl.Color, a float32) rl.Color {
	c.A = uint8(float32(c.A) * a)
	return c
}

// HasStylesheet returns whether a stylesheet with at least one rule is set.
func (e *Engine) HasStylesheet() bool {
	return e.sheet != nil && len(e.sheet.Rules) > 0
}

// Stylesheet returns the current stylesheet.
func (e *Engine) Stylesheet() *Stylesheet {
	return e.sheet
}
