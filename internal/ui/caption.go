package ui

// DefaultHint is the navigation hint shown until the intro has finished and the user moves.
const DefaultHint = "drag to look around · scroll to travel · click to focus"

const (
	captionFadeIn  = 0.12
	captionFadeOut = 0.08
	hintFadeOut    = 0.02
	hidden         = 0.005
)

// Caption shows the focused media title. It receives the canvas callbacks: the title arrives
// when a fly starts and is revealed once the fly is nearly done; it fades out on unfocus.
type Caption struct {
	title *Node
	hint  *Node

	text      string
	show      bool
	alpha     float32
	hintAlpha float32
	hintDone  bool
}

// NewCaption returns a hidden caption with the hint visible.
func NewCaption() *Caption {
	return &Caption{
		title:     NewNode("label", "caption caption-title", "", ""),
		hint:      NewNode("label", "caption hint", "hint", DefaultHint),
		hintAlpha: 1,
	}
}

// OnFocusTitle records the title of the plane being focused ("" when focus is released).
func (c *Caption) OnFocusTitle(title string) {
	if title != "" {
		c.text = title
	}
}

// OnFlyComplete reveals the caption on true and starts fading it out on false.
func (c *Caption) OnFlyComplete(done bool) {
	c.show = done && c.text != ""
}

// Update eases the caption and hint alpha by one frame. The hint starts fading once
// dismissHint is true and never comes back.
func (c *Caption) Update(dismissHint bool) {
	if c.show {
		c.alpha += (1 - c.alpha) * captionFadeIn
	} else {
		c.alpha -= c.alpha * captionFadeOut
		if c.alpha < hidden {
			c.alpha = 0
		}
	}
	if dismissHint {
		c.hintDone = true
	}
	if c.hintDone {
		c.hintAlpha -= hintFadeOut
		if c.hintAlpha < 0 {
			c.hintAlpha = 0
		}
	}
}

// Visible reports whether the title is on screen.
func (c *Caption) Visible() bool {
	return c.alpha > 0
}

// Title returns the last focused title.
func (c *Caption) Title() string {
	return c.text
}

// Alpha returns the title's current alpha.
func (c *Caption) Alpha() float32 {
	return c.alpha
}

// AppendNodes appends the visible caption nodes to dst.
func (c *Caption) AppendNodes(dst []*Node) []*Node {
	if c.alpha > 0 {
		c.title.Text = c.text
		c.title.Alpha = c.alpha
		dst = append(dst, c.title)
	}
	if c.hintAlpha > 0 {
		c.hint.Alpha = c.hintAlpha
		dst = append(dst, c.hint)
	}
	return dst
}
