package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element: panel or label. Class and ID are matched against the stylesheet.
// Alpha multiplies the style's opacity and is how overlays fade in and out.
type Node struct {
	Type   string // "panel" or "label"
	Class  string // e.g. "caption" for .caption
	ID     string // e.g. "hint" for #hint
	Bounds rl.Rectangle
	Text   string
	Alpha  float32
}

// NewNode creates a fully opaque node.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text, Alpha: 1}
}
