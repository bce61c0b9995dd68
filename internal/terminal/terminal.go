// Package terminal is the debug console: a log view with an input bar, toggled with backquote.
package terminal

import (
	"unicode/utf8"

	"pixels/internal/commands"
	"pixels/internal/logger"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	BarHeight = 40
	// When windowed, move bar up by this many pixels so it stays clear of the window edge.
	WindowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	// Number of log lines drawn above the input bar.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxLineLen       = 200
	toggleRune       = '`'
)

var (
	termBarColor    = rl.NewColor(40, 40, 40, 235)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 220)
)

// Terminal is the console at the bottom of the screen. While open it takes the keyboard, so
// the caller should block canvas navigation (see IsOpen).
// Lines starting with "cmd " run through the command registry; "cmd help" lists commands; any
// other line is echoed to the log.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
	font     rl.Font
}

// New returns a closed terminal that logs to log and runs commands through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen reports whether the terminal is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// Toggle opens or closes the terminal.
func (t *Terminal) Toggle() {
	t.open = !t.open
	t.inputBuf = ""
}

// SetFont sets the font used to draw the terminal. Zero texture ID = raylib default.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Input returns the text typed so far.
func (t *Terminal) Input() string {
	return t.inputBuf
}

// Type appends typed runes, ignoring the toggle key.
func (t *Terminal) Type(r rune) {
	if r == toggleRune || r < ' ' {
		return
	}
	t.inputBuf += string(r)
}

// Backspace removes the last rune.
func (t *Terminal) Backspace() {
	if len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
}

// Submit logs the current input and runs it.
func (t *Terminal) Submit() {
	line := t.inputBuf
	t.inputBuf = ""
	if line == "" {
		return
	}
	t.log.Log(prompt + line)
	if line == "cmd help" {
		for _, h := range t.reg.Help() {
			t.log.Log(h)
		}
		return
	}
	if args, isCmd := commands.Parse(line); isCmd {
		if err := t.reg.Execute(args); err != nil {
			t.log.Log(err.Error())
		}
	}
}

// Update handles the toggle key and, while open, typing, paste, backspace and enter.
// Call once per frame before the canvas reads input.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyGrave) {
		t.Toggle()
		// Drain the backquote from the char queue.
		for rl.GetCharPressed() != 0 {
		}
		return
	}
	if !t.open {
		return
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.Toggle()
		return
	}
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		for _, r := range rl.GetClipboardText() {
			t.Type(r)
		}
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.Type(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		t.Backspace()
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		t.Submit()
	}
}

// Draw draws the input bar and the recent log lines above it when open.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	barY := screenH - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}

	chatHeight := maxLinesOnScreen * lineHeight
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight = barY
		chatY = 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, int32(chatY), int32(screenW), int32(chatHeight), termChatBgColor)
	}
	lines := t.log.Lines()
	start := max(0, len(lines)-maxLinesOnScreen)
	for i := start; i < len(lines); i++ {
		y := chatY + (i-start)*lineHeight + padding
		t.text(clip(lines[i]), padding, y, rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	t.text(prompt+t.inputBuf+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) text(s string, x, y int, col rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, col)
		return
	}
	rl.DrawText(s, int32(x), int32(y), fontSize, col)
}

func clip(line string) string {
	if len(line) <= maxLineLen {
		return line
	}
	return line[:maxLineLen-3] + "..."
}
