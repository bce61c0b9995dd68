package commands

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCanvas struct {
	dark      []bool
	gotos     []rl.Vector3
	unfocused int
	purged    int
	fps       []bool
	stats     []bool
}

func (f *fakeCanvas) SetDark(d bool)         { f.dark = append(f.dark, d) }
func (f *fakeCanvas) Goto(p rl.Vector3)      { f.gotos = append(f.gotos, p) }
func (f *fakeCanvas) Unfocus()               { f.unfocused++ }
func (f *fakeCanvas) Purge()                 { f.purged++ }
func (f *fakeCanvas) SetShowFPS(show bool)   { f.fps = append(f.fps, show) }
func (f *fakeCanvas) SetShowStats(show bool) { f.stats = append(f.stats, show) }

func run(t *testing.T, r *Registry, line string) error {
	t.Helper()
	args, ok := Parse(line)
	require.True(t, ok, line)
	return r.Execute(args)
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		args []string
		ok   bool
	}{
		{"cmd theme --dark", []string{"theme", "--dark"}, true},
		{"cmd   goto  1 2  3 ", []string{"goto", "1", "2", "3"}, true},
		{"cmd ", nil, true},
		{"hello there", nil, false},
		{"CMD theme", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			args, ok := Parse(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestCanvasCommands(t *testing.T) {
	f := &fakeCanvas{}
	r := NewRegistry()
	RegisterCanvas(r, f, f)
	assert.Equal(t, []string{"fps", "goto", "purge", "stats", "theme", "unfocus"}, r.Names())

	require.NoError(t, run(t, r, "cmd theme --light"))
	require.NoError(t, run(t, r, "cmd theme --dark"))
	assert.Equal(t, []bool{false, true}, f.dark)

	require.NoError(t, run(t, r, "cmd fps --show"))
	require.NoError(t, run(t, r, "cmd stats --hide"))
	assert.Equal(t, []bool{true}, f.fps)
	assert.Equal(t, []bool{false}, f.stats)

	require.NoError(t, run(t, r, "cmd goto -110 0 -220.5"))
	assert.Equal(t, []rl.Vector3{{X: -110, Y: 0, Z: -220.5}}, f.gotos)

	require.NoError(t, run(t, r, "cmd unfocus"))
	require.NoError(t, run(t, r, "cmd purge"))
	assert.Equal(t, 1, f.unfocused)
	assert.Equal(t, 1, f.purged)
}

func TestCommandErrors(t *testing.T) {
	f := &fakeCanvas{}
	r := NewRegistry()
	RegisterCanvas(r, f, f)

	assert.ErrorIs(t, run(t, r, "cmd warp"), ErrUnknown)
	assert.ErrorIs(t, run(t, r, "cmd theme --dark --light"), errExclusive)
	assert.Error(t, run(t, r, "cmd theme"))
	assert.Error(t, run(t, r, "cmd theme --sepia"))
	assert.Error(t, run(t, r, "cmd goto 1 2"))
	assert.Error(t, run(t, r, "cmd goto a b c"))
	assert.ErrorContains(t, run(t, r, "cmd goto inf 0 0"), "not a finite coordinate")
	assert.ErrorContains(t, run(t, r, "cmd goto 0 NaN 0"), "not a finite coordinate")
	assert.Error(t, run(t, r, "cmd goto 0 0 1e40"))
	assert.Empty(t, f.gotos)

	require.NoError(t, run(t, r, "cmd goto 1e10 0 0"))
	assert.Equal(t, []rl.Vector3{{X: 1e10}}, f.gotos)
	assert.Error(t, run(t, r, "cmd "))
	assert.Empty(t, f.dark)
	assert.Empty(t, f.gotos)
}

func TestFlagsResetBetweenRuns(t *testing.T) {
	f := &fakeCanvas{}
	r := NewRegistry()
	RegisterCanvas(r, f, f)
	require.NoError(t, run(t, r, "cmd theme --dark"))
	require.NoError(t, run(t, r, "cmd theme --light"), "--dark from the last run must not linger")
	assert.Equal(t, []bool{true, false}, f.dark)
}

func TestHelp(t *testing.T) {
	r := NewRegistry()
	RegisterCanvas(r, &fakeCanvas{}, &fakeCanvas{})
	assert.Contains(t, r.Help(), "cmd theme --dark|--light")
	assert.Contains(t, r.Help(), "cmd goto X Y Z")
}
