package ambient

import (
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDustStaysAroundCamera(t *testing.T) {
	d := NewDust(200, 50, 7)
	require.Equal(t, 200, d.Len())

	cam := rl.Vector3{}
	for i := 0; i < 120; i++ {
		cam.Z -= 3
		cam.X += 0.5
		d.Update(cam)
	}
	limit := float32(50 + dustAmplitude + 1e-3)
	for _, p := range d.Positions() {
		assert.LessOrEqual(t, math32.Abs(p.X-cam.X), limit)
		assert.LessOrEqual(t, math32.Abs(p.Y-cam.Y), limit)
		assert.LessOrEqual(t, math32.Abs(p.Z-cam.Z), limit)
	}
	assert.Positive(t, d.Wraps())
}

func TestDustJumpWrapsFar(t *testing.T) {
	d := NewDust(10, 20, 1)
	cam := rl.NewVector3(1000, -1000, 5000)
	d.Update(cam)
	for _, p := range d.Positions() {
		assert.LessOrEqual(t, math32.Abs(p.Z-cam.Z), float32(20+dustAmplitude+1e-3))
	}
}

func TestDustWrapIsBoundedForExtremeCameras(t *testing.T) {
	tests := []struct {
		name string
		cam  rl.Vector3
	}{
		{"huge", rl.NewVector3(1e10, 0, -1e10)},
		{"max float", rl.NewVector3(math32.MaxFloat32, 0, 0)},
		{"infinite", rl.NewVector3(math32.Inf(1), 0, math32.Inf(-1))},
		{"nan", rl.NewVector3(math32.NaN(), 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDust(20, 50, 3)
			d.Update(tt.cam)
			d.Update(rl.Vector3{})
			for _, p := range d.Positions() {
				assert.LessOrEqual(t, math32.Abs(p.X), float32(50+dustAmplitude+1e-3))
				assert.LessOrEqual(t, math32.Abs(p.Z), float32(50+dustAmplitude+1e-3))
			}
		})
	}
}

func TestDustWrapFoldsIntoRange(t *testing.T) {
	d := NewDust(0, 10, 0)
	assert.Equal(t, float32(5), d.wrap(5, 0))
	assert.InDelta(t, -5, d.wrap(15, 0), 1e-4)
	assert.InDelta(t, 5, d.wrap(-15, 0), 1e-4)
	assert.InDelta(t, 101, d.wrap(1, 100), 1e-4)
	assert.Equal(t, 3, d.Wraps())
}

func TestDustDeterministic(t *testing.T) {
	a := NewDust(16, 30, 42)
	b := NewDust(16, 30, 42)
	c := NewDust(16, 30, 43)
	assert.Equal(t, a.Positions(), b.Positions())
	assert.NotEqual(t, a.Positions(), c.Positions())
}

func TestDustDefaults(t *testing.T) {
	d := NewDust(-1, 0, 0)
	assert.Zero(t, d.Len())
	assert.Equal(t, float32(DefaultDustRadius), d.radius)
}

func TestAtmosphereFallback(t *testing.T) {
	a := NewAtmosphere(true, "not-a-colour", "#ffffff")
	assert.Equal(t, DefaultDarkColor, a.Hex())
	assert.Equal(t, rl.NewColor(11, 11, 14, 255), a.Color())
}

func TestAtmosphereEasesBetweenThemes(t *testing.T) {
	a := NewAtmosphere(true, "#000000", "#ffffff")
	assert.True(t, a.Settled())

	a.SetDark(false)
	assert.False(t, a.Dark())
	a.Update()
	first := a.Color()
	assert.Greater(t, first.R, uint8(0))
	assert.Less(t, first.R, uint8(40), "one step is a small blend")

	prev := first.R
	for i := 0; i < 400 && !a.Settled(); i++ {
		a.Update()
		assert.GreaterOrEqual(t, a.Color().R, prev)
		prev = a.Color().R
	}
	require.True(t, a.Settled())
	assert.Equal(t, "#ffffff", a.Hex())
}

func TestDustTintContrasts(t *testing.T) {
	dark := NewAtmosphere(true, "", "")
	light := NewAtmosphere(false, "", "")
	assert.Equal(t, uint8(255), dark.DustTint().R)
	assert.Equal(t, uint8(0), light.DustTint().R)
}
