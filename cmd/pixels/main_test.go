package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"pixels/internal/chunk"
	"pixels/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestChunkTable(t *testing.T) {
	out, err := execute(t, "chunk", "--media", "12", "--", "0", "0", "-1")
	require.NoError(t, err)

	key := chunk.Key{X: 0, Y: 0, Z: -1}
	planes := chunk.GeneratePlanes(key, chunk.DefaultSize, 12)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(planes)+1)
	assert.True(t, strings.HasPrefix(lines[0], "chunk 0,0,-1 (seed "))
	for i, p := range planes {
		assert.True(t, strings.HasPrefix(lines[i+1], p.ID), lines[i+1])
		assert.True(t, strings.HasSuffix(lines[i+1], "media="+strconv.Itoa(p.Media(12))), lines[i+1])
	}
}

func TestChunkYAMLMatchesLayout(t *testing.T) {
	out, err := execute(t, "chunk", "--yaml", "3", "1", "2")
	require.NoError(t, err)

	var got []planeOut
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	planes := chunk.GeneratePlanes(chunk.Key{X: 3, Y: 1, Z: 2}, chunk.DefaultSize, 0)
	require.Len(t, got, len(planes))
	for i, p := range planes {
		assert.Equal(t, p.ID, got[i].ID)
		assert.Equal(t, [3]float32{p.Position.X, p.Position.Y, p.Position.Z}, got[i].Position)
		assert.Equal(t, p.MediaIndex, got[i].Media, "raw index without --media")
	}
}

func TestChunkRejectsBadCoordinates(t *testing.T) {
	_, err := execute(t, "chunk", "1", "two", "3")
	assert.ErrorContains(t, err, `coordinate "two"`)

	_, err = execute(t, "chunk", "1", "2")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "pixels.yaml")

	out, err := execute(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), got)

	_, err = execute(t, "config", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, os.WriteFile(path, []byte("theme:\n  dark: false\n"), 0644))
	_, err = execute(t, "config", "init", "--path", path, "--force")
	require.NoError(t, err)
	got, err = config.Load(path)
	require.NoError(t, err)
	assert.True(t, got.Theme.Dark)
}

func TestLoadPrefsFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixels.yaml")
	p := config.Default()
	p.Paths.Catalog = "from-file.yaml"
	p.Window.Fullscreen = true
	require.NoError(t, config.Save(path, p))
	t.Setenv("PIXELS_CATALOG", "")
	t.Setenv("PIXELS_LOG_LEVEL", "")
	t.Setenv("PIXELS_FULLSCREEN", "")

	f := runFlags{config: path}
	got, _ := loadPrefs(f, false)
	assert.Equal(t, "from-file.yaml", got.Paths.Catalog)
	assert.True(t, got.Window.Fullscreen)

	f = runFlags{config: path, catalog: "flag.json", logLevel: "debug"}
	got, _ = loadPrefs(f, true)
	assert.Equal(t, "flag.json", got.Paths.Catalog)
	assert.Equal(t, "debug", got.Debug.LogLevel)
	assert.False(t, got.Window.Fullscreen)
}

func TestSceneOptionsCopiesTuning(t *testing.T) {
	p := config.Default()
	p.Scene.ChunkSize = 80
	p.Scene.RenderDistance = 3
	p.Scene.DecodeWorkers = 7
	p.Theme.Dark = false
	p.Paths.MediaCache = "cache"

	opts, err := sceneOptions(p, true)
	require.NoError(t, err)
	assert.Equal(t, float32(80), opts.ChunkSize)
	assert.Equal(t, 3, opts.RenderDistance)
	assert.Equal(t, 7, opts.DecodeWorkers)
	assert.Equal(t, p.Scene.IdleBudgetMillis, opts.IdleBudgetMillis)
	assert.False(t, opts.Dark)
	assert.Equal(t, "cache", opts.MediaCacheDir)
	assert.True(t, opts.SkipIntro)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}
