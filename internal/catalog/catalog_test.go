package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"pixels/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoadJSONArray(t *testing.T) {
	p := writeFile(t, "media.json", `[
		{"url": "https://cdn.example.com/a.jpg", "width": 1600, "height": 900, "title": "A"},
		{"url": "clips/b.mp4"},
		{"url": "  "}
	]`)
	items, err := Load(p, logger.Discard())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Image, items[0].Type)
	assert.InDelta(t, 16.0/9.0, items[0].Aspect(), 1e-6)
	assert.Equal(t, Video, items[1].Type)
	assert.Zero(t, items[1].Aspect())
}

func TestLoadYAMLDocument(t *testing.T) {
	p := writeFile(t, "catalog.yaml", `items:
  - url: assets/media/one.webp
    width: 800
    height: 800
  - url: assets/media/two.png
    type: video
`)
	items, err := Load(p, logger.Discard())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Image, items[0].Type)
	assert.Equal(t, Video, items[1].Type, "explicit type wins over extension")
}

func TestLoadEmpty(t *testing.T) {
	p := writeFile(t, "media.json", `{"items": []}`)
	_, err := Load(p, logger.Discard())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	p := writeFile(t, "media.txt", `[]`)
	_, err := Load(p, logger.Discard())
	assert.Error(t, err)
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		url  string
		want Kind
	}{
		{"a.jpg", Image},
		{"a.PNG", Image},
		{"https://x.test/v/clip.webm?token=1", Video},
		{"movie.mp4", Video},
		{"no-extension", Image},
		{"weird.xyz123", Image},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.url))
		})
	}
}

func TestNormalizeUnknownTypeAndNegativeSize(t *testing.T) {
	items, err := Normalize([]MediaItem{{URL: "a.gif", Type: "audio", Width: -1, Height: 10}}, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, Image, items[0].Type)
	assert.Zero(t, items[0].Width)
	assert.Zero(t, items[0].Height)
}
