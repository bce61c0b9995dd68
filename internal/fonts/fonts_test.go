package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("font"), 0o644))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Bold.ttf"))
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.TTF"))
	touch(t, filepath.Join(dir, "Serif.otf"))
	touch(t, filepath.Join(dir, "README.md"))

	got, err := ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inter/Inter-Bold.ttf", "Inter/Inter-Regular.TTF", "Serif.otf"}, got)

	missing, err := ScanDir(filepath.Join(dir, "nope"))
	assert.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Bold.ttf"))
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"))
	touch(t, filepath.Join(dir, "Noto_Serif", "NotoSerif-Italic.ttf"))

	tests := []struct {
		family string
		want   string
	}{
		{"Inter", "Inter-Regular.ttf"},
		{"inter bold", "Inter-Bold.ttf"},
		{"Noto Serif", "NotoSerif-Italic.ttf"},
		{"", "Inter-Regular.ttf"},
	}
	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			got, err := Find(dir, tt.family)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filepath.Base(got))
		})
	}

	_, err := Find(dir, "Comic")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
