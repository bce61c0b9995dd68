package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWritesMemoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pixels.txt")
	l := New(path, slog.LevelInfo)

	l.Log("hello")
	l.Slog().Info("chunk mounted", "key", "0,0,0")
	l.Slog().Debug("hidden")

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "] hello"))
	assert.Contains(t, lines[1], `msg="chunk mounted"`)
	assert.Contains(t, lines[1], "key=0,0,0")
	assert.Contains(t, lines[1], "session="+l.Session()[:8])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestLinesAreBounded(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "log.txt"), slog.LevelInfo)
	for i := 0; i < maxLines+10; i++ {
		l.Log("x")
	}
	assert.Len(t, l.Lines(), maxLines)
}
