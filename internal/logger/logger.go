package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLogFilePath is the log file used when no path is configured, relative to the working directory.
const DefaultLogFilePath = "logs/pixels.txt"

// maxLines bounds the in-memory history shown by the debug console.
const maxLines = 512

// Logger stores lines of text in memory (for the debug console) and appends them to a file on disk.
// Structured records go through Slog, which formats them with slog's text handler and feeds them
// back into the same line buffer and file.
type Logger struct {
	mu      sync.Mutex
	path    string
	lines   []string
	session string
	slog    *slog.Logger
}

// New returns a Logger writing to path (DefaultLogFilePath when empty) and ensures its directory exists.
// level is the minimum level for structured records.
func New(path string, level slog.Level) *Logger {
	if path == "" {
		path = DefaultLogFilePath
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	l := &Logger{
		path:    path,
		lines:   make([]string, 0, 64),
		session: uuid.NewString(),
	}
	h := slog.NewTextHandler(lineWriter{l}, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Log already stamps every line.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	l.slog = slog.New(h).With("session", l.session[:8])
	return l
}

// Discard returns a structured logger that drops every record. Used by tests and headless tools.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Slog returns the structured logger backed by this Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Session returns the id attached to every record of this process.
func (l *Logger) Session() string {
	return l.session
}

// Log appends a line to the logger and to the log file. Each entry is prefixed with [timestamp].
func (l *Logger) Log(line string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + line

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	if len(l.lines) > maxLines {
		l.lines = append(l.lines[:0], l.lines[len(l.lines)-maxLines:]...)
	}
	l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// lineWriter adapts slog's handler output (one record per Write) to Log.
type lineWriter struct{ l *Logger }

func (w lineWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if s := strings.TrimSpace(string(line)); s != "" {
			w.l.Log(s)
		}
	}
	return len(p), nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
