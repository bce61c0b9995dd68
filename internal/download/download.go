// Package download fetches remote media into a local cache directory. Each URL is stored once,
// under a name derived from a hash of the URL, and re-used on later runs.
package download

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/115.0"
	defaultTimeout   = 60 * time.Second
	sniffLen         = 262
)

// ErrStatus is returned (wrapped) when the server answers with a non-200 status.
var ErrStatus = errors.New("unexpected HTTP status")

// Fetcher downloads URLs into Dir. The zero value is not usable; use New.
type Fetcher struct {
	Dir       string
	Client    *http.Client
	UserAgent string
}

// New returns a Fetcher storing files under dir.
func New(dir string) *Fetcher {
	return &Fetcher{
		Dir:       dir,
		Client:    &http.Client{Timeout: defaultTimeout},
		UserAgent: defaultUserAgent,
	}
}

// IsRemote reports whether url must go through a Fetcher.
func IsRemote(url string) bool {
	u := strings.ToLower(url)
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// LocalPath maps a file:// URL or plain path to a filesystem path.
func LocalPath(url string) string {
	if rest, ok := strings.CutPrefix(url, "file://"); ok {
		return rest
	}
	return url
}

// Key returns the cache file stem for url.
func Key(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:20]
}

// Cached returns the path of a previous download of url, if any.
func (f *Fetcher) Cached(url string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(f.Dir, Key(url)+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m, true
		}
	}
	return "", false
}

// Fetch returns a local path holding the bytes of url, downloading it if it is not cached yet.
// The extension comes from the URL path, then Content-Type, then the file's magic bytes.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if path, ok := f.Cached(url); ok {
		return path, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: %s: %w %d", url, ErrStatus, resp.StatusCode)
	}

	body := bufio.NewReaderSize(resp.Body, 4096)
	head, _ := body.Peek(sniffLen)
	ext := extensionFromURL(url)
	if ext == "" {
		ext = extensionFromContentType(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
			ext = "." + kind.Extension
		}
	}
	if ext == "" {
		ext = ".bin"
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	final := filepath.Join(f.Dir, Key(url)+ext)
	tmp := final + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download: %w", err)
	}
	return final, nil
}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "gif"):
		return ".gif"
	case strings.Contains(ct, "webp"):
		return ".webp"
	case strings.Contains(ct, "mp4"):
		return ".mp4"
	case strings.Contains(ct, "webm"):
		return ".webm"
	case strings.Contains(ct, "quicktime"):
		return ".mov"
	}
	return ""
}

func extensionFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".mp4", ".webm", ".mov", ".mkv":
		return ext
	}
	return ""
}
