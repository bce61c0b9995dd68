package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"

	"pixels/internal/catalog"
	"pixels/internal/download"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

// FileLoader decodes media from local paths, file:// URLs and http(s) URLs (through Fetcher).
type FileLoader struct {
	Fetcher        *download.Fetcher
	MaxTextureSize int
	Log            *slog.Logger
}

// NewFileLoader returns a loader fetching remote media into cacheDir.
func NewFileLoader(cacheDir string, maxTextureSize int, log *slog.Logger) *FileLoader {
	if maxTextureSize <= 0 {
		maxTextureSize = DefaultMaxTextureSize
	}
	return &FileLoader{
		Fetcher:        download.New(cacheDir),
		MaxTextureSize: maxTextureSize,
		Log:            log,
	}
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, item catalog.MediaItem) (*Decoded, error) {
	path, err := l.resolve(ctx, item.URL)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if item.IsVideo() {
		return openVideo(path, l.MaxTextureSize, l.Log)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	if filetype.IsVideo(data) {
		return openVideo(path, l.MaxTextureSize, l.Log)
	}
	img, err := DecodeImage(data, l.MaxTextureSize)
	if err != nil {
		return nil, fmt.Errorf("media: %s: %w", item.URL, err)
	}
	return &Decoded{Image: img}, nil
}

func (l *FileLoader) resolve(ctx context.Context, url string) (string, error) {
	if !download.IsRemote(url) {
		return download.LocalPath(url), nil
	}
	if l.Fetcher == nil {
		return "", fmt.Errorf("media: %s: %w", url, ErrUnsupported)
	}
	return l.Fetcher.Fetch(ctx, url)
}

// DecodeImage decodes png, jpeg, gif or webp bytes and fits the result within maxSize.
func DecodeImage(data []byte, maxSize int) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupported
		}
		return nil, err
	}
	return Fit(img, maxSize), nil
}

// Fit returns img as tightly packed RGBA, downscaled so neither side exceeds maxSize while
// keeping its aspect. maxSize <= 0 disables scaling.
func Fit(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		scale := float64(maxSize) / float64(max(w, h))
		nw := max(1, int(math.Round(float64(w)*scale)))
		nh := max(1, int(math.Round(float64(h)*scale)))
		return transform.Resize(img, nw, nh, transform.Linear)
	}
	out := clone.AsRGBA(img)
	if out.Rect.Min != (image.Point{}) || out.Stride != 4*w {
		packed := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(packed.Pix[y*packed.Stride:(y+1)*packed.Stride], out.Pix[out.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return packed
	}
	return out
}
