// Package catalog loads the list of media the canvas shows. The list is produced elsewhere (a CMS
// export, a hand-written file); the canvas only reads it once at startup.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"gopkg.in/yaml.v3"
)

// Kind is the media type of an item.
type Kind string

const (
	Image Kind = "image"
	Video Kind = "video"
)

// ErrEmpty is returned by Load when the file holds no usable item.
var ErrEmpty = errors.New("catalog: no media items")

// MediaItem describes one image or video. Width or Height of 0 means the aspect ratio is unknown
// until the media is decoded.
type MediaItem struct {
	URL    string `json:"url" yaml:"url"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Type   Kind   `json:"type,omitempty" yaml:"type,omitempty"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Aspect returns width/height, or 0 when either dimension is unknown.
func (m MediaItem) Aspect() float32 {
	if m.Width <= 0 || m.Height <= 0 {
		return 0
	}
	return float32(m.Width) / float32(m.Height)
}

// IsVideo reports whether the item should be played as a video.
func (m MediaItem) IsVideo() bool {
	return m.Type == Video
}

// document is the object form of a catalog file: {"items": [...]}.
type document struct {
	Items []MediaItem `json:"items" yaml:"items"`
}

// Load reads a catalog from path. JSON (.json) and YAML (.yaml, .yml) are accepted; both may be a
// bare list or an object with an "items" list. Items without a URL are dropped; items without a
// type get one inferred from the URL extension.
func Load(path string, log *slog.Logger) ([]MediaItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var items []MediaItem
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		items, err = decodeJSON(data)
	case ".yaml", ".yml":
		items, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("catalog: %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return Normalize(items, log)
}

// Normalize drops unusable items and fills in missing types. It returns ErrEmpty when nothing is left.
func Normalize(items []MediaItem, log *slog.Logger) ([]MediaItem, error) {
	out := make([]MediaItem, 0, len(items))
	for i, it := range items {
		it.URL = strings.TrimSpace(it.URL)
		if it.URL == "" {
			log.Warn("catalog item without url dropped", "index", i)
			continue
		}
		if it.Width < 0 || it.Height < 0 {
			it.Width, it.Height = 0, 0
		}
		switch it.Type {
		case Image, Video:
		case "":
			it.Type = InferKind(it.URL)
		default:
			log.Warn("catalog item has unknown type, treating as image", "url", it.URL, "type", it.Type)
			it.Type = Image
		}
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// InferKind guesses the media kind from the extension of a URL or file path.
// Anything filetype does not recognise as a video is treated as an image.
func InferKind(rawURL string) Kind {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	if ext == "" || !filetype.IsSupported(ext) {
		return Image
	}
	if filetype.GetType(ext).MIME.Type == "video" {
		return Video
	}
	return Image
}

func decodeJSON(data []byte) ([]MediaItem, error) {
	var items []MediaItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func decodeYAML(data []byte) ([]MediaItem, error) {
	var items []MediaItem
	if err := yaml.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}
