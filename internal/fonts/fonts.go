// Package fonts finds caption fonts on disk.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

// BaseDirs returns candidate font directories: dir first, then the same path two levels up so
// running from cmd/pixels still finds the repo assets.
func BaseDirs(dir string) []string {
	if dir == "" {
		dir = "assets/fonts"
	}
	if filepath.IsAbs(dir) {
		return []string{dir}
	}
	return []string{dir, filepath.Join("..", "..", dir)}
}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf"),
// with forward slashes, sorted. A missing dir yields no files and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !slices.Contains(Exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	slices.Sort(out)
	return out, err
}

// normalizeForMatch lowercases and removes spaces, dashes and underscores.
func normalizeForMatch(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find returns the path of a font under dir whose relative path contains family (ignoring case,
// spaces, dashes and underscores). An empty family matches any font. When several match, a
// "Regular" face wins.
func Find(dir, family string) (string, error) {
	norm := normalizeForMatch(family)
	var matches []string
	for _, base := range BaseDirs(dir) {
		list, err := ScanDir(base)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalizeForMatch(rel), norm) {
				matches = append(matches, filepath.Join(base, filepath.FromSlash(rel)))
			}
		}
		if len(matches) > 0 {
			break
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("fonts: %q in %s: %w", family, dir, os.ErrNotExist)
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}
