package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the scanned directory, or the file
	// name for inputs named directly.
	RelPath string
	// BaseName is the file name without its extension.
	BaseName string
	// Format is the source format taken from the extension.
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

var extPattern = regexp.MustCompile(`\.\w+$`)

// ScanImages resolves inputs into image sources. Directories are walked
// (hidden directories skipped, image extensions only); files are taken as
// given. A file reached twice is listed once. Sources are ordered by
// absolute path.
func ScanImages(inputs ...string) ([]Source, error) {
	var sources []Source
	seen := map[string]bool{}

	add := func(path, rel string, size int64) {
		if seen[path] {
			return
		}
		seen[path] = true
		name := filepath.Base(path)
		sources = append(sources, Source{
			AbsPath:  path,
			RelPath:  filepath.ToSlash(rel),
			BaseName: extPattern.ReplaceAllString(name, ""),
			Format:   formatOf(path),
			Size:     size,
		})
	}

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", input, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(abs, filepath.Base(abs), info.Size())
			continue
		}

		err = filepath.Walk(abs, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				// Skip hidden directories.
				if path != abs && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			rel, err := filepath.Rel(abs, path)
			if err != nil {
				return err
			}
			add(path, rel, info.Size())
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].AbsPath < sources[j].AbsPath
	})
	return sources, nil
}

// formatOf normalizes the extension of path to a format name.
func formatOf(path string) string {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch format {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return format
}
