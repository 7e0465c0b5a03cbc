// Package scan enumerates the image files of a folder tree.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	serr "github.com/miturka/FWinPhotoViewer/internal/errors"
	"github.com/miturka/FWinPhotoViewer/internal/log"

	"github.com/gobwas/glob"
)

// supportedExts is the set of image file extensions the viewer handles,
// matched case-insensitively.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".gif":  true,
	".heic": true,
	".heif": true,
}

// IsSupported reports whether a file name carries a supported image extension.
func IsSupported(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// Scanner walks folders for supported images, optionally skipping entries
// that match user-configured exclude patterns.
type Scanner struct {
	excludes []glob.Glob
}

// New creates a Scanner. Each pattern is matched against the path relative
// to the scanned folder.
func New(excludePatterns ...string) (*Scanner, error) {
	s := &Scanner{}
	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, serr.NewConfigError("invalid exclude pattern", pattern, serr.InvalidConfig, err)
		}
		s.excludes = append(s.excludes, g)
	}
	return s, nil
}

// Images recursively lists the supported image files under folder, sorted
// ascending by full path. An empty result is a valid outcome; an unreadable
// folder is a typed error.
func (s *Scanner) Images(folder string) ([]string, error) {
	folder = filepath.Clean(folder)

	info, err := os.Stat(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serr.NewFileError("folder not found", folder, serr.FileNotFound, err)
		}
		if os.IsPermission(err) {
			return nil, serr.NewFileError("folder not readable", folder, serr.FileAccessDenied, err)
		}
		return nil, serr.NewFileError("cannot access folder", folder, serr.FileOperationFailed, err)
	}
	if !info.IsDir() {
		return nil, serr.NewFileError("not a directory", folder, serr.InvalidPath, nil)
	}

	files := make([]string, 0, 64)
	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subdirectories are skipped rather than failing
			// the whole enumeration; only the root is a hard error above.
			log.LogWithFields(log.F("path", path), log.F("error", walkErr)).Warn("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		// Symlinks are not followed; only regular files qualify.
		if !d.Type().IsRegular() {
			return nil
		}
		if !IsSupported(d.Name()) {
			return nil
		}
		if s.excluded(folder, path) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		files = append(files, abs)
		return nil
	})
	if err != nil {
		return nil, serr.NewFileError("folder enumeration failed", folder, serr.FileOperationFailed, err)
	}

	sort.Strings(files)
	log.LogWithFields(log.F("folder", folder), log.F("count", len(files))).Debug("Enumerated images")
	return files, nil
}

func (s *Scanner) excluded(folder, path string) bool {
	if len(s.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(folder, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, g := range s.excludes {
		if g.Match(rel) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}

// Images enumerates folder with a pattern-free scanner. Convenience wrapper
// for callers that have nothing to exclude.
func Images(folder string) ([]string, error) {
	s, _ := New()
	return s.Images(folder)
}
