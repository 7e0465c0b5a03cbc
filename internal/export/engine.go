// Package export copies favorited files out of the active folder into a
// destination directory without ever overwriting an existing file.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	serr "github.com/miturka/FWinPhotoViewer/internal/errors"
	"github.com/miturka/FWinPhotoViewer/internal/log"
	"github.com/miturka/FWinPhotoViewer/pkg/types"
)

// Engine runs favorite exports. The zero value is ready to use.
type Engine struct{}

// New returns an export engine.
func New() *Engine {
	return &Engine{}
}

// Run copies the favorites that live directly in folder into destination.
// Favorites from other folders are left out of the batch entirely; a
// favorite whose file no longer exists is counted as skipped. One file
// failing to copy does not stop the rest. Run only fails as a whole when
// the destination directory cannot be created.
func (e *Engine) Run(favorites []string, folder, destination string) (*types.ExportResult, error) {
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return nil, serr.NewFileError("cannot create export destination", destination, serr.FileOperationFailed, err)
	}

	scope := resolveDir(folder)
	result := &types.ExportResult{}
	for _, fav := range favorites {
		if resolveDir(filepath.Dir(fav)) != scope {
			continue
		}
		outcome := e.exportOne(fav, destination)
		switch {
		case outcome.Copied:
			result.Copied++
		case outcome.Error != nil:
			result.Failed++
			log.LogWithFields(
				log.F("source", outcome.SourcePath),
				log.F("error", outcome.Error),
			).Warn("Export failed for file")
		default:
			result.Skipped++
		}
		result.Files = append(result.Files, outcome)
	}

	log.LogWithFields(
		log.F("destination", destination),
		log.F("copied", result.Copied),
		log.F("skipped", result.Skipped),
		log.F("failed", result.Failed),
	).Info("Export finished")
	return result, nil
}

func (e *Engine) exportOne(src, destination string) types.FileOutcome {
	outcome := types.FileOutcome{SourcePath: src}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			log.LogWithFields(log.F("source", src)).Debug("Favorite no longer exists, skipping")
			return outcome
		}
		outcome.Error = serr.NewFileError("cannot read export source", src, serr.FileAccessDenied, err)
		return outcome
	}

	dest := filepath.Join(destination, filepath.Base(src))
	finalDest, err := uniqueDestName(dest)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Renamed = finalDest != dest

	if err := copyFile(src, finalDest, info); err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.DestinationPath = finalDest
	outcome.Copied = true
	return outcome
}

// resolveDir canonicalizes a directory for scope comparison, following
// symlinks when the directory exists.
func resolveDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = filepath.Clean(dir)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// uniqueDestName returns path itself when unused, otherwise the first free
// name with a numeric suffix before the extension: photo.jpg, photo_1.jpg,
// photo_2.jpg, ...
func uniqueDestName(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; counter <= 10000; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", serr.NewFileError("no free destination name", path, serr.FileOperationFailed, nil)
}

// copyFile copies content and preserves the source's permission bits and
// modification time. The destination is created exclusively so a probe/create
// race cannot clobber an existing file.
func copyFile(src, dest string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return serr.NewFileError("cannot open export source", src, serr.FileAccessDenied, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return serr.NewFileError("cannot create export copy", dest, serr.FileOperationFailed, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return serr.NewFileError("cannot write export copy", dest, serr.FileOperationFailed, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return serr.NewFileError("cannot write export copy", dest, serr.FileOperationFailed, err)
	}
	if err := os.Chtimes(dest, time.Now(), info.ModTime()); err != nil {
		log.LogWithFields(log.F("path", dest), log.F("error", err)).Debug("Cannot preserve modification time")
	}
	return nil
}
