// Package browse tracks the ordered image list of the active folder and
// which entry is on screen. Navigation wraps around at both ends.
package browse

import (
	"github.com/miturka/FWinPhotoViewer/internal/log"
)

// Lister enumerates the supported image files of one folder in sorted
// order. *scan.Scanner satisfies it.
type Lister interface {
	Images(folder string) ([]string, error)
}

// Cursor holds the active folder's image paths and the selected position.
// It is not safe for concurrent use; callers serialize access.
type Cursor struct {
	lister Lister
	folder string
	files  []string
	index  int
}

// NewCursor returns a cursor with no folder selected.
func NewCursor(lister Lister) *Cursor {
	return &Cursor{lister: lister}
}

// SelectFolder enumerates folder and makes its first image the current one.
// It returns the number of images found. On enumeration failure the cursor
// keeps its previous folder and position untouched.
func (c *Cursor) SelectFolder(folder string) (int, error) {
	files, err := c.lister.Images(folder)
	if err != nil {
		return 0, err
	}
	c.folder = folder
	c.files = files
	c.index = 0
	log.LogWithFields(
		log.F("folder", folder),
		log.F("count", len(files)),
	).Debug("Folder selected")
	return len(files), nil
}

// Current returns the path under the cursor. The second result is false
// when no folder is selected or the folder holds no images.
func (c *Cursor) Current() (string, bool) {
	if len(c.files) == 0 {
		return "", false
	}
	return c.files[c.index], true
}

// Next advances the cursor one image, wrapping from the last back to the
// first, and returns the new current path.
func (c *Cursor) Next() (string, bool) {
	if len(c.files) == 0 {
		return "", false
	}
	c.index = (c.index + 1) % len(c.files)
	return c.files[c.index], true
}

// Previous moves the cursor back one image, wrapping from the first to the
// last, and returns the new current path.
func (c *Cursor) Previous() (string, bool) {
	if len(c.files) == 0 {
		return "", false
	}
	c.index = (c.index - 1 + len(c.files)) % len(c.files)
	return c.files[c.index], true
}

// Len returns the number of images in the active folder.
func (c *Cursor) Len() int {
	return len(c.files)
}

// Index returns the zero-based position of the current image, -1 when the
// list is empty.
func (c *Cursor) Index() int {
	if len(c.files) == 0 {
		return -1
	}
	return c.index
}

// Folder returns the active folder path, empty when none is selected.
func (c *Cursor) Folder() string {
	return c.folder
}

// Position returns the 1-based position of the current image and the list
// length, for "3/12" style status display. Both are zero when the list is
// empty.
func (c *Cursor) Position() (int, int) {
	if len(c.files) == 0 {
		return 0, 0
	}
	return c.index + 1, len(c.files)
}

// Refresh re-enumerates the active folder. The cursor stays on the same
// path when it still exists; otherwise it clamps to the nearest valid
// position. Refresh on a cursor without a folder is a no-op.
func (c *Cursor) Refresh() error {
	if c.folder == "" {
		return nil
	}
	current, _ := c.Current()
	files, err := c.lister.Images(c.folder)
	if err != nil {
		return err
	}
	old := c.index
	c.files = files
	for i, f := range files {
		if f == current {
			c.index = i
			return nil
		}
	}
	switch {
	case len(files) == 0:
		c.index = 0
	case old >= len(files):
		c.index = len(files) - 1
	default:
		c.index = old
	}
	return nil
}
