// Package viewer is the embedding surface a GUI shell talks to. It owns the
// navigation cursor and the favorites store and serializes every state
// mutation, so a shell may call it from its event loop and from watcher
// callbacks alike.
package viewer

import (
	"sync"

	"github.com/miturka/FWinPhotoViewer/internal/browse"
	serr "github.com/miturka/FWinPhotoViewer/internal/errors"
	"github.com/miturka/FWinPhotoViewer/internal/export"
	"github.com/miturka/FWinPhotoViewer/internal/favorites"
	"github.com/miturka/FWinPhotoViewer/internal/imaging"
	"github.com/miturka/FWinPhotoViewer/pkg/types"
)

// Viewer bundles folder navigation, decoding, favorites and export behind
// one concurrency-safe surface.
type Viewer struct {
	mu       sync.Mutex
	cursor   *browse.Cursor
	store    *favorites.Store
	exporter *export.Engine
}

// New builds a viewer over the given folder lister and favorites store.
func New(lister browse.Lister, store *favorites.Store) *Viewer {
	return &Viewer{
		cursor:   browse.NewCursor(lister),
		store:    store,
		exporter: export.New(),
	}
}

// SelectFolder makes folder the active one and returns its image count.
// On failure the previous folder stays active.
func (v *Viewer) SelectFolder(folder string) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor.SelectFolder(folder)
}

// Current returns the path under the cursor, false when nothing is selected.
func (v *Viewer) Current() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor.Current()
}

// Next advances to the following image, wrapping past the end.
func (v *Viewer) Next() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor.Next()
}

// Previous steps back one image, wrapping before the start.
func (v *Viewer) Previous() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor.Previous()
}

// Position returns the 1-based cursor position and list length.
func (v *Viewer) Position() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor.Position()
}

// Folder returns the active folder, empty when none is selected.
func (v *Viewer) Folder() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor.Folder()
}

// Refresh re-enumerates the active folder, keeping the cursor on the same
// image when it still exists. Watch callbacks use this after a change.
func (v *Viewer) Refresh() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor.Refresh()
}

// Decode reads and orients the image at path. A failed decode leaves
// navigation untouched; the shell keeps showing what it had.
func (v *Viewer) Decode(path string) (*imaging.DecodedImage, error) {
	return imaging.Decode(path)
}

// DecodeCurrent decodes the image under the cursor.
func (v *Viewer) DecodeCurrent() (*imaging.DecodedImage, error) {
	path, ok := v.Current()
	if !ok {
		return nil, serr.New("no image selected")
	}
	return imaging.Decode(path)
}

// IsFavorite reports whether path is a favorite.
func (v *Viewer) IsFavorite(path string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store.IsFavorite(path)
}

// Toggle flips the favorite status of path, persisting the set. The new
// status comes back even when persisting fails.
func (v *Viewer) Toggle(path string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store.Toggle(path)
}

// ToggleCurrent flips the favorite status of the image under the cursor.
func (v *Viewer) ToggleCurrent() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	path, ok := v.cursor.Current()
	if !ok {
		return false, serr.New("no image selected")
	}
	return v.store.Toggle(path)
}

// FavoriteCount returns the size of the favorites set across all folders.
func (v *Viewer) FavoriteCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store.Count()
}

// Export copies the favorites of the active folder into destination.
func (v *Viewer) Export(destination string) (*types.ExportResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cursor.Folder() == "" {
		return nil, serr.New("no folder selected")
	}
	return v.exporter.Run(v.store.All(), v.cursor.Folder(), destination)
}
