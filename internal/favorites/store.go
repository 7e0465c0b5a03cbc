// Package favorites persists the user's favorite image paths across runs.
//
// The set lives in favorites.json under the per-user config directory. The
// in-memory set is authoritative: a failed save is reported but never rolls
// back a toggle, and a missing or malformed file on load simply starts the
// set empty.
package favorites

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	serr "github.com/miturka/FWinPhotoViewer/internal/errors"
	"github.com/miturka/FWinPhotoViewer/internal/log"
)

const appDirName = "FWinPhotoViewer"

// fileFormat is the on-disk JSON shape.
type fileFormat struct {
	Favorites []string `json:"favorites"`
}

// Store is the favorites set. It is not safe for concurrent use; callers
// serialize access.
type Store struct {
	path string
	favs map[string]struct{}
}

// NewStore opens the store at its default location,
// <user config dir>/FWinPhotoViewer/favorites.json, loading any existing
// set. When no per-user config directory can be resolved the store runs
// in memory only and toggles do not survive the process.
func NewStore() *Store {
	base, err := os.UserConfigDir()
	if err != nil {
		log.LogWithFields(log.F("error", err)).Warn("No config directory, favorites will not persist")
		return &Store{favs: map[string]struct{}{}}
	}
	return NewStoreAt(filepath.Join(base, appDirName, "favorites.json"))
}

// NewStoreAt opens the store backed by the given file, loading any
// existing set. Load problems degrade to an empty set.
func NewStoreAt(path string) *Store {
	s := &Store{path: path, favs: map[string]struct{}{}}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.LogWithFields(log.F("path", s.path), log.F("error", err)).Warn("Cannot read favorites file")
		}
		return
	}
	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		log.LogWithFields(log.F("path", s.path), log.F("error", err)).Warn("Malformed favorites file, starting empty")
		return
	}
	for _, p := range ff.Favorites {
		s.favs[canonical(p)] = struct{}{}
	}
	log.LogWithFields(log.F("count", len(s.favs))).Debug("Favorites loaded")
}

// canonical normalizes a path so the same file always yields the same set
// key. Paths are made absolute and cleaned; letter case is preserved.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Toggle flips the favorite status of path and persists the set. It returns
// the new status. The in-memory flip always happens; a persistence failure
// comes back as the error with the flip intact.
func (s *Store) Toggle(path string) (bool, error) {
	key := canonical(path)
	_, was := s.favs[key]
	if was {
		delete(s.favs, key)
	} else {
		s.favs[key] = struct{}{}
	}
	return !was, s.save()
}

// IsFavorite reports whether path is in the set.
func (s *Store) IsFavorite(path string) bool {
	_, ok := s.favs[canonical(path)]
	return ok
}

// All returns the favorite paths in sorted order.
func (s *Store) All() []string {
	out := make([]string, 0, len(s.favs))
	for p := range s.favs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Count returns the size of the set.
func (s *Store) Count() int {
	return len(s.favs)
}

// Path returns the backing file, empty for a memory-only store.
func (s *Store) Path() string {
	return s.path
}

// save writes the set atomically: the JSON goes to a temp file in the same
// directory which then replaces favorites.json, so a crash mid-write never
// leaves a torn file behind.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return serr.NewFileError("cannot create favorites directory", dir, serr.PersistFailed, err)
	}

	data, err := json.MarshalIndent(fileFormat{Favorites: s.All()}, "", "  ")
	if err != nil {
		return serr.Wrap(err, "encode favorites")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".favorites-*.json")
	if err != nil {
		return serr.NewFileError("cannot write favorites", s.path, serr.PersistFailed, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return serr.NewFileError("cannot write favorites", s.path, serr.PersistFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return serr.NewFileError("cannot write favorites", s.path, serr.PersistFailed, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return serr.NewFileError("cannot replace favorites file", s.path, serr.PersistFailed, err)
	}
	return nil
}
