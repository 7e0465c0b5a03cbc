// Package watch monitors the active folder for image file changes using
// fsnotify and fires a debounced notification, so the viewer can refresh
// its file list while the folder is open.
package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/miturka/FWinPhotoViewer/internal/log"
	"github.com/miturka/FWinPhotoViewer/internal/scan"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one folder at a time. Image files appearing, changing
// or disappearing reset a debounce timer; when the folder settles, the
// onChange callback fires once on the watcher goroutine.
type Watcher struct {
	// Lock for running state and the watched folder
	mutex sync.Mutex

	fsWatcher *fsnotify.Watcher
	folder    string
	debounce  time.Duration
	onChange  func()

	// Channel to signal stop
	stopChan chan struct{}

	// Whether the watcher is running
	running bool
}

// New creates a folder watcher. onChange runs after a burst of changes has
// been quiet for the debounce interval.
func New(debounce time.Duration, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		debounce:  debounce,
		onChange:  onChange,
		stopChan:  make(chan struct{}),
	}, nil
}

// SetFolder switches the watched folder. The previous folder, if any, is
// dropped first.
func (w *Watcher) SetFolder(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.folder != "" {
		if err := w.fsWatcher.Remove(w.folder); err != nil {
			log.LogWithFields(log.F("directory", w.folder), log.F("error", err)).Warn("Cannot unwatch directory")
		}
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		w.folder = ""
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	w.folder = dir
	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Folder returns the watched folder, empty when none is set.
func (w *Watcher) Folder() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.folder
}

// Start begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.mutex.Unlock()

	go w.loop()
	log.Info("Watcher started")
	return nil
}

func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			log.LogWithFields(log.F("file", event.Name), log.F("op", event.Op.String())).Debug("Folder changed")
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.onChange()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// relevant filters for events that can change the image list: supported
// image files being created, written, renamed or removed.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return scan.IsSupported(event.Name)
}

// Stop halts the watcher and closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running {
		return
	}
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
	log.Info("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active.
func (w *Watcher) IsRunning() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.running
}
