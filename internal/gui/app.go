// Package gui is the fyne shell over the viewer core: one window showing
// the current image, toolbar and keyboard navigation, favorite toggling
// and export.
package gui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/miturka/FWinPhotoViewer/internal/config"
	"github.com/miturka/FWinPhotoViewer/internal/log"
	"github.com/miturka/FWinPhotoViewer/internal/viewer"
	"github.com/miturka/FWinPhotoViewer/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	core       *viewer.Viewer
	watcher    *watch.Watcher

	image       *canvas.Image
	statusLabel *widget.Label
	favAction   *widget.ToolbarAction
	toolBar     *widget.Toolbar
}

// NewApp creates the GUI application over the viewer core.
func NewApp(cfg *config.Config, core *viewer.Viewer) *App {
	// Create app with a unique ID for preferences storage
	fyneApp := app.NewWithID("com.github.miturka.fwinphotoviewer")

	a := &App{
		fyneApp: fyneApp,
		cfg:     cfg,
		core:    core,
	}
	a.mainWindow = a.fyneApp.NewWindow("FWin Photo Viewer")
	return a
}

// GetMainWindow returns the main window for testing purposes
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Run starts the GUI application
func (a *App) Run() {
	a.setupMainWindow()
	a.startWatcher()

	if dir := a.cfg.Settings.StartDirectory; dir != "" {
		a.openFolder(dir)
	}

	a.mainWindow.Show()
	a.fyneApp.Run()

	if a.watcher != nil {
		a.watcher.Stop()
	}
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.image = canvas.NewImageFromImage(nil)
	a.image.FillMode = canvas.ImageFillContain

	a.statusLabel = widget.NewLabel("Open a folder to start browsing")
	a.statusLabel.Alignment = fyne.TextAlignCenter

	a.favAction = widget.NewToolbarAction(theme.CheckButtonIcon(), a.toggleFavorite)
	a.toolBar = widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.chooseFolder),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.NavigateBackIcon(), a.previousImage),
		widget.NewToolbarAction(theme.NavigateNextIcon(), a.nextImage),
		widget.NewToolbarSeparator(),
		a.favAction,
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.chooseExportFolder),
	)

	content := container.NewBorder(a.toolBar, a.statusLabel, nil, nil, a.image)
	a.mainWindow.SetContent(content)
	a.mainWindow.Resize(fyne.NewSize(float32(a.cfg.Window.Width), float32(a.cfg.Window.Height)))
	a.mainWindow.CenterOnScreen()

	a.mainWindow.Canvas().SetOnTypedKey(func(ke *fyne.KeyEvent) {
		switch ke.Name {
		case fyne.KeyRight, fyne.KeyDown:
			a.nextImage()
		case fyne.KeyLeft, fyne.KeyUp:
			a.previousImage()
		case fyne.KeyF, fyne.KeySpace:
			a.toggleFavorite()
		case fyne.KeyE:
			a.chooseExportFolder()
		case fyne.KeyQ:
			a.fyneApp.Quit()
		}
	})
}

func (a *App) startWatcher() {
	if !a.cfg.Watch.Enabled {
		return
	}
	debounce := time.Duration(a.cfg.Watch.DebounceMs) * time.Millisecond
	watcher, err := watch.New(debounce, a.onFolderChanged)
	if err != nil {
		log.Warnf("Folder watching unavailable: %v", err)
		return
	}
	a.watcher = watcher
	if err := a.watcher.Start(); err != nil {
		log.Warnf("Folder watching unavailable: %v", err)
		a.watcher = nil
	}
}

// onFolderChanged runs on the watcher goroutine after the folder settles.
func (a *App) onFolderChanged() {
	if err := a.core.Refresh(); err != nil {
		log.Warnf("Could not refresh folder: %v", err)
		return
	}
	a.showCurrent()
}

func (a *App) chooseFolder() {
	dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil {
			a.ShowError("Could not open folder", err)
			return
		}
		if list == nil {
			return
		}
		a.openFolder(list.Path())
	}, a.mainWindow)
}

func (a *App) openFolder(dir string) {
	count, err := a.core.SelectFolder(dir)
	if err != nil {
		a.ShowError("Could not open folder", err)
		return
	}
	if a.watcher != nil {
		if werr := a.watcher.SetFolder(dir); werr != nil {
			log.Warnf("Cannot watch %s: %v", dir, werr)
		}
	}
	if count == 0 {
		a.image.Image = nil
		a.image.Refresh()
		a.statusLabel.SetText(fmt.Sprintf("No images in %s", dir))
		return
	}
	a.showCurrent()
}

func (a *App) nextImage() {
	if _, ok := a.core.Next(); ok {
		a.showCurrent()
	}
}

func (a *App) previousImage() {
	if _, ok := a.core.Previous(); ok {
		a.showCurrent()
	}
}

// showCurrent decodes the image under the cursor and updates the canvas
// and the status line. A decode failure keeps the previous picture on
// screen and says so in the status line.
func (a *App) showCurrent() {
	path, ok := a.core.Current()
	if !ok {
		a.image.Image = nil
		a.image.Refresh()
		a.statusLabel.SetText("No images in this folder")
		return
	}

	decoded, err := a.core.Decode(path)
	if err != nil {
		log.Warnf("Cannot display %s: %v", path, err)
		a.statusLabel.SetText(fmt.Sprintf("Cannot display %s", filepath.Base(path)))
		a.updateFavoriteIcon(path)
		return
	}

	a.image.Image = decoded.Image()
	a.image.Refresh()
	a.updateFavoriteIcon(path)
	a.mainWindow.SetTitle(fmt.Sprintf("FWin Photo Viewer — %s", filepath.Base(path)))

	pos, total := a.core.Position()
	marker := ""
	if a.core.IsFavorite(path) {
		marker = " ♥"
	}
	a.statusLabel.SetText(fmt.Sprintf("%d/%d — %s%s", pos, total, filepath.Base(path), marker))
}

func (a *App) toggleFavorite() {
	if _, ok := a.core.Current(); !ok {
		return
	}
	on, err := a.core.ToggleCurrent()
	if err != nil {
		// The flip itself landed; only persisting it failed.
		log.Warnf("Could not save favorites: %v", err)
	}
	log.LogWithFields(log.F("favorite", on)).Debug("Favorite toggled")
	a.showCurrent()
}

func (a *App) updateFavoriteIcon(path string) {
	if a.core.IsFavorite(path) {
		a.favAction.SetIcon(theme.CheckButtonCheckedIcon())
	} else {
		a.favAction.SetIcon(theme.CheckButtonIcon())
	}
	a.toolBar.Refresh()
}

func (a *App) chooseExportFolder() {
	if a.core.Folder() == "" {
		a.ShowInfo("Open a folder first")
		return
	}
	dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil {
			a.ShowError("Could not choose destination", err)
			return
		}
		if list == nil {
			return
		}
		a.runExport(list.Path())
	}, a.mainWindow)
}

func (a *App) runExport(destination string) {
	result, err := a.core.Export(destination)
	if err != nil {
		a.ShowError("Export failed", err)
		return
	}
	a.ShowInfo(fmt.Sprintf("Export finished: %s", result.Summary()))
}

// ShowError displays an error message
func (a *App) ShowError(message string, err error) {
	log.Errorf("%s: %v", message, err)
	dialog.ShowError(fmt.Errorf("%s: %w", message, err), a.mainWindow)
}

// ShowInfo displays an information message
func (a *App) ShowInfo(message string) {
	log.Info(message)
	dialog.ShowInformation("Info", message, a.mainWindow)
}
