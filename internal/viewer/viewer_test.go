package viewer

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/miturka/FWinPhotoViewer/internal/favorites"
	"github.com/miturka/FWinPhotoViewer/internal/scan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newViewer(t *testing.T) *Viewer {
	t.Helper()
	scanner, err := scan.New()
	require.NoError(t, err)
	store := favorites.NewStoreAt(filepath.Join(t.TempDir(), "favorites.json"))
	return New(scanner, store)
}

func TestSelectFolderAndNavigate(t *testing.T) {
	folder := t.TempDir()
	writePNG(t, folder, "a.png")
	writePNG(t, folder, "b.png")

	v := newViewer(t)
	n, err := v.SelectFolder(folder)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, folder, v.Folder())

	cur, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(folder, "a.png"), cur)

	next, _ := v.Next()
	assert.Equal(t, filepath.Join(folder, "b.png"), next)
	wrapped, _ := v.Next()
	assert.Equal(t, filepath.Join(folder, "a.png"), wrapped)
	prev, _ := v.Previous()
	assert.Equal(t, filepath.Join(folder, "b.png"), prev)

	pos, total := v.Position()
	assert.Equal(t, 2, pos)
	assert.Equal(t, 2, total)
}

func TestSelectFolderFailureKeepsState(t *testing.T) {
	folder := t.TempDir()
	writePNG(t, folder, "a.png")

	v := newViewer(t)
	_, err := v.SelectFolder(folder)
	require.NoError(t, err)

	_, err = v.SelectFolder(filepath.Join(folder, "missing"))
	require.Error(t, err)
	assert.Equal(t, folder, v.Folder())
}

func TestDecodeCurrent(t *testing.T) {
	folder := t.TempDir()
	writePNG(t, folder, "a.png")

	v := newViewer(t)
	_, err := v.SelectFolder(folder)
	require.NoError(t, err)

	img, err := v.DecodeCurrent()
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
}

func TestDecodeCurrentWithoutSelection(t *testing.T) {
	v := newViewer(t)
	_, err := v.DecodeCurrent()
	assert.Error(t, err)
}

func TestDecodeFailureLeavesNavigationAlone(t *testing.T) {
	folder := t.TempDir()
	writePNG(t, folder, "a.png")
	require.NoError(t, os.WriteFile(filepath.Join(folder, "broken.jpg"), []byte("junk"), 0o644))

	v := newViewer(t)
	_, err := v.SelectFolder(folder)
	require.NoError(t, err)

	cur, _ := v.Next() // broken.jpg sorts after a.png
	require.Equal(t, filepath.Join(folder, "broken.jpg"), cur)

	_, err = v.DecodeCurrent()
	require.Error(t, err)

	still, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(folder, "broken.jpg"), still, "a failed decode must not move the cursor")
}

func TestToggleCurrentAndExport(t *testing.T) {
	folder := t.TempDir()
	a := writePNG(t, folder, "a.png")
	writePNG(t, folder, "b.png")
	dest := filepath.Join(t.TempDir(), "out")

	v := newViewer(t)
	_, err := v.SelectFolder(folder)
	require.NoError(t, err)

	on, err := v.ToggleCurrent()
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, v.IsFavorite(a))
	assert.Equal(t, 1, v.FavoriteCount())

	result, err := v.Export(dest)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Copied)

	_, err = os.Stat(filepath.Join(dest, "a.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, "b.png"))
	assert.True(t, os.IsNotExist(err), "unfavorited images stay home")
}

func TestExportWithoutFolder(t *testing.T) {
	v := newViewer(t)
	_, err := v.Export(t.TempDir())
	assert.Error(t, err)
}

func TestRefreshPicksUpNewFiles(t *testing.T) {
	folder := t.TempDir()
	writePNG(t, folder, "b.png")

	v := newViewer(t)
	n, err := v.SelectFolder(folder)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	writePNG(t, folder, "a.png")
	require.NoError(t, v.Refresh())

	cur, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(folder, "b.png"), cur, "refresh keeps the shown image")
	pos, total := v.Position()
	assert.Equal(t, 2, pos)
	assert.Equal(t, 2, total)
}
