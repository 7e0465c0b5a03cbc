package imaging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/miturka/FWinPhotoViewer/internal/log"

	"github.com/jdeng/goheif"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

var registerParsers sync.Once

// ReadOrientation returns the EXIF orientation tag of the file at path.
// It never fails: a missing tag, a format without metadata support, or any
// parse error all degrade to OrientIdentity.
func ReadOrientation(path string) Orientation {
	registerParsers.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})

	f, err := os.Open(path)
	if err != nil {
		return OrientIdentity
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".heic", ".heif":
		return containerOrientation(f)
	default:
		return rasterOrientation(f)
	}
}

func rasterOrientation(r io.Reader) (o Orientation) {
	o = OrientIdentity
	// Metadata parsing must never take the viewer down, whatever the bytes.
	defer func() {
		if rec := recover(); rec != nil {
			o = OrientIdentity
		}
	}()

	x, err := exif.Decode(r)
	if err != nil {
		return OrientIdentity
	}
	return orientationFrom(x)
}

func containerOrientation(f *os.File) (o Orientation) {
	o = OrientIdentity
	defer func() {
		if rec := recover(); rec != nil {
			o = OrientIdentity
		}
	}()

	raw, err := goheif.ExtractExif(f)
	if err != nil || len(raw) == 0 {
		return OrientIdentity
	}
	// The extracted block may carry the APP1 "Exif" prefix ahead of the
	// TIFF structure goexif expects.
	raw = bytes.TrimPrefix(raw, []byte("Exif\x00\x00"))

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return OrientIdentity
	}
	return orientationFrom(x)
}

func orientationFrom(x *exif.Exif) Orientation {
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientIdentity
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return OrientIdentity
	}
	if v != 1 {
		log.LogWithFields(log.F("orientation", v)).Debug("Applying EXIF orientation")
	}
	return Orientation(v)
}
