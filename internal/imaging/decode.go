package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	serr "github.com/miturka/FWinPhotoViewer/internal/errors"
	"github.com/miturka/FWinPhotoViewer/internal/log"

	"github.com/jdeng/goheif"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DecodedImage is an uncompressed raster in NRGBA layout (4 channels,
// 8 bits per channel) with the EXIF orientation already applied. It is
// immutable once returned; ownership passes to the caller.
type DecodedImage struct {
	Width  int
	Height int
	// Pix holds the pixels in R, G, B, A order, row-major.
	Pix []byte

	img *image.NRGBA
}

// Image returns the raster as an image.NRGBA for display. Callers must not
// modify the returned image.
func (d *DecodedImage) Image() *image.NRGBA {
	return d.img
}

// Decode reads the image file at path and returns an upright NRGBA raster.
// HEIC/HEIF files go through the still-image container path; every other
// supported extension goes through the generic raster path. Any failure
// (unreadable file, corrupt data, unsupported encoding) is reported as a
// *errors.DecodeError; Decode never panics, whatever the input bytes.
func Decode(path string) (*DecodedImage, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".heic", ".heif":
		img, err = decodeContainer(path)
	default:
		img, err = decodeRaster(path)
	}
	if err != nil {
		log.LogWithFields(log.F("path", path), log.F("error", err)).Debug("Decode failed")
		return nil, err
	}

	nr := toNRGBA(img)
	nr = ReadOrientation(path).Transform().Apply(nr)

	b := nr.Bounds()
	return &DecodedImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    nr.Pix,
		img:    nr,
	}, nil
}

// decodeRaster handles the formats the registered image decoders cover:
// jpg, jpeg, png, webp, bmp, gif.
func decodeRaster(path string) (img image.Image, err error) {
	defer recoverDecode(path, &img, &err)

	f, oerr := os.Open(path)
	if oerr != nil {
		return nil, serr.NewDecodeError("cannot read image", path, serr.DecodeFailed, oerr)
	}
	defer f.Close()

	decoded, _, derr := image.Decode(f)
	if derr != nil {
		return nil, serr.NewDecodeError("image decode failed", path, serr.DecodeFailed, derr)
	}
	return decoded, nil
}

// decodeContainer handles the HEIC/HEIF still-image container, which the
// generic raster decoders do not support.
func decodeContainer(path string) (img image.Image, err error) {
	defer recoverDecode(path, &img, &err)

	f, oerr := os.Open(path)
	if oerr != nil {
		return nil, serr.NewDecodeError("cannot read image", path, serr.DecodeFailed, oerr)
	}
	defer f.Close()

	decoded, derr := goheif.Decode(f)
	if derr != nil {
		return nil, serr.NewDecodeError("heif decode failed", path, serr.DecodeFailed, derr)
	}
	return decoded, nil
}

// recoverDecode converts a decoder panic into a DecodeError. The decode
// contract is a typed result for any input byte sequence, never a crash.
func recoverDecode(path string, img *image.Image, err *error) {
	if r := recover(); r != nil {
		*img = nil
		*err = serr.NewDecodeError("image decode failed", path, serr.DecodeFailed, fmt.Errorf("decoder panic: %v", r))
	}
}

// toNRGBA converts any decoded image to a zero-origin NRGBA raster. Sources
// without an alpha channel come out fully opaque.
func toNRGBA(src image.Image) *image.NRGBA {
	if nr, ok := src.(*image.NRGBA); ok && nr.Rect.Min == (image.Point{}) {
		return nr
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}
