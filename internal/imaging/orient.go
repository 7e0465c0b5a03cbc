// Package imaging decodes image files into upright 32-bit RGBA rasters.
//
// It owns the two decode paths (generic raster formats and the HEIC/HEIF
// still-image container) and the EXIF orientation handling that makes the
// resulting pixels display upright regardless of how the camera stored them.
package imaging

import "image"

// Orientation is an EXIF orientation tag value (1-8). The zero value is
// never produced; readers degrade to Identity instead.
type Orientation int

// EXIF orientation tag values.
const (
	OrientIdentity   Orientation = 1 // upright
	OrientMirrorH    Orientation = 2 // mirrored left-right
	OrientRotate180  Orientation = 3 // rotated 180
	OrientMirrorV    Orientation = 4 // mirrored top-bottom
	OrientTranspose  Orientation = 5 // mirrored along top-left diagonal
	OrientRotate90   Orientation = 6 // needs 90 CW to display upright
	OrientTransverse Orientation = 7 // mirrored along top-right diagonal
	OrientRotate270  Orientation = 8 // needs 90 CCW to display upright
)

// Transform describes the geometric correction for an orientation tag:
// a clockwise rotation followed by an optional mirror.
type Transform struct {
	MirrorX  bool // flip left-right after rotating
	MirrorY  bool // flip top-bottom after rotating
	Rotation int  // degrees clockwise, one of 0, 90, 180, 270
}

// IsIdentity reports whether the transform leaves pixels untouched.
func (t Transform) IsIdentity() bool {
	return !t.MirrorX && !t.MirrorY && t.Rotation == 0
}

// Transform returns the mirror/rotation combination that displays pixels
// stored under this orientation upright. Unknown values map to the
// identity transform.
func (o Orientation) Transform() Transform {
	switch o {
	case OrientMirrorH:
		return Transform{MirrorX: true}
	case OrientRotate180:
		return Transform{Rotation: 180}
	case OrientMirrorV:
		return Transform{MirrorY: true}
	case OrientTranspose:
		return Transform{MirrorX: true, Rotation: 90}
	case OrientRotate90:
		return Transform{Rotation: 90}
	case OrientTransverse:
		return Transform{MirrorX: true, Rotation: 270}
	case OrientRotate270:
		return Transform{Rotation: 270}
	default:
		return Transform{}
	}
}

// Apply returns a copy of src with the transform applied. The rotation runs
// first, then the mirror; src is never modified. The identity transform
// returns src unchanged.
func (t Transform) Apply(src *image.NRGBA) *image.NRGBA {
	if t.IsIdentity() {
		return src
	}
	img := src
	switch t.Rotation {
	case 90:
		img = rotate90(img)
	case 180:
		img = rotate180(img)
	case 270:
		img = rotate270(img)
	}
	if t.MirrorX {
		img = mirrorX(img)
	}
	if t.MirrorY {
		img = mirrorY(img)
	}
	return img
}

func mirrorX(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copyPixel(dst, x, y, src, w-1-x, y)
		}
	}
	return dst
}

func mirrorY(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcRow := src.Pix[src.PixOffset(0, h-1-y) : src.PixOffset(0, h-1-y)+w*4]
		dstRow := dst.Pix[dst.PixOffset(0, y) : dst.PixOffset(0, y)+w*4]
		copy(dstRow, srcRow)
	}
	return dst
}

// rotate90 rotates clockwise: source (x,y) lands at (h-1-y, x).
func rotate90(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			copyPixel(dst, x, y, src, y, h-1-x)
		}
	}
	return dst
}

func rotate180(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copyPixel(dst, x, y, src, w-1-x, h-1-y)
		}
	}
	return dst
}

// rotate270 rotates counter-clockwise: source (x,y) lands at (y, w-1-x).
func rotate270(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			copyPixel(dst, x, y, src, w-1-y, x)
		}
	}
	return dst
}

func copyPixel(dst *image.NRGBA, dx, dy int, src *image.NRGBA, sx, sy int) {
	di := dst.PixOffset(dx, dy)
	si := src.PixOffset(sx, sy)
	copy(dst.Pix[di:di+4], src.Pix[si:si+4])
}
