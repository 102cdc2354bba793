// Package imaging provides pixel buffer utilities: cloning, decoding
// and center-cropping of NRGBA buffers.
package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Clone returns an independent copy of src. Callers that need the
// original across an in-place engine call clone explicitly.
func Clone(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// ToNRGBA converts any decoded image into a non-premultiplied RGBA
// buffer anchored at the origin. An *image.NRGBA already at the origin
// is returned as-is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// Decode reads an image in any registered format (PNG, JPEG, GIF, TIFF,
// BMP, WebP) and returns it as an NRGBA buffer plus the format name.
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return ToNRGBA(img), format, nil
}
