package watermark

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
)

// Source supplies the captured overlay pixels for a logo size. It is
// the seam to the external asset loader: the engine only ever asks for
// a size×size buffer of known overlay pixels.
type Source interface {
	LogoPixels(size int) (image.Image, error)
}

// BuildAlphaMap converts a captured overlay buffer into per-pixel blend
// strengths in [0,1]: the maximum RGB channel of each pixel, normalized.
// The capture is the overlay composited on black, so channel magnitude
// is blend strength.
func BuildAlphaMap(img image.Image) []float32 {
	bounds := img.Bounds()
	alpha := make([]float32, bounds.Dx()*bounds.Dy())

	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			maxC := r
			if g > maxC {
				maxC = g
			}
			if b > maxC {
				maxC = b
			}
			alpha[idx] = float32(maxC) / 65535.0
			idx++
		}
	}
	return alpha
}

// FSSource loads logo captures from a file system. pattern is a
// fmt pattern with one %d verb for the logo size, e.g. "bg_%d.png".
func FSSource(fsys fs.FS, pattern string) Source {
	return fsSource{fsys: fsys, pattern: pattern}
}

type fsSource struct {
	fsys    fs.FS
	pattern string
}

func (s fsSource) LogoPixels(size int) (image.Image, error) {
	name := fmt.Sprintf(s.pattern, size)
	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}
