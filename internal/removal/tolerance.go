package removal

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"sprite-tools/pkg/colorutil"
)

// Tolerance clamp range. Below 8 the predicate misses ordinary PNG
// dithering; above 80 it starts eating light foreground content.
const (
	toleranceMin = 8
	toleranceMax = 80
)

// EstimateTolerance derives a white-predicate color distance from the
// border pixels of img. The border of a white-backed export is near 255
// with a spread that tracks compression quality, so the estimate is the
// mean shortfall from pure white plus two standard deviations.
func EstimateTolerance(img *image.NRGBA) uint8 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return toleranceMin
	}

	luma := make([]float64, 0, 2*(w+h))
	sample := func(x, y int) {
		off := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
		luma = append(luma, colorutil.Luminance(img.Pix[off], img.Pix[off+1], img.Pix[off+2]))
	}
	for x := 0; x < w; x++ {
		sample(x, 0)
		if h > 1 {
			sample(x, h-1)
		}
	}
	for y := 1; y < h-1; y++ {
		sample(0, y)
		if w > 1 {
			sample(w-1, y)
		}
	}

	if len(luma) < 2 {
		return toleranceMin
	}
	mean, std := stat.MeanStdDev(luma, nil)
	tol := (255 - mean) + 2*std

	if tol < toleranceMin {
		return toleranceMin
	}
	if tol > toleranceMax {
		return toleranceMax
	}
	return uint8(tol)
}
