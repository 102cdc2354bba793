package removal

import (
	"image"
	"math"

	"sprite-tools/pkg/geometry"
)

// Seed supplies extra starting pixels for the flood fill beyond the
// image border. Only pixels matching the predicate are actually seeded.
type Seed interface {
	seedPixels(img *image.NRGBA, pred Predicate, push func(x, y int))
}

// RectSeed scans a rectangular selection and seeds every matching pixel
// inside it.
type RectSeed geometry.RectInt

func (r RectSeed) seedPixels(img *image.NRGBA, pred Predicate, push func(x, y int)) {
	bounds := img.Bounds()
	sel := geometry.RectInt(r).Intersect(geometry.RectInt{
		X:      0,
		Y:      0,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	})
	for y := sel.Y; y < sel.Y+sel.Height; y++ {
		off := img.PixOffset(bounds.Min.X+sel.X, bounds.Min.Y+y)
		for x := sel.X; x < sel.X+sel.Width; x++ {
			if pred(img.Pix[off], img.Pix[off+1], img.Pix[off+2]) {
				push(x, y)
			}
			off += 4
		}
	}
}

// StrokeSeed seeds matching pixels under a brush stroke: circular
// stamps of Radius placed along the polyline through Points. Stamps are
// interpolated between recorded points at half-radius steps so fast
// strokes leave no gaps.
type StrokeSeed struct {
	Points []geometry.Point2D
	Radius float64
}

func (s StrokeSeed) seedPixels(img *image.NRGBA, pred Predicate, push func(x, y int)) {
	if len(s.Points) == 0 || s.Radius <= 0 {
		return
	}
	stamp := func(center geometry.Point2D) {
		stampCircle(img, pred, center, s.Radius, push)
	}

	stamp(s.Points[0])
	for i := 1; i < len(s.Points); i++ {
		prev, cur := s.Points[i-1], s.Points[i]
		dist := prev.Distance(cur)
		steps := int(math.Ceil(dist / (s.Radius / 2)))
		if steps < 1 {
			steps = 1
		}
		for step := 1; step <= steps; step++ {
			stamp(prev.Lerp(cur, float64(step)/float64(steps)))
		}
	}
}

func stampCircle(img *image.NRGBA, pred Predicate, center geometry.Point2D, radius float64, push func(x, y int)) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	r2 := radius * radius

	x0 := int(math.Floor(center.X - radius))
	x1 := int(math.Ceil(center.X + radius))
	y0 := int(math.Floor(center.Y - radius))
	y1 := int(math.Ceil(center.Y + radius))

	for y := max(y0, 0); y <= min(y1, h-1); y++ {
		for x := max(x0, 0); x <= min(x1, w-1); x++ {
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			if dx*dx+dy*dy > r2 {
				continue
			}
			off := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			if pred(img.Pix[off], img.Pix[off+1], img.Pix[off+2]) {
				push(x, y)
			}
		}
	}
}
