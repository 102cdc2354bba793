package removal

import (
	"image"
)

// floodFill runs a 4-connected BFS from every border pixel matching the
// predicate plus any caller-supplied seeds. A pixel pulled from the
// queue that matches the predicate has its alpha cleared and its
// neighbors enqueued; non-matching pixels end the growth there. The
// queue is a growable index buffer consumed through a head pointer, not
// a dequeue structure.
func floodFill(img *image.NRGBA, pred Predicate, seeds []Seed, mask []bool) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	visited := make([]bool, w*h)
	queue := make([]int32, 0, 2*(w+h))

	push := func(x, y int) {
		idx := y*w + x
		if !visited[idx] {
			visited[idx] = true
			queue = append(queue, int32(idx))
		}
	}
	matches := func(x, y int) bool {
		off := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
		return pred(img.Pix[off], img.Pix[off+1], img.Pix[off+2])
	}

	// Border seeds.
	for x := 0; x < w; x++ {
		if matches(x, 0) {
			push(x, 0)
		}
		if matches(x, h-1) {
			push(x, h-1)
		}
	}
	for y := 0; y < h; y++ {
		if matches(0, y) {
			push(0, y)
		}
		if matches(w-1, y) {
			push(w-1, y)
		}
	}

	// Caller seeds (selection rectangles, brush strokes).
	for _, s := range seeds {
		if s != nil {
			s.seedPixels(img, pred, push)
		}
	}

	for head := 0; head < len(queue); head++ {
		idx := int(queue[head])
		x, y := idx%w, idx/w

		off := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
		if !pred(img.Pix[off], img.Pix[off+1], img.Pix[off+2]) {
			continue
		}
		img.Pix[off+3] = 0
		mask[idx] = true

		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}
}
