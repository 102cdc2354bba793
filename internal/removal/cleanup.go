package removal

import (
	"image"
)

// despillHighFloor is the minimum R and B for a pixel to qualify as
// magenta spill; anti-aliased edges blend toward the key color but real
// content rarely keeps both channels this high while G lags.
const despillHighFloor = 100

// despillBalance is the maximum |R−B| for spill; the key color has
// R == B, and blending preserves that balance approximately.
const despillBalance = 40

// expandMask grows the removal mask outward by rounds 1-pixel rings,
// clearing each newly covered pixel. Growth is a separate breadth pass
// over the finished mask so it advances uniformly by distance from the
// original mask, whether or not a pixel matched the color predicate.
func expandMask(img *image.NRGBA, mask []bool, rounds, connectivity int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	frontier := make([]int32, 0, w+h)
	for idx, m := range mask {
		if m {
			frontier = append(frontier, int32(idx))
		}
	}

	diag := connectivity == 8

	for round := 0; round < rounds && len(frontier) > 0; round++ {
		next := frontier[:0:0]
		for _, fi := range frontier {
			idx := int(fi)
			x, y := idx%w, idx/w

			grow := func(nx, ny int) {
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					return
				}
				nidx := ny*w + nx
				if mask[nidx] {
					return
				}
				mask[nidx] = true
				img.Pix[img.PixOffset(bounds.Min.X+nx, bounds.Min.Y+ny)+3] = 0
				next = append(next, int32(nidx))
			}

			grow(x-1, y)
			grow(x+1, y)
			grow(x, y-1)
			grow(x, y+1)
			if diag {
				grow(x-1, y-1)
				grow(x+1, y-1)
				grow(x-1, y+1)
				grow(x+1, y+1)
			}
		}
		frontier = next
	}
}

// despill clears residual key-color bleed: pixels outside the mask but
// 8-adjacent to it whose color reads as partially blended magenta.
// Changes are collected first so adjacency is judged against the mask
// as it stood when the pass started.
func despill(img *image.NRGBA, mask []bool, threshold int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	adjacent := func(x, y int) bool {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if mask[ny*w+nx] {
					return true
				}
			}
		}
		return false
	}

	var spilled []int32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if mask[idx] || !adjacent(x, y) {
				continue
			}
			off := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			r := int(img.Pix[off])
			g := int(img.Pix[off+1])
			b := int(img.Pix[off+2])

			if r < despillHighFloor || b < despillHighFloor {
				continue
			}
			d := r - b
			if d < 0 {
				d = -d
			}
			if d > despillBalance {
				continue
			}
			if (r+b)/2-g < threshold {
				continue
			}
			spilled = append(spilled, int32(idx))
		}
	}

	for _, idx := range spilled {
		x, y := int(idx)%w, int(idx)/w
		img.Pix[img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)+3] = 0
		mask[idx] = true
	}
}
