// Package tile computes rectangular slice regions from split lines and
// cuts pixel buffers into independent tiles.
package tile

import (
	"image"
	"math"
	"sort"

	"sprite-tools/pkg/geometry"
)

// Orientation identifies the axis a split line crosses.
type Orientation int

const (
	// Horizontal lines split the image top from bottom.
	Horizontal Orientation = iota
	// Vertical lines split the image left from right.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// SplitLine is a user-placed cut at a percentage of the image axis.
// Position is in [0,100]; values outside the range are clamped. Multiple
// lines may share a position, which produces zero-area regions.
type SplitLine struct {
	ID          string      `json:"id"`
	Orientation Orientation `json:"orientation"`
	Position    float64     `json:"position"`
}

// ComputeRegions partitions a width×height image along the given split
// lines. Regions are returned in row-major order (top-to-bottom,
// left-to-right), exactly tile the image with no gaps or overlaps, and
// may include zero-area entries for duplicate or boundary positions.
func ComputeRegions(width, height int, lines []SplitLine) []geometry.RectInt {
	var hPos, vPos []float64
	for _, l := range lines {
		switch l.Orientation {
		case Horizontal:
			hPos = append(hPos, l.Position)
		case Vertical:
			vPos = append(vPos, l.Position)
		}
	}

	rowBreaks := axisBreaks(height, hPos)
	colBreaks := axisBreaks(width, vPos)

	regions := make([]geometry.RectInt, 0, (len(rowBreaks)-1)*(len(colBreaks)-1))
	for r := 0; r < len(rowBreaks)-1; r++ {
		y0, y1 := rowBreaks[r], rowBreaks[r+1]
		for c := 0; c < len(colBreaks)-1; c++ {
			x0, x1 := colBreaks[c], colBreaks[c+1]
			regions = append(regions, geometry.RectInt{
				X:      x0,
				Y:      y0,
				Width:  x1 - x0,
				Height: y1 - y0,
			})
		}
	}
	return regions
}

// axisBreaks converts percentage positions into sorted pixel breakpoints
// bounded by 0 and extent.
func axisBreaks(extent int, positions []float64) []int {
	sorted := make([]float64, len(positions))
	copy(sorted, positions)
	sort.Float64s(sorted)

	breaks := make([]int, 0, len(sorted)+2)
	breaks = append(breaks, 0)
	for _, pos := range sorted {
		if pos < 0 {
			pos = 0
		}
		if pos > 100 {
			pos = 100
		}
		px := int(math.Round(pos / 100 * float64(extent)))
		breaks = append(breaks, px)
	}
	breaks = append(breaks, extent)
	return breaks
}

// GridRegions returns the regions of a rows×cols grid cut with floor
// division. Remainder pixels on the right and bottom edges are truncated.
func GridRegions(width, height, rows, cols int) []geometry.RectInt {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	cellW := width / cols
	cellH := height / rows

	regions := make([]geometry.RectInt, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			regions = append(regions, geometry.RectInt{
				X:      c * cellW,
				Y:      r * cellH,
				Width:  cellW,
				Height: cellH,
			})
		}
	}
	return regions
}

// SliceGrid cuts src into a rows×cols grid of independent copies. Cell
// size is the floor division of the image size; remainder pixels are
// truncated, which is the documented sprite-sheet behavior rather than
// an error.
func SliceGrid(src *image.NRGBA, rows, cols int) [][]*image.NRGBA {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	bounds := src.Bounds()
	cellW := bounds.Dx() / cols
	cellH := bounds.Dy() / rows

	grid := make([][]*image.NRGBA, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]*image.NRGBA, cols)
		for c := 0; c < cols; c++ {
			region := geometry.RectInt{X: c * cellW, Y: r * cellH, Width: cellW, Height: cellH}
			grid[r][c] = Extract(src, region)
		}
	}
	return grid
}

// SliceRegions extracts one buffer per region, preserving region order.
// Zero-area regions yield an empty 0×0 buffer.
func SliceRegions(src *image.NRGBA, regions []geometry.RectInt) []*image.NRGBA {
	tiles := make([]*image.NRGBA, len(regions))
	for i, region := range regions {
		tiles[i] = Extract(src, region)
	}
	return tiles
}

// Extract copies a region of src into a new buffer anchored at (0,0).
// The result never aliases the source pixels.
func Extract(src *image.NRGBA, region geometry.RectInt) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, region.Width, region.Height))
	if region.Empty() {
		return dst
	}
	bounds := src.Bounds()
	clipped := region.Intersect(geometry.RectInt{
		X:      bounds.Min.X,
		Y:      bounds.Min.Y,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	})
	for y := 0; y < clipped.Height; y++ {
		srcOff := src.PixOffset(clipped.X, clipped.Y+y)
		dstOff := dst.PixOffset(clipped.X-region.X, clipped.Y-region.Y+y)
		copy(dst.Pix[dstOff:dstOff+clipped.Width*4], src.Pix[srcOff:srcOff+clipped.Width*4])
	}
	return dst
}
