// Package removal performs flood-fill based background removal on RGBA
// pixel buffers, with expansion and despill cleanup passes.
package removal

import (
	"image"
)

// CleanupOptions configures the passes that run after the initial
// background classification. The zero value disables every pass and
// selects global replacement; use DefaultCleanup for the common
// flood-fill configuration.
type CleanupOptions struct {
	// ExpansionPixels grows the removal mask outward by this many
	// 1-pixel rings, clearing faint halo remnants the color predicate
	// misses.
	ExpansionPixels int

	// ExpansionConnectivity is 4 or 8. The magenta path historically
	// expands 8-connected; anything other than 8 means 4.
	ExpansionConnectivity int

	// DespillThreshold enables residual-color suppression on pixels
	// bordering the mask when > 0. A pixel is despilled when R and B
	// are both high, nearly equal, and (R+B)/2−G meets the threshold.
	DespillThreshold int

	// NeutralizeRGB zeroes the color channels of every fully
	// transparent pixel afterwards, so later compositing cannot pick
	// up colored fringes.
	NeutralizeRGB bool

	// UseFloodFill selects connectivity-bounded removal seeded from the
	// border (and any extra seeds). When false, every pixel matching
	// the predicate is cleared regardless of connectivity.
	UseFloodFill bool
}

// DefaultCleanup returns the flood-fill configuration with no cleanup
// passes enabled.
func DefaultCleanup() CleanupOptions {
	return CleanupOptions{
		ExpansionConnectivity: 4,
		UseFloodFill:          true,
	}
}

// WithExpansion returns a copy with the expansion pass configured.
func (o CleanupOptions) WithExpansion(pixels, connectivity int) CleanupOptions {
	o.ExpansionPixels = pixels
	o.ExpansionConnectivity = connectivity
	return o
}

// WithDespill returns a copy with the despill threshold set.
func (o CleanupOptions) WithDespill(threshold int) CleanupOptions {
	o.DespillThreshold = threshold
	return o
}

// Remove classifies background pixels of img in place: matching pixels
// get alpha 0, everything else is untouched. The predicate must ignore
// alpha, which makes the operation idempotent. A buffer whose border
// contains no matching pixels (and no seeds) is a valid no-op.
func Remove(img *image.NRGBA, pred Predicate, seeds []Seed, opts CleanupOptions) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 || pred == nil {
		return
	}

	// mask marks pixels actually cleared; the cleanup passes grow and
	// consult this set, not the BFS visited set.
	mask := make([]bool, w*h)

	if opts.UseFloodFill {
		floodFill(img, pred, seeds, mask)
	} else {
		globalReplace(img, pred, mask)
	}

	if opts.ExpansionPixels > 0 {
		expandMask(img, mask, opts.ExpansionPixels, opts.ExpansionConnectivity)
	}
	if opts.DespillThreshold > 0 {
		despill(img, mask, opts.DespillThreshold)
	}
	if opts.NeutralizeRGB {
		neutralize(img)
	}
}

// globalReplace clears every pixel matching the predicate, connected to
// the border or not.
func globalReplace(img *image.NRGBA, pred Predicate, mask []bool) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	for y := 0; y < h; y++ {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			if pred(img.Pix[off], img.Pix[off+1], img.Pix[off+2]) {
				img.Pix[off+3] = 0
				mask[y*w+x] = true
			}
			off += 4
		}
	}
}

// neutralize zeroes RGB on fully transparent pixels.
func neutralize(img *image.NRGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			img.Pix[i] = 0
			img.Pix[i+1] = 0
			img.Pix[i+2] = 0
		}
	}
}
