package removal

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Predicate reports whether an RGB triple counts as background. A
// predicate must never look at alpha; removal stays idempotent because
// already-cleared pixels classify identically on a second run.
type Predicate func(r, g, b uint8) bool

// WhitePredicate matches near-white pixels: all three channels at least
// 255−colorDistance. Suited to flat white backgrounds on clean exports.
func WhitePredicate(colorDistance uint8) Predicate {
	floor := 255 - int(colorDistance)
	return func(r, g, b uint8) bool {
		return int(r) >= floor && int(g) >= floor && int(b) >= floor
	}
}

// MagentaPredicate matches magenta-keyed pixels in HSL space.
// tolerance is in [0,1]: 0 accepts only a clean key, 1 accepts heavily
// compressed variants. A hue test survives JPEG artifacts that defeat a
// fixed RGB-distance check, because chroma smearing moves saturation
// and lightness far more than hue.
func MagentaPredicate(tolerance float64) Predicate {
	if tolerance < 0 {
		tolerance = 0
	}
	if tolerance > 1 {
		tolerance = 1
	}

	// A clean key sits at hue 300, s=1.0, l=0.5. Compression pulls
	// saturation down and widens the hue spread; thresholds scale
	// accordingly.
	hueBand := 24.0 + 36.0*tolerance
	satMin := 0.30 * (1.0 - 0.65*tolerance)
	lightMin := 0.14 * (1.0 - 0.5*tolerance)

	return func(r, g, b uint8) bool {
		c := colorful.Color{
			R: float64(r) / 255.0,
			G: float64(g) / 255.0,
			B: float64(b) / 255.0,
		}
		h, s, l := c.Hsl()
		if s < satMin || l < lightMin {
			return false
		}
		dh := h - 300.0
		if dh > 180 {
			dh -= 360
		}
		if dh < -180 {
			dh += 360
		}
		if dh < 0 {
			dh = -dh
		}
		return dh <= hueBand
	}
}
