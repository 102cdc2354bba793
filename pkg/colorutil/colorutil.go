// Package colorutil provides shared color utilities for the sprite tools.
package colorutil

// Luminance returns the Rec.709 luma of an 8-bit RGB triple, in [0,255].
func Luminance(r, g, b uint8) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

// ClampUint8 clamps v to the 8-bit channel range, rounding to nearest.
func ClampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
