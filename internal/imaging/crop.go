package imaging

import (
	"image"
)

// CropFromCenter fits src onto a targetW×targetH canvas, centered.
// When the source already matches the target size the same buffer is
// returned unchanged. A larger source is cropped evenly from both
// sides; a smaller one is padded evenly with transparent pixels. Both
// can happen at once on different axes. Placement is pixel-for-pixel,
// never resampled.
func CropFromCenter(src *image.NRGBA, targetW, targetH int) *image.NRGBA {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == targetW && srcH == targetH {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, targetW, targetH))

	copyW := min(srcW, targetW)
	copyH := min(srcH, targetH)
	if copyW <= 0 || copyH <= 0 {
		return dst
	}

	srcX := (srcW - copyW) / 2
	srcY := (srcH - copyH) / 2
	dstX := (targetW - copyW) / 2
	dstY := (targetH - copyH) / 2

	for y := 0; y < copyH; y++ {
		srcOff := src.PixOffset(bounds.Min.X+srcX, bounds.Min.Y+srcY+y)
		dstOff := dst.PixOffset(dstX, dstY+y)
		copy(dst.Pix[dstOff:dstOff+copyW*4], src.Pix[srcOff:srcOff+copyW*4])
	}
	return dst
}
