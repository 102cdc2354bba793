package export

import (
	"image"
	"image/color"
	"math"

	"github.com/cenkalti/dominantcolor"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Backdrop is the background kind detected on a sprite sheet, used to
// pick a removal predicate automatically.
type Backdrop int

const (
	BackdropUnknown Backdrop = iota
	BackdropWhite
	BackdropMagenta
)

func (b Backdrop) String() string {
	switch b {
	case BackdropWhite:
		return "white"
	case BackdropMagenta:
		return "magenta"
	default:
		return "unknown"
	}
}

// borderBand is how deep the sampled border strip reaches into the
// image. The backdrop shows at the edges even when the subject fills
// most of the frame.
const borderBand = 4

// DetectBackdrop classifies the background of src from its border band.
// White is decided on the band's mean color directly, because the
// dominant-color pass discards near-white pixels as uninteresting;
// colored backdrops go through dominant-color clustering so a border
// with some subject bleed still classifies. Returns BackdropUnknown for
// anything else, or when the image is too small to sample.
func DetectBackdrop(src *image.NRGBA) Backdrop {
	strip := borderStrip(src)
	if strip == nil {
		return BackdropUnknown
	}

	mean, ok := colorful.MakeColor(meanColor(strip))
	if ok {
		// HSV, not HSL: HSL saturation blows up near white.
		if _, s, v := mean.Hsv(); v > 0.85 && s < 0.1 {
			return BackdropWhite
		}
	}

	candidates := dominantcolor.FindWeight(strip, 8)
	if len(candidates) == 0 {
		return BackdropUnknown
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Weight > best.Weight {
			best = c
		}
	}

	col, ok := colorful.MakeColor(best.RGBA)
	if !ok {
		return BackdropUnknown
	}
	h, s, l := col.Hsl()
	if hueDelta(h, 300) <= 40 && s > 0.4 && l > 0.2 && l < 0.8 {
		return BackdropMagenta
	}
	return BackdropUnknown
}

func meanColor(img *image.NRGBA) color.NRGBA {
	b := img.Bounds()
	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			r += uint64(c.R)
			g += uint64(c.G)
			bl += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 255}
}

// borderStrip packs the four border bands of src into one small image
// so the dominant-color pass never sees interior pixels.
func borderStrip(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 2*borderBand || h < 2*borderBand {
		return nil
	}

	// Top and bottom bands stacked, then left and right bands rotated
	// onto the same width.
	rows := 2*borderBand + 2*borderBand
	strip := image.NewNRGBA(image.Rect(0, 0, w, rows))
	row := 0
	for i := 0; i < borderBand; i++ {
		copyRow(strip, row, src, b.Min.Y+i)
		row++
		copyRow(strip, row, src, b.Max.Y-1-i)
		row++
	}
	for i := 0; i < borderBand; i++ {
		for x := 0; x < w; x++ {
			y := b.Min.Y + x*h/w // stretch the column over the strip width
			strip.SetNRGBA(x, row, src.NRGBAAt(b.Min.X+i, y))
			strip.SetNRGBA(x, row+1, src.NRGBAAt(b.Max.X-1-i, y))
		}
		row += 2
	}
	return strip
}

func copyRow(dst *image.NRGBA, dstY int, src *image.NRGBA, srcY int) {
	b := src.Bounds()
	w := b.Dx()
	srcOff := src.PixOffset(b.Min.X, srcY)
	dstOff := dst.PixOffset(0, dstY)
	copy(dst.Pix[dstOff:dstOff+w*4], src.Pix[srcOff:srcOff+w*4])
}

func hueDelta(h, center float64) float64 {
	d := math.Abs(h - center)
	if d > 180 {
		d = 360 - d
	}
	return d
}
