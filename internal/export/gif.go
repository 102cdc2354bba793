package export

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

const (
	// maxPaletteColors leaves index 0 free for transparency in a
	// 256-entry GIF palette.
	maxPaletteColors  = 255
	maxPaletteSamples = 8000
)

// EncodeGIF assembles processed frames into an animated GIF with a
// shared global palette. delay is per frame in hundredths of a second.
// Empty (zero-area) frames are skipped.
func EncodeGIF(w io.Writer, frames []*image.NRGBA, delay int) error {
	kept := frames[:0:0]
	for _, f := range frames {
		if f != nil && f.Bounds().Dx() > 0 && f.Bounds().Dy() > 0 {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	opaque, err := buildPalette(kept)
	if err != nil {
		return fmt.Errorf("build palette: %w", err)
	}
	palette := make(color.Palette, 0, len(opaque)+1)
	palette = append(palette, color.NRGBA{})
	palette = append(palette, opaque...)

	anim := &gif.GIF{BackgroundIndex: 0}
	for _, f := range kept {
		anim.Image = append(anim.Image, mapFrame(f, palette, opaque))
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}
	return gif.EncodeAll(w, anim)
}

// buildPalette extracts up to maxPaletteColors opaque colors across the
// frames. Frames with few distinct colors keep them exactly; richer
// content is subsampled and quantized with k-means, dominant clusters
// first.
func buildPalette(frames []*image.NRGBA) (color.Palette, error) {
	total := 0
	for _, f := range frames {
		total += f.Bounds().Dx() * f.Bounds().Dy()
	}
	step := 1
	if total > maxPaletteSamples {
		step = int(math.Sqrt(float64(total)/float64(maxPaletteSamples))) + 1
	}

	seen := make(map[color.NRGBA]struct{})
	var samples []color.NRGBA
	for _, f := range frames {
		b := f.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y += step {
			for x := b.Min.X; x < b.Max.X; x += step {
				c := f.NRGBAAt(x, y)
				if c.A < 128 {
					continue
				}
				c.A = 255
				if _, ok := seen[c]; ok {
					continue
				}
				seen[c] = struct{}{}
				samples = append(samples, c)
			}
		}
	}

	if len(samples) == 0 {
		// Fully transparent input still needs one opaque entry.
		return color.Palette{color.NRGBA{A: 255}}, nil
	}
	if len(samples) <= maxPaletteColors {
		pal := make(color.Palette, len(samples))
		for i, c := range samples {
			pal[i] = c
		}
		return pal, nil
	}

	dataset := make(clusters.Observations, len(samples))
	for i, c := range samples {
		dataset[i] = clusters.Coordinates{
			float64(c.R) / 255.0,
			float64(c.G) / 255.0,
			float64(c.B) / 255.0,
		}
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, maxPaletteColors)
	if err != nil {
		return nil, err
	}

	pal := make(color.Palette, 0, len(cc))
	for _, c := range cc {
		center := c.Center
		if len(center) < 3 {
			continue
		}
		pal = append(pal, color.NRGBA{
			R: uint8(math.Min(255, math.Max(0, center[0]*255+0.5))),
			G: uint8(math.Min(255, math.Max(0, center[1]*255+0.5))),
			B: uint8(math.Min(255, math.Max(0, center[2]*255+0.5))),
			A: 255,
		})
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("quantization produced no colors")
	}
	return pal, nil
}

// mapFrame converts a frame into a paletted image: transparent pixels
// to index 0, everything else to the nearest opaque palette entry.
// Lookups are memoized per distinct color.
func mapFrame(f *image.NRGBA, palette color.Palette, opaque color.Palette) *image.Paletted {
	b := f.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette)

	cache := make(map[color.NRGBA]uint8)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := f.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			if c.A < 128 {
				out.SetColorIndex(x, y, 0)
				continue
			}
			c.A = 255
			idx, ok := cache[c]
			if !ok {
				idx = uint8(opaque.Index(c) + 1)
				cache[c] = idx
			}
			out.SetColorIndex(x, y, idx)
		}
	}
	return out
}
