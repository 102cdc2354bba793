// Package watermark reverses a known alpha-blended overlay logo using
// precomputed per-pixel alpha maps.
package watermark

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"sprite-tools/pkg/colorutil"
)

const (
	// SmallLogoSize is the overlay edge length for images at or below
	// 1024px on either axis; LargeLogoSize applies when both exceed it.
	SmallLogoSize = 48
	LargeLogoSize = 96

	// alphaEpsilon: blend strengths below this are numeric noise in the
	// captured map, not real blending. Skipping them avoids smearing
	// untouched pixels.
	alphaEpsilon = 0.002
	// alphaCeiling caps the blend strength; at 1.0 the division blows
	// up and the original is unrecoverable anyway.
	alphaCeiling = 0.99

	// overlayValue is the overlay color: the logo is composited in
	// white.
	overlayValue = 255.0
)

// ErrNotInitialized is returned when Remove is called before a
// successful Init. Callers must await initialization once per process.
var ErrNotInitialized = errors.New("watermark: engine not initialized")

// Config describes the overlay placement for a given image size.
type Config struct {
	LogoSize     int
	MarginRight  int
	MarginBottom int
}

// DetectConfig selects overlay parameters from the image dimensions:
// images larger than 1024px on both axes carry the 96×96 logo with 64px
// margins, everything else the 48×48 logo with 32px margins. The rule
// mirrors the documented overlay placement convention and is not
// configurable per call.
func DetectConfig(width, height int) Config {
	if width > 1024 && height > 1024 {
		return Config{LogoSize: LargeLogoSize, MarginRight: 64, MarginBottom: 64}
	}
	return Config{LogoSize: SmallLogoSize, MarginRight: 32, MarginBottom: 32}
}

// Footprint returns the overlay rectangle inside a width×height image,
// anchored to the bottom-right corner.
func (c Config) Footprint(width, height int) image.Rectangle {
	x := width - c.MarginRight - c.LogoSize
	y := height - c.MarginBottom - c.LogoSize
	return image.Rect(x, y, x+c.LogoSize, y+c.LogoSize)
}

// Engine holds the immutable per-size alpha maps and applies the
// reverse blend. The maps are built once by Init and shared read-only
// across all subsequent calls.
type Engine struct {
	source    Source
	initOnce  sync.Once
	initErr   error
	ready     atomic.Bool
	alphaMaps map[int][]float32
}

// NewEngine constructs an Engine around an asset source. Init must
// complete before Remove is usable.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Init loads and caches the alpha maps for both supported logo sizes.
// It runs the load exactly once; concurrent and repeated calls share
// the single outcome.
func (e *Engine) Init() error {
	e.initOnce.Do(func() {
		if e.source == nil {
			e.initErr = errors.New("watermark: nil asset source")
			return
		}
		maps := make(map[int][]float32, 2)
		for _, size := range []int{SmallLogoSize, LargeLogoSize} {
			img, err := e.source.LogoPixels(size)
			if err != nil {
				e.initErr = fmt.Errorf("load %dpx logo: %w", size, err)
				return
			}
			if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
				e.initErr = fmt.Errorf("logo asset is %dx%d, want %dx%d",
					img.Bounds().Dx(), img.Bounds().Dy(), size, size)
				return
			}
			maps[size] = BuildAlphaMap(img)
		}
		e.alphaMaps = maps
		e.ready.Store(true)
	})
	return e.initErr
}

// Remove reverses the overlay blend inside the watermark footprint of
// img, in place. It fails with ErrNotInitialized before a successful
// Init, and rejects images too small to carry the detected footprint.
func (e *Engine) Remove(img *image.NRGBA) error {
	if !e.ready.Load() {
		return ErrNotInitialized
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	cfg := DetectConfig(width, height)

	rect := cfg.Footprint(width, height)
	if rect.Min.X < 0 || rect.Min.Y < 0 {
		return fmt.Errorf("image %dx%d cannot carry a %dpx watermark", width, height, cfg.LogoSize)
	}

	alphaMap := e.alphaMaps[cfg.LogoSize]
	reverseBlend(img, alphaMap, cfg.LogoSize, rect)
	return nil
}

// RemoveFlat applies the constant-alpha variant of the same reversal
// buffer-wide. It needs no alpha map and therefore no initialization;
// alpha is capped like the mapped path.
func RemoveFlat(img *image.NRGBA, alpha float64) {
	if alpha < alphaEpsilon {
		return
	}
	if alpha > alphaCeiling {
		alpha = alphaCeiling
	}
	oneMinus := 1.0 - alpha
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			blended := float64(img.Pix[i+c])
			img.Pix[i+c] = colorutil.ClampUint8((blended - alpha*overlayValue) / oneMinus)
		}
	}
}

// reverseBlend solves original = (blended − α·overlay) / (1 − α) per
// channel inside rect, using the size×size alpha map.
func reverseBlend(img *image.NRGBA, alphaMap []float32, size int, rect image.Rectangle) {
	bounds := img.Bounds()
	for row := 0; row < rect.Dy(); row++ {
		for col := 0; col < rect.Dx(); col++ {
			alpha := float64(alphaMap[row*size+col])
			if alpha < alphaEpsilon {
				continue
			}
			if alpha > alphaCeiling {
				alpha = alphaCeiling
			}
			oneMinus := 1.0 - alpha

			off := img.PixOffset(bounds.Min.X+rect.Min.X+col, bounds.Min.Y+rect.Min.Y+row)
			for c := 0; c < 3; c++ {
				blended := float64(img.Pix[off+c])
				img.Pix[off+c] = colorutil.ClampUint8((blended - alpha*overlayValue) / oneMinus)
			}
		}
	}
}
