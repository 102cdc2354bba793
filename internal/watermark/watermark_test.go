package watermark

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"testing"
)

// gradientSource produces synthetic logo captures: a gray ramp whose
// value encodes blend strength, kept at or below ~0.47 so the rounding
// error of a forward blend stays within the ±1 reconstruction bound.
type gradientSource struct{}

func (gradientSource) LogoPixels(size int) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8((x + y) * 120 / (2*size - 2))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img, nil
}

type failingSource struct{}

func (failingSource) LogoPixels(size int) (image.Image, error) {
	return nil, fmt.Errorf("asset %d missing", size)
}

// forwardBlend composites the white overlay onto img inside rect using
// the same alpha map the engine will reverse with.
func forwardBlend(img *image.NRGBA, alphaMap []float32, size int, rect image.Rectangle) {
	for row := 0; row < rect.Dy(); row++ {
		for col := 0; col < rect.Dx(); col++ {
			a := float64(alphaMap[row*size+col])
			off := img.PixOffset(rect.Min.X+col, rect.Min.Y+row)
			for c := 0; c < 3; c++ {
				orig := float64(img.Pix[off+c])
				img.Pix[off+c] = uint8(math.Round(a*overlayValue + (1-a)*orig))
			}
		}
	}
}

func patternImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x*3 + y*5) % 256),
				G: uint8((x*7 + y) % 256),
				B: uint8((x + y*11) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestDetectConfig(t *testing.T) {
	tests := []struct {
		w, h     int
		wantSize int
	}{
		{512, 512, 48},
		{1024, 1024, 48},
		{1025, 1024, 48},
		{1025, 1025, 96},
		{4096, 2160, 96},
	}
	for _, tt := range tests {
		cfg := DetectConfig(tt.w, tt.h)
		if cfg.LogoSize != tt.wantSize {
			t.Errorf("DetectConfig(%d,%d).LogoSize = %d, want %d", tt.w, tt.h, cfg.LogoSize, tt.wantSize)
		}
		wantMargin := cfg.LogoSize / 3 * 2
		if cfg.MarginRight != wantMargin || cfg.MarginBottom != wantMargin {
			t.Errorf("DetectConfig(%d,%d) margins = %d/%d, want %d", tt.w, tt.h, cfg.MarginRight, cfg.MarginBottom, wantMargin)
		}
	}
}

func TestRemoveBeforeInit(t *testing.T) {
	eng := NewEngine(gradientSource{})
	img := patternImage(200, 200)
	if err := eng.Remove(img); err != ErrNotInitialized {
		t.Errorf("Remove before Init = %v, want ErrNotInitialized", err)
	}
}

func TestInitFailureStaysFailed(t *testing.T) {
	eng := NewEngine(failingSource{})
	if err := eng.Init(); err == nil {
		t.Fatal("Init with failing source succeeded")
	}
	if err := eng.Remove(patternImage(200, 200)); err != ErrNotInitialized {
		t.Errorf("Remove after failed Init = %v, want ErrNotInitialized", err)
	}
}

func TestInitConcurrent(t *testing.T) {
	eng := NewEngine(gradientSource{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := eng.Init(); err != nil {
				t.Errorf("Init: %v", err)
			}
		}()
	}
	wg.Wait()
	if err := eng.Remove(patternImage(200, 200)); err != nil {
		t.Errorf("Remove after concurrent Init: %v", err)
	}
}

func TestRoundTripSmallLogo(t *testing.T) {
	eng := NewEngine(gradientSource{})
	if err := eng.Init(); err != nil {
		t.Fatal(err)
	}

	img := patternImage(200, 150)
	want := patternImage(200, 150)

	cfg := DetectConfig(200, 150)
	rect := cfg.Footprint(200, 150)
	logo, _ := gradientSource{}.LogoPixels(cfg.LogoSize)
	forwardBlend(img, BuildAlphaMap(logo), cfg.LogoSize, rect)

	if err := eng.Remove(img); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < len(img.Pix); i++ {
		if i%4 == 3 {
			continue
		}
		diff := int(img.Pix[i]) - int(want.Pix[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("channel %d off by %d after reversal", i, diff)
		}
	}
}

func TestRoundTripLargeLogo(t *testing.T) {
	eng := NewEngine(gradientSource{})
	if err := eng.Init(); err != nil {
		t.Fatal(err)
	}

	const w, h = 1100, 1060
	img := patternImage(w, h)
	want := patternImage(w, h)

	cfg := DetectConfig(w, h)
	if cfg.LogoSize != LargeLogoSize {
		t.Fatalf("expected large logo for %dx%d", w, h)
	}
	rect := cfg.Footprint(w, h)
	logo, _ := gradientSource{}.LogoPixels(cfg.LogoSize)
	forwardBlend(img, BuildAlphaMap(logo), cfg.LogoSize, rect)

	if err := eng.Remove(img); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < len(img.Pix); i++ {
		if i%4 == 3 {
			continue
		}
		diff := int(img.Pix[i]) - int(want.Pix[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("channel %d off by %d after reversal", i, diff)
		}
	}
}

func TestRemoveLeavesOutsideUntouched(t *testing.T) {
	eng := NewEngine(gradientSource{})
	if err := eng.Init(); err != nil {
		t.Fatal(err)
	}

	img := patternImage(300, 300)
	want := patternImage(300, 300)
	if err := eng.Remove(img); err != nil {
		t.Fatal(err)
	}

	rect := DetectConfig(300, 300).Footprint(300, 300)
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			if image.Pt(x, y).In(rect) {
				continue
			}
			if img.NRGBAAt(x, y) != want.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) outside footprint changed", x, y)
			}
		}
	}
}

func TestRemoveTooSmall(t *testing.T) {
	eng := NewEngine(gradientSource{})
	if err := eng.Init(); err != nil {
		t.Fatal(err)
	}
	if err := eng.Remove(patternImage(60, 60)); err == nil {
		t.Error("Remove on 60x60 image should fail: footprint does not fit")
	}
}

func TestRemoveFlatRoundTrip(t *testing.T) {
	const alpha = 0.35
	img := patternImage(32, 32)
	want := patternImage(32, 32)

	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			orig := float64(img.Pix[i+c])
			img.Pix[i+c] = uint8(math.Round(alpha*overlayValue + (1-alpha)*orig))
		}
	}

	RemoveFlat(img, alpha)

	for i := 0; i < len(img.Pix); i++ {
		if i%4 == 3 {
			continue
		}
		diff := int(img.Pix[i]) - int(want.Pix[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("channel %d off by %d after flat reversal", i, diff)
		}
	}
}

func TestRemoveFlatNoOpBelowEpsilon(t *testing.T) {
	img := patternImage(8, 8)
	want := patternImage(8, 8)
	RemoveFlat(img, 0.001)
	for i := range img.Pix {
		if img.Pix[i] != want.Pix[i] {
			t.Fatal("RemoveFlat below epsilon mutated the buffer")
		}
	}
}
