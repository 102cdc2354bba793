package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"sprite-tools/internal/tile"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestTileName(t *testing.T) {
	got := TileName("sheet", 3, 12, "png")
	if got != "sheet_r03_c12.png" {
		t.Errorf("TileName = %q", got)
	}
}

func TestWriteZIPSkipsEmptyRegions(t *testing.T) {
	src := solid(10, 10, color.NRGBA{R: 40, A: 255})
	// Duplicate horizontal cuts leave a zero-height middle region.
	lines := []tile.SplitLine{
		{ID: "a", Orientation: tile.Horizontal, Position: 50},
		{ID: "b", Orientation: tile.Horizontal, Position: 50},
	}
	regions := tile.ComputeRegions(10, 10, lines)
	if len(regions) != 3 {
		t.Fatalf("regions = %d, want 3", len(regions))
	}
	tiles := tile.SliceRegions(src, regions)

	var buf bytes.Buffer
	if err := WriteZIP(&buf, "sheet", "png", 1, regions, tiles); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"sheet_r00_c00.png", "sheet_r02_c00.png"}
	if len(zr.File) != len(want) {
		t.Fatalf("archive has %d entries, want %d", len(zr.File), len(want))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestWriteZIPCountMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := WriteZIP(&buf, "x", "png", 1, nil, []*image.NRGBA{solid(1, 1, color.NRGBA{A: 255})})
	if err == nil {
		t.Fatal("expected error on region/tile count mismatch")
	}
}

func TestWriteZIPUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteZIP(&buf, "x", "webp", 1, nil, nil)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestEncodeGIFRoundTrip(t *testing.T) {
	red := solid(8, 8, color.NRGBA{R: 255, A: 255})
	blue := solid(8, 8, color.NRGBA{B: 255, A: 255})
	// Punch a transparent hole into the second frame.
	blue.SetNRGBA(2, 2, color.NRGBA{})

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, []*image.NRGBA{red, blue}, 10); err != nil {
		t.Fatal(err)
	}

	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 2 {
		t.Fatalf("decoded %d frames, want 2", len(anim.Image))
	}
	if anim.Delay[0] != 10 || anim.Delay[1] != 10 {
		t.Errorf("delays = %v, want 10 each", anim.Delay)
	}

	r, _, _, a := anim.Image[0].At(0, 0).RGBA()
	if r>>8 != 255 || a>>8 != 255 {
		t.Errorf("first frame pixel = %v, want opaque red", anim.Image[0].At(0, 0))
	}
	if _, _, _, a := anim.Image[1].At(2, 2).RGBA(); a != 0 {
		t.Error("hole in second frame should stay transparent")
	}
}

func TestEncodeGIFNoFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, nil, 5); err == nil {
		t.Fatal("expected error for empty frame list")
	}
}

func TestProcessGridRowMajor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	quads := []color.NRGBA{
		{R: 10, A: 255}, {R: 20, A: 255},
		{R: 30, A: 255}, {R: 40, A: 255},
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, quads[(y/2)*2+x/2])
		}
	}

	frames, err := Pipeline{}.ProcessGrid(context.Background(), src, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(frames))
	}
	for i, f := range frames {
		if got := f.NRGBAAt(f.Bounds().Min.X, f.Bounds().Min.Y); got != quads[i] {
			t.Errorf("frame %d = %+v, want %+v", i, got, quads[i])
		}
	}
}

func TestProcessGridCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Pipeline{}.ProcessGrid(ctx, solid(4, 4, color.NRGBA{A: 255}), 2, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPipelineCrop(t *testing.T) {
	p := Pipeline{CropW: 4, CropH: 4}
	out, err := p.Apply(solid(8, 8, color.NRGBA{G: 9, A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("cropped size %dx%d, want 4x4", b.Dx(), b.Dy())
	}
}

func TestDetectBackdrop(t *testing.T) {
	tests := []struct {
		name string
		img  *image.NRGBA
		want Backdrop
	}{
		{"white", solid(32, 32, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), BackdropWhite},
		{"near white", solid(32, 32, color.NRGBA{R: 245, G: 248, B: 244, A: 255}), BackdropWhite},
		{"magenta", solid(32, 32, color.NRGBA{R: 255, B: 255, A: 255}), BackdropMagenta},
		{"gray", solid(32, 32, color.NRGBA{R: 128, G: 128, B: 128, A: 255}), BackdropUnknown},
		{"too small", solid(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), BackdropUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBackdrop(tt.img); got != tt.want {
				t.Errorf("DetectBackdrop = %v, want %v", got, tt.want)
			}
		})
	}
}
