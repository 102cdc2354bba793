// Package export runs the per-tile effect pipeline and packages the
// results into archives or animations.
package export

import (
	"context"
	"fmt"
	"image"

	"sprite-tools/internal/imaging"
	"sprite-tools/internal/removal"
	"sprite-tools/internal/tile"
	"sprite-tools/internal/watermark"
)

// Pipeline applies the optional per-buffer stages in fixed order:
// watermark reversal, background removal, center-crop. Each stage is
// skipped when its field is unset. A Pipeline is a value; the same one
// may drive many buffers.
type Pipeline struct {
	// Watermark reverses the mapped overlay when non-nil. FlatAlpha is
	// the coarser constant-alpha variant, used only when Watermark is
	// nil and the value is positive.
	Watermark *watermark.Engine
	FlatAlpha float64

	// Predicate enables background removal when non-nil, configured by
	// Cleanup.
	Predicate removal.Predicate
	Cleanup   removal.CleanupOptions

	// CropW/CropH center-crop (or pad) the result when both positive.
	CropW, CropH int
}

// Apply runs the pipeline on one buffer. The buffer is mutated in
// place; the returned buffer differs from the input only when the crop
// stage allocates a new canvas.
func (p Pipeline) Apply(img *image.NRGBA) (*image.NRGBA, error) {
	if p.Watermark != nil {
		if err := p.Watermark.Remove(img); err != nil {
			return nil, fmt.Errorf("watermark: %w", err)
		}
	} else if p.FlatAlpha > 0 {
		watermark.RemoveFlat(img, p.FlatAlpha)
	}

	if p.Predicate != nil {
		removal.Remove(img, p.Predicate, nil, p.Cleanup)
	}

	if p.CropW > 0 && p.CropH > 0 {
		img = imaging.CropFromCenter(img, p.CropW, p.CropH)
	}
	return img, nil
}

// ProcessGrid cuts a sprite sheet into rows×cols cells and applies the
// pipeline to each independently, returning frames in row-major order.
// Cancellation is honored between frames only; a started frame always
// finishes (engine calls are bounded by cell size).
func (p Pipeline) ProcessGrid(ctx context.Context, src *image.NRGBA, rows, cols int) ([]*image.NRGBA, error) {
	cells := tile.SliceGrid(src, rows, cols)
	frames := make([]*image.NRGBA, 0, rows*cols)
	for r := range cells {
		for c := range cells[r] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out, err := p.Apply(cells[r][c])
			if err != nil {
				return nil, fmt.Errorf("cell r%d c%d: %w", r, c, err)
			}
			frames = append(frames, out)
		}
	}
	return frames, nil
}
