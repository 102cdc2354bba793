package export

import (
	"archive/zip"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/klauspost/compress/flate"

	"sprite-tools/pkg/geometry"
)

// jpegQuality matches typical export quality for sprite work; high
// enough that the white predicate still catches the background on a
// re-import.
const jpegQuality = 90

// TileName builds the export filename for a tile at grid position
// (row, col): {base}_r{row:02}_c{col:02}.{ext}.
func TileName(base string, row, col int, ext string) string {
	return fmt.Sprintf("%s_r%02d_c%02d.%s", base, row, col, ext)
}

// WriteZIP packages tiles into a ZIP archive. Tiles arrive in tiling
// order (row-major over a grid cols wide) together with their source
// regions; zero-area regions are skipped rather than written as empty
// files, and the surviving entries keep their positional r/c names.
func WriteZIP(w io.Writer, base, format string, cols int, regions []geometry.RectInt, tiles []*image.NRGBA) error {
	if len(regions) != len(tiles) {
		return fmt.Errorf("region/tile count mismatch: %d vs %d", len(regions), len(tiles))
	}
	if cols <= 0 {
		return fmt.Errorf("invalid column count %d", cols)
	}
	ext, err := formatExt(format)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	for i, t := range tiles {
		if regions[i].Empty() {
			continue
		}
		row, col := i/cols, i%cols

		entry, err := zw.Create(TileName(base, row, col, ext))
		if err != nil {
			return fmt.Errorf("create zip entry: %w", err)
		}
		if err := encodeTile(entry, t, format); err != nil {
			return fmt.Errorf("encode tile r%d c%d: %w", row, col, err)
		}
	}
	return zw.Close()
}

func formatExt(format string) (string, error) {
	switch format {
	case "png":
		return "png", nil
	case "jpeg", "jpg":
		return "jpg", nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

func encodeTile(w io.Writer, img *image.NRGBA, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	}
}
