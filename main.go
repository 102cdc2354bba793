// Command sprite-tools processes a sprite sheet: optional watermark
// reversal, background removal, center-crop, then export as a tile ZIP
// or an animated GIF.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sprite-tools/internal/export"
	"sprite-tools/internal/imaging"
	"sprite-tools/internal/removal"
	"sprite-tools/internal/tile"
	"sprite-tools/internal/watermark"
)

func main() {
	imagePath := flag.String("image", "", "Path to sprite sheet (PNG, JPEG, GIF, BMP, TIFF, or WebP)")
	outPath := flag.String("out", "", "Output path (.zip or .gif)")
	format := flag.String("format", "png", "Tile format inside the ZIP: png or jpeg")
	rows := flag.Int("rows", 1, "Grid rows")
	cols := flag.Int("cols", 1, "Grid columns")
	splits := flag.String("split", "", "Split lines instead of a grid, e.g. h:50,v:25 (percent)")
	bg := flag.String("bg", "none", "Background removal: none, white, magenta, or auto")
	tolerance := flag.Float64("tolerance", -1, "Removal tolerance; white 0-255, magenta 0-1, -1 = auto")
	global := flag.Bool("global", false, "Replace matching pixels everywhere, not just flood-reachable ones")
	expand := flag.Int("expand", 0, "Expansion radius in pixels after removal")
	expandConn := flag.Int("expand-conn", 4, "Expansion connectivity: 4 or 8")
	despill := flag.Int("despill", 0, "Magenta despill threshold, 0 disables")
	neutralize := flag.Bool("neutralize", false, "Zero RGB on transparent pixels")
	crop := flag.String("crop", "", "Center-crop/pad each tile to WxH, e.g. 128x128")
	watermarkDir := flag.String("watermark", "", "Directory with watermark logos bg_48.png and bg_96.png")
	flatAlpha := flag.Float64("flat-alpha", 0, "Constant-alpha watermark reversal, used without -watermark")
	asGIF := flag.Bool("gif", false, "Assemble frames into an animated GIF instead of a ZIP")
	delay := flag.Int("delay", 10, "GIF frame delay in 1/100 s")
	flag.Parse()

	if *imagePath == "" || *outPath == "" {
		fmt.Println("Usage: sprite-tools -image <path> -out <path> [-rows N -cols N | -split h:50,v:25] [options]")
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	src, srcFormat, err := imaging.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s image: %dx%d pixels\n", srcFormat, src.Bounds().Dx(), src.Bounds().Dy())

	p := export.Pipeline{FlatAlpha: *flatAlpha}

	if *watermarkDir != "" {
		engine := watermark.NewEngine(watermark.FSSource(os.DirFS(*watermarkDir), "bg_%d.png"))
		if err := engine.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load watermark logos: %v\n", err)
			os.Exit(1)
		}
		p.Watermark = engine
		fmt.Printf("Watermark: mapped reversal from %s\n", *watermarkDir)
	} else if *flatAlpha > 0 {
		fmt.Printf("Watermark: flat reversal alpha=%.3f\n", *flatAlpha)
	}

	mode := *bg
	if mode == "auto" {
		detected := export.DetectBackdrop(src)
		fmt.Printf("Detected backdrop: %s\n", detected)
		switch detected {
		case export.BackdropWhite:
			mode = "white"
		case export.BackdropMagenta:
			mode = "magenta"
		default:
			mode = "none"
		}
	}

	switch mode {
	case "none":
	case "white":
		tol := *tolerance
		if tol < 0 {
			tol = float64(removal.EstimateTolerance(src))
			fmt.Printf("Estimated white tolerance: %.0f\n", tol)
		}
		p.Predicate = removal.WhitePredicate(uint8(tol))
	case "magenta":
		tol := *tolerance
		if tol < 0 {
			tol = 0.5
		}
		p.Predicate = removal.MagentaPredicate(tol)
	default:
		fmt.Fprintf(os.Stderr, "Unknown background mode %q\n", *bg)
		os.Exit(1)
	}

	if p.Predicate != nil {
		opts := removal.DefaultCleanup()
		opts.UseFloodFill = !*global
		if *expand > 0 {
			opts = opts.WithExpansion(*expand, *expandConn)
		}
		if *despill > 0 {
			opts = opts.WithDespill(*despill)
		}
		opts.NeutralizeRGB = *neutralize
		p.Cleanup = opts
		fmt.Printf("Background removal: %s (flood=%v expand=%d despill=%d)\n",
			mode, opts.UseFloodFill, opts.ExpansionPixels, opts.DespillThreshold)
	}

	if *crop != "" {
		w, h, err := parseSize(*crop)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad -crop value: %v\n", err)
			os.Exit(1)
		}
		p.CropW, p.CropH = w, h
		fmt.Printf("Crop: %dx%d\n", w, h)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	ctx := context.Background()
	base := strings.TrimSuffix(filepath.Base(*imagePath), filepath.Ext(*imagePath))

	switch {
	case *asGIF:
		frames, err := p.ProcessGrid(ctx, src, *rows, *cols)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
			os.Exit(1)
		}
		if err := export.EncodeGIF(out, frames, *delay); err != nil {
			fmt.Fprintf(os.Stderr, "GIF encode failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d frames to %s\n", len(frames), *outPath)

	case *splits != "":
		lines, err := parseSplits(*splits)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad -split value: %v\n", err)
			os.Exit(1)
		}
		regions := tile.ComputeRegions(src.Bounds().Dx(), src.Bounds().Dy(), lines)
		tiles := tile.SliceRegions(src, regions)
		nCols := countColumns(lines)
		written := 0
		for i, tl := range tiles {
			if regions[i].Empty() {
				continue
			}
			if tiles[i], err = p.Apply(tl); err != nil {
				fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
				os.Exit(1)
			}
			written++
		}
		if err := export.WriteZIP(out, base, *format, nCols, regions, tiles); err != nil {
			fmt.Fprintf(os.Stderr, "ZIP export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d tiles (%d regions) to %s\n", written, len(regions), *outPath)

	default:
		frames, err := p.ProcessGrid(ctx, src, *rows, *cols)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
			os.Exit(1)
		}
		regions := tile.GridRegions(src.Bounds().Dx(), src.Bounds().Dy(), *rows, *cols)
		if err := export.WriteZIP(out, base, *format, *cols, regions, frames); err != nil {
			fmt.Fprintf(os.Stderr, "ZIP export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d tiles to %s\n", len(frames), *outPath)
	}
}

// parseSplits reads a comma-separated split list, each entry an
// orientation prefix and a percentage: h:50 or v:33.3.
func parseSplits(s string) ([]tile.SplitLine, error) {
	var lines []tile.SplitLine
	for i, tok := range strings.Split(s, ",") {
		axis, val, ok := strings.Cut(strings.TrimSpace(tok), ":")
		if !ok {
			return nil, fmt.Errorf("entry %q: want h:NN or v:NN", tok)
		}
		pos, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", tok, err)
		}
		var o tile.Orientation
		switch axis {
		case "h":
			o = tile.Horizontal
		case "v":
			o = tile.Vertical
		default:
			return nil, fmt.Errorf("entry %q: unknown axis %q", tok, axis)
		}
		lines = append(lines, tile.SplitLine{
			ID:          fmt.Sprintf("s%d", i),
			Orientation: o,
			Position:    pos,
		})
	}
	return lines, nil
}

// countColumns is the region-grid width produced by a split list: one
// more than the number of vertical lines.
func countColumns(lines []tile.SplitLine) int {
	n := 1
	for _, l := range lines {
		if l.Orientation == tile.Vertical {
			n++
		}
	}
	return n
}

func parseSize(s string) (int, int, error) {
	wStr, hStr, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("%q: want WxH", s)
	}
	w, err := strconv.Atoi(wStr)
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(hStr)
	if err != nil {
		return 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%q: dimensions must be positive", s)
	}
	return w, h, nil
}
