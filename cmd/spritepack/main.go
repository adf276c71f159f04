// Command spritepack builds a billboard sprite sheet and its meta file.
//
// Given several images it packs them left to right as ready made levels.
// Given one image and -lods N it generates N levels by halving.
//
//	spritepack -out assets/sprites/pine pine_64.png pine_32.png pine_16.png
//	spritepack -out assets/sprites/pine -lods 4 pine.png
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/golangdaddy/roadster/pkg/assets"
	"github.com/golangdaddy/roadster/pkg/background"
	"github.com/golangdaddy/roadster/pkg/billboard"
	"github.com/golangdaddy/roadster/pkg/logging"
)

func main() {
	out := flag.String("out", "output", "output path without extension; writes .png and .meta")
	lods := flag.Int("lods", 1, "levels to generate from a single input image")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: spritepack [-out path] [-lods n] image...")
		os.Exit(2)
	}
	if err := run(flag.Args(), *out, *lods); err != nil {
		logging.Fatal("spritepack failed", "err", err)
	}
}

func run(inputs []string, out string, lods int) error {
	loader := assets.NewLoader("")
	images := make([]image.Image, 0, len(inputs))
	for _, name := range inputs {
		img, err := loader.LoadRGBA(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		images = append(images, img)
	}

	var (
		sheet *image.RGBA
		rects []billboard.Rect
	)
	if len(images) == 1 && lods > 1 {
		sheet, rects = background.Pack(images[0], lods)
	} else {
		sheet, rects = background.PackImages(images...)
	}

	meta := billboard.EncodeMeta(rects)
	// same checks as loading the sheet in a track
	if _, err := billboard.BuildLods(sheet, meta); err != nil {
		return err
	}

	f, err := os.Create(out + ".png")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := png.Encode(f, sheet); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode sheet: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.WriteFile(out+".meta", meta, 0o644); err != nil {
		return fmt.Errorf("failed to write meta: %w", err)
	}

	logging.Info("sprite sheet packed", "out", out, "levels", len(rects), "size", sheet.Bounds().Size())
	return nil
}
