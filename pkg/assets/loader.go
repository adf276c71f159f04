package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/golangdaddy/roadster/pkg/billboard"
)

// Loader reads images and sprite meta files relative to a root directory
type Loader struct {
	Root string
}

// NewLoader creates a loader for the given asset directory
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// Path resolves a name against the root. Absolute names are kept.
func (l *Loader) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.Root, name)
}

// LoadRGBA decodes a png, bmp or webp image into RGBA
func (l *Loader) LoadRGBA(name string) (*image.RGBA, error) {
	f, err := os.Open(l.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}

	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// LoadMeta reads a packed sprite meta file
func (l *Loader) LoadMeta(name string) ([]byte, error) {
	meta, err := os.ReadFile(l.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read sprite meta: %w", err)
	}
	return meta, nil
}

// LoadLods builds a sprite from a sheet and its meta file
func (l *Loader) LoadLods(sheet, meta string) (*billboard.Lods, error) {
	img, err := l.LoadRGBA(sheet)
	if err != nil {
		return nil, err
	}
	raw, err := l.LoadMeta(meta)
	if err != nil {
		return nil, err
	}
	lods, err := billboard.BuildLods(img, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to build sprite %s: %w", sheet, err)
	}
	return lods, nil
}
