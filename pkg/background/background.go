package background

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"golang.org/x/image/draw"

	"github.com/golangdaddy/roadster/pkg/billboard"
	"github.com/golangdaddy/roadster/pkg/geom"
)

// Generator creates procedural scenery: the horizon strip and roadside
// sprite sheets. Width and Height are the size of the strip or of the
// full size sprite.
type Generator struct {
	Width  int
	Height int
}

// NewGenerator creates a new background generator
func NewGenerator(width, height int) *Generator {
	return &Generator{
		Width:  width,
		Height: height,
	}
}

// GenerateHorizon creates a strip of distant hills topped by a tree line.
// The sky is left transparent. The strip tiles horizontally.
func (g *Generator) GenerateHorizon(seed int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	rng := rand.New(rand.NewSource(seed))

	// Hills, far layer first. Whole periods across the width keep the
	// strip seamless.
	layers := []struct {
		c      color.RGBA
		height float64
		period int
	}{
		{color.RGBA{70, 110, 120, 255}, 0.9, 2},
		{color.RGBA{40, 90, 60, 255}, 0.6, 3},
	}
	for _, l := range layers {
		phase := rng.Float64() * 2 * math.Pi
		for x := 0; x < g.Width; x++ {
			t := float64(x) / float64(g.Width) * 2 * math.Pi * float64(l.period)
			ridge := 0.6 + 0.25*math.Sin(t+phase) + 0.1*math.Sin(3*t-phase)
			top := g.Height - int(ridge*l.height*float64(g.Height))
			for y := geom.Max(top, 0); y < g.Height; y++ {
				img.SetRGBA(x, y, l.c)
			}
		}
	}

	// Tree line along the bottom edge
	for x := 0; x < g.Width; x += 3 + rng.Intn(6) {
		drawX := x + rng.Intn(4) - 2
		if rng.Float64() < 0.4 {
			g.drawTree(img, drawX, g.Height-1, 8+rng.Intn(g.Height/3+1), 5+rng.Intn(6), rng)
		} else {
			g.drawBush(img, drawX, g.Height-2, 2+rng.Intn(4), rng)
		}
	}

	return img
}

// GenerateTreeSheet draws a pine tree sprite and packs it with lods-1
// smaller copies, each half the size of the previous one, side by side
func (g *Generator) GenerateTreeSheet(seed int64, lods int) (*image.RGBA, []billboard.Rect) {
	full := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	rng := rand.New(rand.NewSource(seed))
	g.drawTree(full, g.Width/2, g.Height-1, g.Height, g.Width, rng)
	return Pack(full, lods)
}

// GenerateBushSheet is GenerateTreeSheet for a round bush
func (g *Generator) GenerateBushSheet(seed int64, lods int) (*image.RGBA, []billboard.Rect) {
	full := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	rng := rand.New(rand.NewSource(seed))
	radius := geom.Min(g.Width, g.Height)/2 - 1
	g.drawBush(full, g.Width/2, g.Height-1-radius, radius, rng)
	return Pack(full, lods)
}

// Pack downscales sprite into up to lods levels, halving each time, and
// lays them out left to right on one sheet. It stops early once a level
// would be less than two pixels wide.
func Pack(sprite image.Image, lods int) (*image.RGBA, []billboard.Rect) {
	b := sprite.Bounds()
	var rects []billboard.Rect
	sheetW := 0
	w, h := b.Dx(), b.Dy()
	for i := 0; i < lods && w >= 2 && h >= 1; i++ {
		rects = append(rects, billboard.Rect{X: uint32(sheetW), Width: uint32(w), Height: uint32(h)})
		sheetW += w
		w, h = w/2, h/2
	}

	sheet := image.NewRGBA(image.Rect(0, 0, sheetW, b.Dy()))
	for _, r := range rects {
		dst := image.Rect(int(r.X), 0, int(r.X+r.Width), int(r.Height))
		if r.Width == uint32(b.Dx()) {
			draw.Draw(sheet, dst, sprite, b.Min, draw.Src)
			continue
		}
		draw.CatmullRom.Scale(sheet, dst, sprite, b, draw.Src, nil)
	}
	return sheet, rects
}

// PackImages lays ready made levels out left to right, top aligned, on
// one sheet
func PackImages(levels ...image.Image) (*image.RGBA, []billboard.Rect) {
	rects := make([]billboard.Rect, 0, len(levels))
	sheetW, sheetH := 0, 0
	for _, img := range levels {
		b := img.Bounds()
		rects = append(rects, billboard.Rect{X: uint32(sheetW), Width: uint32(b.Dx()), Height: uint32(b.Dy())})
		sheetW += b.Dx()
		sheetH = geom.Max(sheetH, b.Dy())
	}

	sheet := image.NewRGBA(image.Rect(0, 0, sheetW, sheetH))
	for i, img := range levels {
		r := rects[i]
		dst := image.Rect(int(r.X), 0, int(r.X+r.Width), int(r.Height))
		draw.Draw(sheet, dst, img, img.Bounds().Min, draw.Src)
	}
	return sheet, rects
}

// drawTree draws a simple pine tree standing on (x, y)
func (g *Generator) drawTree(img *image.RGBA, x, y, height, width int, rng *rand.Rand) {
	// Trunk
	trunkColor := color.RGBA{60, 40, 20, 255}
	trunkW := geom.Max(2, width/6)
	for ty := 0; ty < height/3; ty++ {
		for tx := -trunkW / 2; tx < trunkW-trunkW/2; tx++ {
			set(img, x+tx, y-ty, trunkColor)
		}
	}

	// Leaves (Triangle shape)
	leavesColor := color.RGBA{
		uint8(20 + rng.Intn(30)),
		uint8(80 + rng.Intn(60)),
		uint8(20 + rng.Intn(30)),
		255,
	}

	layers := 3
	layerH := geom.Max(1, (height-height/3)/2)
	for l := 0; l < layers; l++ {
		layerY := y - (height / 3) - (l * layerH / 2)
		layerW := geom.Max(3, width-(l*width/4))

		for ly := 0; ly < layerH; ly++ {
			rowW := layerW * (layerH - ly) / layerH
			for lx := -rowW / 2; lx < rowW-rowW/2; lx++ {
				set(img, x+lx, layerY-ly, leavesColor)
			}
		}
	}
}

// drawBush draws a round bush centered on (x, y)
func (g *Generator) drawBush(img *image.RGBA, x, y, radius int, rng *rand.Rand) {
	c := color.RGBA{
		uint8(40 + rng.Intn(40)),
		uint8(100 + rng.Intn(50)),
		uint8(40 + rng.Intn(40)),
		255,
	}

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				set(img, x+dx, y+dy, c)
			}
		}
	}
}

// set writes a pixel, wrapping x around the image so strips tile
func set(img *image.RGBA, x, y int, c color.RGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y || b.Empty() {
		return
	}
	w := b.Dx()
	x = ((x-b.Min.X)%w+w)%w + b.Min.X
	img.SetRGBA(x, y, c)
}
