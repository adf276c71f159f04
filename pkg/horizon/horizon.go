package horizon

import (
	"image"
	"math"

	"github.com/golangdaddy/roadster/pkg/geom"
)

// Horizon is a backdrop strip drawn above the ground that wraps around
// horizontally as the track turns
type Horizon struct {
	image *image.RGBA
}

// New creates a horizon from a strip image. Transparent pixels let the sky
// through.
func New(img *image.RGBA) *Horizon {
	return &Horizon{image: img}
}

// Image returns the strip
func (h *Horizon) Image() *image.RGBA {
	return h.image
}

// Render draws the strip with its bottom edge on baseRow. offset shifts the
// strip left by that fraction of its width; whole turns wrap around.
func (h *Horizon) Render(buf *image.RGBA, baseRow int, offset float64) {
	src := h.image.Bounds()
	dst := buf.Bounds()
	w, hgt := src.Dx(), src.Dy()
	if w == 0 || hgt == 0 || math.IsNaN(offset) || math.IsInf(offset, 0) {
		return
	}

	startX := int(geom.Mod(offset, 1) * float64(w))

	for i := 0; i < hgt; i++ {
		y := baseRow - i
		if y < 0 {
			break
		}
		if y >= dst.Dy() {
			continue
		}
		sy := src.Min.Y + hgt - 1 - i

		for x := 0; x < dst.Dx(); x++ {
			sx := src.Min.X + (startX+x)%w
			c := h.image.RGBAAt(sx, sy)
			if c.A == 0 {
				continue
			}
			c.A = 0xff
			buf.SetRGBA(dst.Min.X+x, dst.Min.Y+y, c)
		}
	}
}
