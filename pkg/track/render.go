package track

import (
	"image"
	"image/color"
	"math"

	"github.com/golangdaddy/roadster/pkg/camera"
)

// Render paints the rows of the last ComputeYData call into buf. Rows
// with ground get a full-width band in the stripe color, then every road
// paints its body on the rows it covers. Sky rows are left untouched, so
// the caller fills them first.
func (t *Track) Render(buf *image.RGBA, cam *camera.Camera) {
	rows := t.yData
	if len(rows) > buf.Bounds().Dy() {
		rows = rows[:buf.Bounds().Dy()]
	}

	for y, row := range rows {
		if row.Distance <= 0 {
			continue
		}
		ground := t.GroundSecondary
		if row.IsHorzLine {
			ground = t.GroundMain
		}
		fillRow(buf, y, ground)
	}

	for _, road := range t.data.roads {
		road.render(buf, rows, cam)
	}
}

func (r *Road) render(buf *image.RGBA, rows []YData, cam *camera.Camera) {
	bounds := buf.Bounds()
	width := bounds.Dx()
	tex := r.texture.Bounds()
	texW, texH := tex.Dx(), tex.Dy()

	for y, row := range rows {
		left, right, ok := r.Borders(row, cam)
		if !ok {
			continue
		}

		leftPx := int(math.Floor(left * float64(width)))
		rightPx := int(math.Floor(right * float64(width)))
		roadWidthPx := rightPx - leftPx + 1

		// the texture holds one rendition per pixel width; wider roads skip the row
		if roadWidthPx < 1 || roadWidthPx >= texW-1 || roadWidthPx > texH {
			continue
		}

		// stripe rows read the rendition from the top-left half of the texture,
		// the others its mirror in the bottom-right half
		sampleX, sampleY := texW-roadWidthPx, texH-roadWidthPx
		if row.IsHorzLine {
			sampleX, sampleY = 0, roadWidthPx-1
		}

		for x := leftPx; x <= rightPx; x, sampleX = x+1, sampleX+1 {
			if x < 0 || x >= width {
				continue
			}
			buf.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, r.texture.RGBAAt(tex.Min.X+sampleX, tex.Min.Y+sampleY))
		}
	}
}

func fillRow(buf *image.RGBA, y int, c color.RGBA) {
	b := buf.Bounds()
	start := buf.PixOffset(b.Min.X, b.Min.Y+y)
	pix := buf.Pix[start : start+b.Dx()*4]
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}
