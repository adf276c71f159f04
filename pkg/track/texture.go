package track

import (
	"image"
	"image/color"
	"math"
)

// RoadPaint describes the cross-section NewRoadTexture draws
type RoadPaint struct {
	Asphalt    color.RGBA // Asphalt on stripe rows
	AsphaltAlt color.RGBA // Asphalt on the other rows
	Edge       color.RGBA // Outer border, identical on both kinds of rows
	Rumble     color.RGBA // Rumble band on stripe rows; Edge on the others
	Marking    color.RGBA // Lane dashes, drawn on stripe rows only
	Lanes      int
}

// DefaultPaint is a two lane road with red rumble strips
func DefaultPaint() RoadPaint {
	return RoadPaint{
		Asphalt:    color.RGBA{100, 100, 100, 255},
		AsphaltAlt: color.RGBA{110, 110, 110, 255},
		Edge:       color.RGBA{240, 240, 240, 255},
		Rumble:     color.RGBA{200, 30, 30, 255},
		Marking:    color.RGBA{240, 240, 240, 255},
		Lanes:      2,
	}
}

// NewRoadTexture draws a size×size road texture in the layout the
// rasterizer samples. Row w−1 holds the road drawn w pixels wide in its
// first w columns with stripe paint; row size−w holds it w pixels wide in
// its last w columns with the alternate paint. The two halves share the
// diagonal, which is why both use Edge at the borders.
func NewRoadTexture(size int, paint RoadPaint) *image.RGBA {
	tex := image.NewRGBA(image.Rect(0, 0, size, size))

	for w := 1; w <= size; w++ {
		for i := 0; i < w; i++ {
			u := (float64(i) + 0.5) / float64(w)
			border := i == 0 || i == w-1
			tex.SetRGBA(i, w-1, paint.sample(u, true, border))
		}
	}
	for w := 1; w <= size; w++ {
		for i := 0; i < w; i++ {
			u := (float64(i) + 0.5) / float64(w)
			border := i == 0 || i == w-1
			tex.SetRGBA(size-w+i, size-w, paint.sample(u, false, border))
		}
	}

	return tex
}

func (p RoadPaint) sample(u float64, stripe, border bool) color.RGBA {
	const (
		edgeBand   = 0.02
		rumbleBand = 0.08
		dashHalf   = 0.012
	)

	if border || u < edgeBand || u >= 1-edgeBand {
		return p.Edge
	}
	if u < rumbleBand || u >= 1-rumbleBand {
		if stripe {
			return p.Rumble
		}
		return p.Edge
	}
	if !stripe {
		return p.AsphaltAlt
	}
	for k := 1; k < p.Lanes; k++ {
		if math.Abs(u-float64(k)/float64(p.Lanes)) < dashHalf {
			return p.Marking
		}
	}
	return p.Asphalt
}
