package billboard

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"

	"github.com/golangdaddy/roadster/pkg/geom"
)

var (
	ErrMalformedMeta     = errors.New("sprite meta is not a whole number of records")
	ErrNoLods            = errors.New("sprite meta has no records")
	ErrLodOutOfSheet     = errors.New("sprite rectangle is outside the sheet")
	ErrDuplicateLodWidth = errors.New("two sprite levels share a width")
)

// MetaRecordSize is the packed size of one Rect in a meta file
const MetaRecordSize = 16

// Rect is one sprite of a sheet, stored as four little-endian uint32
type Rect struct {
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

// DecodeMeta parses a packed meta blob
func DecodeMeta(meta []byte) ([]Rect, error) {
	if len(meta)%MetaRecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedMeta, len(meta))
	}
	rects := make([]Rect, len(meta)/MetaRecordSize)
	if err := binary.Read(bytes.NewReader(meta), binary.LittleEndian, rects); err != nil {
		return nil, fmt.Errorf("failed to read sprite meta: %w", err)
	}
	return rects, nil
}

// EncodeMeta packs rects the way DecodeMeta reads them
func EncodeMeta(rects []Rect) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	_ = binary.Write(&buf, binary.LittleEndian, rects)
	return buf.Bytes()
}

// Lod is one pre-rendered level of a sprite. Scale is its width relative
// to the full size level.
type Lod struct {
	Image *image.RGBA
	Scale float64
}

// Lods is every level of one sprite, widest first. The first level is the
// full size sprite with scale 1.
type Lods struct {
	lods []Lod
}

// BuildLods crops the levels described by meta out of a sprite sheet. The
// records may come in any order.
func BuildLods(sheet image.Image, meta []byte) (*Lods, error) {
	rects, err := DecodeMeta(meta)
	if err != nil {
		return nil, err
	}
	if len(rects) == 0 {
		return nil, ErrNoLods
	}

	sort.SliceStable(rects, func(i, j int) bool { return rects[i].Width > rects[j].Width })

	bounds := sheet.Bounds()
	lods := make([]Lod, 0, len(rects))
	for i, r := range rects {
		if r.Width == 0 || r.Height == 0 {
			return nil, fmt.Errorf("%w: level %d is empty", ErrLodOutOfSheet, i)
		}
		if i > 0 && r.Width == rects[i-1].Width {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateLodWidth, r.Width)
		}

		src := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height)).Add(bounds.Min)
		if !src.In(bounds) {
			return nil, fmt.Errorf("%w: %v not in %v", ErrLodOutOfSheet, src, bounds)
		}

		img := image.NewRGBA(image.Rect(0, 0, int(r.Width), int(r.Height)))
		draw.Draw(img, img.Bounds(), sheet, src.Min, draw.Src)

		lods = append(lods, Lod{
			Image: img,
			Scale: float64(r.Width) / float64(rects[0].Width),
		})
	}

	return &Lods{lods: lods}, nil
}

// NewLods wraps already rendered levels, ordered widest first
func NewLods(levels []*image.RGBA) (*Lods, error) {
	if len(levels) == 0 {
		return nil, ErrNoLods
	}
	full := float64(levels[0].Bounds().Dx())
	lods := make([]Lod, len(levels))
	for i, img := range levels {
		w := img.Bounds().Dx()
		if i > 0 && w >= levels[i-1].Bounds().Dx() {
			return nil, fmt.Errorf("%w: level %d is %d wide", ErrDuplicateLodWidth, i, w)
		}
		lods[i] = Lod{Image: img, Scale: float64(w) / full}
	}
	return &Lods{lods: lods}, nil
}

// Len returns the number of levels
func (l *Lods) Len() int {
	return len(l.lods)
}

// Lod returns level i
func (l *Lods) Lod(i int) Lod {
	return l.lods[i]
}

// LodID picks the level whose scale is closest to the wanted on-screen
// scale. Scales above the full size level clamp to it, scales below the
// smallest clamp to the smallest.
func (l *Lods) LodID(scale float64) int {
	for i, lod := range l.lods {
		if lod.Scale > scale {
			continue
		}
		if i == 0 {
			return 0
		}
		toLarger := l.lods[i-1].Scale - scale
		toSmaller := scale - lod.Scale
		if toSmaller > toLarger {
			return i - 1
		}
		return i
	}
	return len(l.lods) - 1
}

// Render draws the level matching scale with its bottom edge on row y,
// horizontally centered on column x. Transparent pixels are skipped and
// everything else is copied opaque.
func (l *Lods) Render(buf *image.RGBA, x, y int, scale float64) {
	img := l.lods[l.LodID(scale)].Image
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	anchor := geom.IVec2{X: x, Y: y}
	overlay(buf, img, anchor.Sub(geom.IVec2{X: w / 2, Y: h - 1}))
}

// overlay copies the non-transparent pixels of top onto bottom with the
// top-left corner of top at pos, relative to the bounds of bottom
func overlay(bottom, top *image.RGBA, pos geom.IVec2) {
	bb := bottom.Bounds()
	tb := top.Bounds()

	x0 := geom.Max(0, -pos.X)
	x1 := geom.Min(tb.Dx(), bb.Dx()-pos.X)
	y0 := geom.Max(0, -pos.Y)
	y1 := geom.Min(tb.Dy(), bb.Dy()-pos.Y)

	origin := geom.IVec2{X: bb.Min.X, Y: bb.Min.Y}.Add(pos)
	for sy := y0; sy < y1; sy++ {
		for sx := x0; sx < x1; sx++ {
			c := top.RGBAAt(tb.Min.X+sx, tb.Min.Y+sy)
			if c.A == 0 {
				continue
			}
			c.A = 0xff
			dst := origin.Add(geom.IVec2{X: sx, Y: sy})
			bottom.SetRGBA(dst.X, dst.Y, c)
		}
	}
}
