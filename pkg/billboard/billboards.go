package billboard

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/geom"
	"github.com/golangdaddy/roadster/pkg/track"
)

// ErrUnknownBillboard is returned for a dynamic billboard id that was never added
var ErrUnknownBillboard = errors.New("unknown dynamic billboard")

// ID addresses a dynamic billboard. Ids are slot indexes and stay valid for
// the lifetime of the container.
type ID uint32

// Billboard is one sprite placed along the track
type Billboard struct {
	RoadDistance float64 // Distance along the track
	Offset       float64 // Lateral offset from the track centerline, in road widths
	Asset        AssetID
}

// Billboards owns the static scenery and the dynamic objects of a ride
// and composites them back to front
type Billboards struct {
	catalog *Catalog
	static  []Billboard // sorted by RoadDistance
	dynamic []Billboard // indexed by ID

	view []Billboard
}

// New creates an empty container resolving sprites through catalog
func New(catalog *Catalog) *Billboards {
	return &Billboards{catalog: catalog}
}

// Catalog returns the sprite catalog of the container
func (b *Billboards) Catalog() *Catalog {
	return b.catalog
}

// AddStatic inserts a billboard that never moves, keeping the static list
// sorted. Billboards at equal distances keep their insertion order.
func (b *Billboards) AddStatic(bb Billboard) {
	for i := range b.static {
		if b.static[i].RoadDistance > bb.RoadDistance {
			b.static = append(b.static, Billboard{})
			copy(b.static[i+1:], b.static[i:])
			b.static[i] = bb
			return
		}
	}
	b.static = append(b.static, bb)
}

// AddDynamic adds a billboard that may move and returns its id
func (b *Billboards) AddDynamic(bb Billboard) ID {
	b.dynamic = append(b.dynamic, bb)
	return ID(len(b.dynamic) - 1)
}

// Dynamic returns the dynamic billboard for in-place updates
func (b *Billboards) Dynamic(id ID) (*Billboard, error) {
	if int(id) >= len(b.dynamic) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBillboard, id)
	}
	return &b.dynamic[id], nil
}

// Static returns the sorted static billboards
func (b *Billboards) Static() []Billboard {
	return b.static
}

// Len returns the number of billboards, static and dynamic
func (b *Billboards) Len() int {
	return len(b.static) + len(b.dynamic)
}

// Clone copies the container so a ride can move dynamic billboards without
// touching the original. The catalog is shared.
func (b *Billboards) Clone() *Billboards {
	return &Billboards{
		catalog: b.catalog,
		static:  append([]Billboard(nil), b.static...),
		dynamic: append([]Billboard(nil), b.dynamic...),
	}
}

// placement is a billboard ready to draw
type placement struct {
	billboard Billboard
	x, y      int
	scale     float64
}

// RenderAll draws every billboard within the camera's far plane into buf,
// farthest first. rows is the output of the track solver for this frame.
// With a positive loopLength distances wrap, so a looping track shows the
// start of the next lap past its end. Billboards with an unknown sprite are
// skipped and reported in the returned error; the rest are still drawn.
func (b *Billboards) RenderAll(buf *image.RGBA, cam *camera.Camera, rows []track.YData, loopLength float64) error {
	var errs []error
	for _, p := range b.placements(cam, rows, buf.Bounds().Dx(), loopLength) {
		lods, err := b.catalog.Get(p.billboard.Asset)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lods.Render(buf, p.x, p.y, p.scale)
	}
	return errors.Join(errs...)
}

// sortedView merges static and dynamic billboards into one list ordered by
// (wrapped) distance. The list is scratch space reused by the next frame.
func (b *Billboards) sortedView(wrap func(float64) float64) []Billboard {
	b.view = append(b.view[:0], b.static...)
	b.view = append(b.view, b.dynamic...)
	for i := range b.view {
		b.view[i].RoadDistance = wrap(b.view[i].RoadDistance)
	}
	sort.SliceStable(b.view, func(i, j int) bool { return b.view[i].RoadDistance < b.view[j].RoadDistance })
	return b.view
}

// placements walks the sorted view from the farthest visible billboard
// towards the camera while sweeping the rows from the top of the frame
// down, so every billboard in view is placed once, back to front, on the
// first row nearer than it.
func (b *Billboards) placements(cam *camera.Camera, rows []track.YData, width int, loopLength float64) []placement {
	looping := loopLength > 0 && !math.IsInf(loopLength, 1)
	wrap := func(d float64) float64 { return d }
	if looping {
		wrap = func(d float64) float64 { return geom.Mod(d, loopLength) }
	}

	view := b.sortedView(wrap)
	n := len(view)
	if n == 0 {
		return nil
	}

	cameraAt := wrap(cam.RoadDistance)
	relative := func(i int) float64 {
		if looping {
			return geom.Mod(view[i].RoadDistance-cameraAt, loopLength)
		}
		return view[i].RoadDistance - cameraAt
	}

	// Distances relative to the camera fall from the billboard just before
	// the camera's position down to the one right at it; on a loop that walk
	// wraps from index 0 to the end of the list.
	cur := n - 1
	if looping {
		first := sort.Search(n, func(i int) bool { return view[i].RoadDistance >= cameraAt })
		cur = (first - 1 + n) % n
	}
	next := func(i int) int {
		if i == 0 {
			return n - 1
		}
		return i - 1
	}

	// find the farthest visible billboard; remaining counts what the walk
	// may still visit, which ends it even when everything is in view
	remaining := n
	for remaining > 0 && relative(cur) > cam.FarPlane {
		cur = next(cur)
		remaining--
	}
	if !looping {
		remaining = geom.Min(remaining, cur+1)
	}

	var out []placement
	for y, row := range rows {
		if remaining == 0 {
			break
		}
		if row.Distance <= 0 {
			continue
		}

		for remaining > 0 && relative(cur) >= row.Distance {
			scale := cam.PerspectiveScale(row.Distance)
			column := 0.5 + view[cur].Offset*scale + row.NormRoadOffset
			out = append(out, placement{
				billboard: view[cur],
				x:         int(math.Floor(column * float64(width))),
				y:         y,
				scale:     scale,
			})
			cur = next(cur)
			remaining--
		}
	}

	return out
}
