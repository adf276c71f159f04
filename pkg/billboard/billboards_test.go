package billboard

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/geom"
	"github.com/golangdaddy/roadster/pkg/track"
)

// syntheticRows returns one sky row followed by 100 rows whose distances
// fall linearly from the far plane to 1.5
func syntheticRows() []track.YData {
	rows := make([]track.YData, 101)
	for y := 1; y < len(rows); y++ {
		rows[y] = track.YData{Distance: float64(101-y) * 1.5, IsVisible: true}
	}
	return rows
}

func newContainer(t *testing.T) (*Billboards, AssetID) {
	t.Helper()

	lods, err := NewLods([]*image.RGBA{solid(4, 4, red)})
	require.NoError(t, err)
	catalog := NewCatalog()
	return New(catalog), catalog.Add("post", lods)
}

func TestAddStaticKeepsOrder(t *testing.T) {
	b, post := newContainer(t)
	for _, d := range []float64{30, 10, 20, 10} {
		b.AddStatic(Billboard{RoadDistance: d, Asset: post})
	}

	var got []float64
	for _, bb := range b.Static() {
		got = append(got, bb.RoadDistance)
	}
	assert.Equal(t, []float64{10, 10, 20, 30}, got)
	assert.Equal(t, 4, b.Len())
}

func TestDynamic(t *testing.T) {
	b, post := newContainer(t)

	id := b.AddDynamic(Billboard{RoadDistance: 5, Asset: post})
	bb, err := b.Dynamic(id)
	require.NoError(t, err)
	bb.RoadDistance = 42

	again, err := b.Dynamic(id)
	require.NoError(t, err)
	assert.Equal(t, 42.0, again.RoadDistance)

	_, err = b.Dynamic(id + 1)
	assert.ErrorIs(t, err, ErrUnknownBillboard)
}

func TestClone(t *testing.T) {
	b, post := newContainer(t)
	id := b.AddDynamic(Billboard{RoadDistance: 5, Asset: post})

	c := b.Clone()
	bb, err := c.Dynamic(id)
	require.NoError(t, err)
	bb.RoadDistance = 99

	orig, err := b.Dynamic(id)
	require.NoError(t, err)
	assert.Equal(t, 5.0, orig.RoadDistance)
	assert.Same(t, b.Catalog(), c.Catalog())
}

func TestPlacementOnTrackCenter(t *testing.T) {
	b, post := newContainer(t)
	b.AddStatic(Billboard{RoadDistance: 50, Asset: post})

	road, err := track.NewRoad(1, []track.KeyPoint{{Distance: 0}, {Distance: 150}}, track.NewRoadTexture(256, track.DefaultPaint()))
	require.NoError(t, err)
	data, err := track.NewData(150, nil, nil, []*track.Road{road})
	require.NoError(t, err)
	cam := camera.Default()
	rows := track.New(data).ComputeYData(&cam, 360)

	got := b.placements(&cam, rows, 320, 0)
	require.Len(t, got, 1)
	p := got[0]

	assert.Equal(t, 160, p.x)
	assert.LessOrEqual(t, rows[p.y].Distance, 50.0)
	// the row above is the last one still farther than the billboard
	assert.Greater(t, rows[p.y-1].Distance, 50.0)
	assert.InDelta(t, cam.ScreenDist/rows[p.y].Distance, p.scale, 1e-12)
}

func TestPlacementsWrapAroundLoop(t *testing.T) {
	b, post := newContainer(t)
	for _, d := range []float64{10, 100, 180, 199} {
		b.AddStatic(Billboard{RoadDistance: d, Asset: post})
	}
	cam := camera.Default()
	cam.RoadDistance = 395

	got := b.placements(&cam, syntheticRows(), 320, 200)

	// 180 is 185 ahead, past the far plane
	var order []float64
	for _, p := range got {
		order = append(order, p.billboard.RoadDistance)
	}
	assert.Equal(t, []float64{100, 10, 199}, order)
}

func TestPlacementsEachOnceBackToFront(t *testing.T) {
	b, post := newContainer(t)
	for d := 5.0; d < 100; d += 10 {
		b.AddStatic(Billboard{RoadDistance: d, Asset: post})
	}
	cam := camera.Default()
	cam.RoadDistance = 50

	// the loop is shorter than the far plane so everything is in view
	got := b.placements(&cam, syntheticRows(), 320, 100)
	require.Len(t, got, 10)

	seen := map[float64]bool{}
	prevRel, prevY := 1e9, 0
	for _, p := range got {
		d := p.billboard.RoadDistance
		assert.False(t, seen[d], "billboard at %v placed twice", d)
		seen[d] = true

		rel := geom.Mod(d-50, 100)
		assert.Less(t, rel, prevRel)
		assert.GreaterOrEqual(t, p.y, prevY)
		prevRel, prevY = rel, p.y
	}
}

func TestPlacementsWithoutLoop(t *testing.T) {
	b, post := newContainer(t)
	for _, d := range []float64{10, 60, 200} {
		b.AddStatic(Billboard{RoadDistance: d, Asset: post})
	}
	b.AddDynamic(Billboard{RoadDistance: 40, Offset: 0.5, Asset: post})
	cam := camera.Default()
	cam.RoadDistance = 20

	got := b.placements(&cam, syntheticRows(), 320, 0)
	require.Len(t, got, 2)
	assert.Equal(t, 60.0, got[0].billboard.RoadDistance)
	assert.Equal(t, 40.0, got[1].billboard.RoadDistance)
	assert.Greater(t, got[1].x, 160)
}

func TestPlacementsDeterministic(t *testing.T) {
	b, post := newContainer(t)
	for _, d := range []float64{3, 17, 17, 80, 140} {
		b.AddStatic(Billboard{RoadDistance: d, Offset: d / 100, Asset: post})
	}
	cam := camera.Default()
	cam.RoadDistance = 1

	first := b.placements(&cam, syntheticRows(), 320, 0)
	second := b.placements(&cam, syntheticRows(), 320, 0)
	assert.Equal(t, first, second)
}

func TestPlacementsEmpty(t *testing.T) {
	b, post := newContainer(t)
	cam := camera.Default()
	assert.Empty(t, b.placements(&cam, syntheticRows(), 320, 0))

	// nothing in view
	b.AddStatic(Billboard{RoadDistance: 500, Asset: post})
	assert.Empty(t, b.placements(&cam, syntheticRows(), 320, 0))

	// no rows
	b.AddStatic(Billboard{RoadDistance: 50, Asset: post})
	assert.Empty(t, b.placements(&cam, make([]track.YData, 10), 320, 0))
}

func TestRenderAllSkipsUnknownAssets(t *testing.T) {
	b, post := newContainer(t)
	b.AddStatic(Billboard{RoadDistance: 30, Asset: post})
	b.AddStatic(Billboard{RoadDistance: 60, Asset: AssetID(7)})
	cam := camera.Default()

	buf := image.NewRGBA(image.Rect(0, 0, 320, 101))
	err := b.RenderAll(buf, &cam, syntheticRows(), 0)
	assert.ErrorIs(t, err, ErrUnknownAsset)

	painted := 0
	for y := 0; y < 101; y++ {
		for x := 0; x < 320; x++ {
			if buf.RGBAAt(x, y) == red {
				painted++
			}
		}
	}
	assert.Equal(t, 16, painted)
	assert.Equal(t, color.RGBA{}, buf.RGBAAt(0, 0))
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog()
	small, err := NewLods([]*image.RGBA{solid(2, 2, red)})
	require.NoError(t, err)
	large, err := NewLods([]*image.RGBA{solid(8, 8, red)})
	require.NoError(t, err)

	id := catalog.Add("tree", small)
	assert.Equal(t, id, catalog.Add("tree", large))
	assert.Equal(t, 1, catalog.Len())

	got, err := catalog.Get(id)
	require.NoError(t, err)
	assert.Same(t, large, got)

	found, ok := catalog.Lookup("tree")
	assert.True(t, ok)
	assert.Equal(t, id, found)

	_, ok = catalog.Lookup("rock")
	assert.False(t, ok)

	_, err = catalog.Get(-1)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = catalog.Get(1)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}
