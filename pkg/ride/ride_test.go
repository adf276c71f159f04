package ride

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangdaddy/roadster/pkg/billboard"
	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/car"
	"github.com/golangdaddy/roadster/pkg/track"
	"github.com/golangdaddy/roadster/pkg/traffic"
)

func straightPath(t *testing.T, length float64, loop bool) PathMeta {
	t.Helper()

	road, err := track.NewRoad(1, []track.KeyPoint{{Distance: 0}, {Distance: length}}, track.NewRoadTexture(256, track.DefaultPaint()))
	require.NoError(t, err)
	data, err := track.NewData(length, nil, nil, []*track.Road{road})
	require.NoError(t, err)

	lods, err := billboard.NewLods([]*image.RGBA{image.NewRGBA(image.Rect(0, 0, 4, 4))})
	require.NoError(t, err)
	catalog := billboard.NewCatalog()
	post := catalog.Add("post", lods)

	bbs := billboard.New(catalog)
	bbs.AddStatic(billboard.Billboard{RoadDistance: 40, Offset: 1, Asset: post})
	tr := traffic.New(data, 50)
	tr.AddCar(bbs, billboard.Billboard{RoadDistance: 30, Asset: post}, 0.3, 5, 1)

	return PathMeta{Length: length, Loop: loop, Track: data, Billboards: bbs, Traffic: tr}
}

func TestNewValidatesCamera(t *testing.T) {
	settings := DefaultSettings()
	settings.Camera.FarPlane = 0
	_, err := New(settings)
	assert.ErrorIs(t, err, camera.ErrInvalidCamera)
}

func TestStartRequiresTrack(t *testing.T) {
	r, err := New(DefaultSettings())
	require.NoError(t, err)
	assert.ErrorIs(t, r.Start(PathMeta{Length: 10}), ErrIncompletePath)
	assert.False(t, r.Active())
	assert.Nil(t, r.Update(1, car.Controls{Gas: true}))
}

func TestRideFinishes(t *testing.T) {
	r, err := New(DefaultSettings())
	require.NoError(t, err)
	require.NoError(t, r.Start(straightPath(t, 100, false)))

	var events []Event
	for i := 0; i < 1000 && r.Active(); i++ {
		events = append(events, r.Update(0.1, car.Controls{Gas: true})...)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, EventFinished, events[len(events)-1])
	assert.NotContains(t, events[:len(events)-1], EventFinished)
	assert.False(t, r.Active())
	assert.GreaterOrEqual(t, r.Camera().RoadDistance, 100.0)
	assert.Nil(t, r.Update(0.1, car.Controls{Gas: true}))
}

func TestLoopNeverFinishes(t *testing.T) {
	r, err := New(DefaultSettings())
	require.NoError(t, err)
	require.NoError(t, r.Start(straightPath(t, 100, true)))

	for i := 0; i < 1000; i++ {
		require.NotContains(t, r.Update(0.1, car.Controls{Gas: true}), EventFinished)
	}
	assert.Greater(t, r.Camera().RoadDistance, 200.0)

	buf := image.NewRGBA(image.Rect(0, 0, 320, 240))
	assert.NotPanics(t, func() { r.Render(buf) })
}

func TestStartCopiesPath(t *testing.T) {
	meta := straightPath(t, 100, false)
	r, err := New(DefaultSettings())
	require.NoError(t, err)

	require.NoError(t, r.Start(meta))
	first := r.ID()
	for i := 0; i < 50; i++ {
		r.Update(0.1, car.Controls{Gas: true})
	}

	// the traffic car moved in the ride, not in the path
	assert.True(t, meta.Traffic.Cars()[0].Sleeping)
	bb, err := meta.Billboards.Dynamic(meta.Traffic.Cars()[0].BillboardID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, bb.RoadDistance)

	require.NoError(t, r.Start(meta))
	assert.NotEqual(t, first, r.ID())
	assert.Zero(t, r.Camera().RoadDistance)
	assert.Zero(t, r.Car().Speed)
}

func TestSteeringMovesCamera(t *testing.T) {
	r, err := New(DefaultSettings())
	require.NoError(t, err)
	require.NoError(t, r.Start(straightPath(t, 1000, false)))

	for i := 0; i < 20; i++ {
		r.Update(0.1, car.Controls{Gas: true, Steer: 1})
	}
	assert.Greater(t, r.Car().XPos, 0.0)
	assert.Equal(t, r.Car().XPos, r.Camera().XOffset)
}

func TestRender(t *testing.T) {
	settings := DefaultSettings()
	r, err := New(settings)
	require.NoError(t, err)

	buf := image.NewRGBA(image.Rect(0, 0, 320, 240))
	r.Render(buf)
	assert.Equal(t, color.RGBA{}, buf.RGBAAt(0, 0), "idle rides draw nothing")

	meta := straightPath(t, 150, false)
	meta.Horizon = image.NewRGBA(image.Rect(0, 0, 64, 8))
	for x := 0; x < 64; x++ {
		meta.Horizon.SetRGBA(x, 7, color.RGBA{1, 2, 3, 255})
	}
	require.NoError(t, r.Start(meta))
	r.Render(buf)

	assert.Equal(t, settings.Sky, buf.RGBAAt(0, 0))

	// the horizon strip sits right above the first ground row
	first := -1
	for y := 0; y < 240; y++ {
		if buf.RGBAAt(0, y) != settings.Sky {
			first = y
			break
		}
	}
	require.Positive(t, first)
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, buf.RGBAAt(0, first))
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, buf.RGBAAt(319, first))
	assert.NotEqual(t, color.RGBA{1, 2, 3, 255}, buf.RGBAAt(0, first+1))

	// the car covers the bottom center
	assert.Equal(t, settings.CarColor, buf.RGBAAt(160, 240-car.SpriteHeight+16))
}

func TestStop(t *testing.T) {
	r, err := New(DefaultSettings())
	require.NoError(t, err)
	require.NoError(t, r.Start(straightPath(t, 100, false)))

	r.Stop()
	assert.False(t, r.Active())
	assert.Nil(t, r.Update(0.1, car.Controls{Gas: true}))
	assert.NotPanics(t, r.Stop)
}

func TestLoopShowsRoadPastTheSeam(t *testing.T) {
	r, err := New(DefaultSettings())
	require.NoError(t, err)
	require.NoError(t, r.Start(straightPath(t, 200, true)))

	for r.Camera().RoadDistance < 190 {
		r.Update(0.1, car.Controls{Gas: true})
	}
	buf := image.NewRGBA(image.Rect(0, 0, 320, 240))
	r.Render(buf)

	ground := 0
	for y, row := range r.track.YData() {
		if row.Distance == 0 {
			continue
		}
		ground++
		require.True(t, row.IsVisible, "row %d at %v", y, row.Distance)
		_, _, ok := r.meta.Track.Roads()[0].Borders(row, &r.cam)
		assert.True(t, ok, "row %d has no road", y)
	}
	assert.Greater(t, ground, 0)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		loop     bool
		distance float64
		lap      int
		fraction float64
	}{
		{"first lap", true, 50, 1, 0.25},
		{"second lap", true, 250, 2, 0.25},
		{"path that ends", false, 50, 0, 0.25},
		{"past the end", false, 210, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(DefaultSettings())
			require.NoError(t, err)
			require.NoError(t, r.Start(straightPath(t, 200, tt.loop)))
			r.cam.RoadDistance = tt.distance

			lap, fraction := r.Progress()
			assert.Equal(t, tt.lap, lap)
			assert.InDelta(t, tt.fraction, fraction, 1e-12)
		})
	}
}

func TestCollisionSlowsCar(t *testing.T) {
	r, err := New(DefaultSettings())
	require.NoError(t, err)
	require.NoError(t, r.Start(straightPath(t, 1000, false)))

	// the traffic car starts at 30 on the centerline, driving at 5
	var hit bool
	for i := 0; i < 200 && !hit; i++ {
		for _, ev := range r.Update(0.1, car.Controls{Gas: true}) {
			hit = hit || ev == EventCollision
		}
	}
	require.True(t, hit)
	assert.Equal(t, 5.0, r.Car().Speed)
	assert.Equal(t, "collision", EventCollision.String())
}

func TestCollisionAvoidedBySteering(t *testing.T) {
	r, err := New(DefaultSettings())
	require.NoError(t, err)
	meta := straightPath(t, 1000, false)
	require.NoError(t, r.Start(meta))

	// drive in the right half of the road, clear of the car on the centerline
	r.Car().XPos = 0.35
	r.cam.XOffset = 0.35
	for i := 0; i < 200; i++ {
		require.NotContains(t, r.Update(0.1, car.Controls{Gas: true}), EventCollision)
	}
	assert.Greater(t, r.Camera().RoadDistance, 100.0)
}
