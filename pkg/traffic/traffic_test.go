package traffic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangdaddy/roadster/pkg/billboard"
	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/geom"
	"github.com/golangdaddy/roadster/pkg/track"
)

func newTraffic(t *testing.T) (*Traffic, *billboard.Billboards) {
	t.Helper()

	road, err := track.NewRoad(1, []track.KeyPoint{{Distance: 0}, {Distance: 1000}}, track.NewRoadTexture(16, track.DefaultPaint()))
	require.NoError(t, err)
	data, err := track.NewData(1000, nil, nil, []*track.Road{road})
	require.NoError(t, err)
	return New(data, 100), billboard.New(billboard.NewCatalog())
}

func TestWake(t *testing.T) {
	tr, bbs := newTraffic(t)
	tr.AddCar(bbs, billboard.Billboard{RoadDistance: 200}, 0.3, 10, 1)
	tr.AddCar(bbs, billboard.Billboard{RoadDistance: 250}, 0.3, -10, 1)
	tr.AddCar(bbs, billboard.Billboard{RoadDistance: 251}, 0.3, -10, 1)

	cam := camera.Default()
	tr.Update(&cam, 0.1, bbs, 0)

	cars := tr.Cars()
	assert.True(t, cars[0].Sleeping, "forward car beyond the far plane")
	assert.False(t, cars[1].Sleeping, "oncoming car within the lead")
	assert.True(t, cars[2].Sleeping)

	// sleeping cars stay put
	assert.Equal(t, 200.0, cars[0].RoadDistance)

	cam.RoadDistance = 60
	tr.Update(&cam, 0.1, bbs, 0)
	assert.False(t, tr.Cars()[0].Sleeping)
}

func TestUpdateMovesAndWritesBack(t *testing.T) {
	tr, bbs := newTraffic(t)
	id := tr.AddCar(bbs, billboard.Billboard{RoadDistance: 20, Offset: 0.1}, 0.3, 10, 1)

	cam := camera.Default()
	tr.Update(&cam, 0.5, bbs, 0) // wakes
	tr.Update(&cam, 0.5, bbs, 0)

	car := tr.Cars()[0]
	assert.InDelta(t, 25, car.RoadDistance, 1e-12)
	// fully on the road: no steering
	assert.InDelta(t, 0.1, car.XPos, 1e-12)

	bb, err := bbs.Dynamic(id)
	require.NoError(t, err)
	assert.InDelta(t, 25, bb.RoadDistance, 1e-12)
	assert.InDelta(t, 0.1, bb.Offset, 1e-12)
}

func TestUpdateSteersBackOnRoad(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		want  float64
	}{
		{"past right edge", 0.5, 0.4},
		{"past left edge", -0.5, -0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, bbs := newTraffic(t)
			tr.AddCar(bbs, billboard.Billboard{RoadDistance: 20, Offset: tt.start}, 0.4, 0, 0.2)

			cam := camera.Default()
			tr.Update(&cam, 0.5, bbs, 0)
			tr.Update(&cam, 0.5, bbs, 0)

			assert.InDelta(t, tt.want, tr.Cars()[0].XPos, 1e-12)
		})
	}
}

func TestUpdateSteersOnLaterLaps(t *testing.T) {
	tests := []struct {
		name       string
		loopLength float64
		want       float64
	}{
		{"track ends", 0, 0.5},
		{"track loops", 1000, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, bbs := newTraffic(t)
			tr.AddCar(bbs, billboard.Billboard{RoadDistance: 2020, Offset: 0.5}, 0.4, 0, 0.2)

			cam := camera.Default()
			cam.RoadDistance = 2000
			tr.Update(&cam, 0.5, bbs, tt.loopLength)
			tr.Update(&cam, 0.5, bbs, tt.loopLength)

			assert.InDelta(t, tt.want, tr.Cars()[0].XPos, 1e-12)
		})
	}
}

func TestUpdateSurvivesMissingBillboard(t *testing.T) {
	tr, bbs := newTraffic(t)
	tr.AddCar(bbs, billboard.Billboard{RoadDistance: 20}, 0.3, 10, 1)

	other := billboard.New(bbs.Catalog())
	cam := camera.Default()
	require.NotPanics(t, func() {
		tr.Update(&cam, 1, other, 0)
		tr.Update(&cam, 1, other, 0)
	})
	assert.InDelta(t, 30, tr.Cars()[0].RoadDistance, 1e-12)
}

func TestClone(t *testing.T) {
	tr, bbs := newTraffic(t)
	tr.AddCar(bbs, billboard.Billboard{RoadDistance: 20}, 0.3, 10, 1)

	clone := tr.Clone()
	cam := camera.Default()
	clone.Update(&cam, 1, bbs.Clone(), 0)
	clone.Update(&cam, 1, bbs.Clone(), 0)

	assert.True(t, tr.Cars()[0].Sleeping)
	assert.Equal(t, 20.0, tr.Cars()[0].RoadDistance)
	assert.False(t, clone.Cars()[0].Sleeping)
}

func TestHit(t *testing.T) {
	tr, bbs := newTraffic(t)
	tr.AddCar(bbs, billboard.Billboard{RoadDistance: 50, Offset: 0.2}, 0.4, 5, 1)
	tr.AddCar(bbs, billboard.Billboard{RoadDistance: 900}, 0.4, 5, 1)

	straight := geom.LineSegment{Start: geom.Vec2{X: 0.2, Y: 48}, End: geom.Vec2{X: 0.2, Y: 52}}

	// asleep cars cannot be hit
	_, ok := tr.Hit(straight, 0)
	assert.False(t, ok)

	cam := camera.Default()
	tr.Update(&cam, 0.1, bbs, 0)
	require.False(t, tr.Cars()[0].Sleeping)

	car, ok := tr.Hit(straight, 0)
	require.True(t, ok)
	assert.Equal(t, 50.0, car.RoadDistance)

	tests := []struct {
		name  string
		sweep geom.LineSegment
		loop  float64
		want  bool
	}{
		{"steering across the rear", geom.LineSegment{Start: geom.Vec2{X: 0, Y: 49}, End: geom.Vec2{X: 0.3, Y: 51}}, 0, true},
		{"short of the car", geom.LineSegment{Start: geom.Vec2{X: 0.2, Y: 40}, End: geom.Vec2{X: 0.2, Y: 45}}, 0, false},
		{"passing beside it", geom.LineSegment{Start: geom.Vec2{X: -0.3, Y: 48}, End: geom.Vec2{X: -0.3, Y: 52}}, 0, false},
		{"grazing the corner", geom.LineSegment{Start: geom.Vec2{X: 0.395, Y: 48}, End: geom.Vec2{X: 0.395, Y: 52}}, 0, false},
		{"standing still", geom.LineSegment{Start: geom.Vec2{X: 0.2, Y: 50}, End: geom.Vec2{X: 0.2, Y: 50}}, 0, false},
		{"a lap later", geom.LineSegment{Start: geom.Vec2{X: 0.2, Y: 1048}, End: geom.Vec2{X: 0.2, Y: 1052}}, 1000, true},
		{"a lap later on a track that ends", geom.LineSegment{Start: geom.Vec2{X: 0.2, Y: 1048}, End: geom.Vec2{X: 0.2, Y: 1052}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tr.Hit(tt.sweep, tt.loop)
			assert.Equal(t, tt.want, ok)
		})
	}
}
