package traffic

import (
	"github.com/golangdaddy/roadster/pkg/billboard"
	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/geom"
	"github.com/golangdaddy/roadster/pkg/logging"
	"github.com/golangdaddy/roadster/pkg/track"
)

// TrafficCar is one NPC car driving a dynamic billboard
type TrafficCar struct {
	BillboardID  billboard.ID
	Speed        float64 // Signed; negative for oncoming cars
	SteerSpeed   float64 // Lateral correction per second when leaving the road
	Width        float64
	RoadDistance float64
	XPos         float64
	Sleeping     bool
}

// Traffic moves the NPC cars of one ride
type Traffic struct {
	track *track.Data
	lead  float64
	cars  []TrafficCar
}

// New creates traffic for a track. Oncoming cars wake lead units before
// they enter the camera's view so they are already moving when they appear.
func New(data *track.Data, lead float64) *Traffic {
	return &Traffic{track: data, lead: lead}
}

// AddCar registers bb as a dynamic billboard and drives it as a car. The
// car sleeps where it was placed until the camera gets close.
func (t *Traffic) AddCar(billboards *billboard.Billboards, bb billboard.Billboard, width, speed, steerSpeed float64) billboard.ID {
	id := billboards.AddDynamic(bb)
	t.cars = append(t.cars, TrafficCar{
		BillboardID:  id,
		Speed:        speed,
		SteerSpeed:   steerSpeed,
		Width:        width,
		RoadDistance: bb.RoadDistance,
		XPos:         bb.Offset,
		Sleeping:     true,
	})
	return id
}

// Cars returns the cars in the order they were added
func (t *Traffic) Cars() []TrafficCar {
	return t.cars
}

// Clone copies the traffic so a ride can run it from its initial state.
// The clone drives billboards of a container cloned alongside it.
func (t *Traffic) Clone() *Traffic {
	return &Traffic{
		track: t.track,
		lead:  t.lead,
		cars:  append([]TrafficCar(nil), t.cars...),
	}
}

// Update wakes the cars the camera is reaching, moves the awake ones and
// writes their positions to their billboards. On a track that loops,
// loopLength is its length and cars keep driving lap after lap; pass 0
// otherwise.
func (t *Traffic) Update(cam *camera.Camera, dt float64, billboards *billboard.Billboards, loopLength float64) {
	viewEnd := cam.RoadDistance + cam.FarPlane

	for i := range t.cars {
		car := &t.cars[i]

		if car.Sleeping {
			wakeAt := viewEnd
			if car.Speed < 0 {
				wakeAt += t.lead
			}
			if car.RoadDistance <= wakeAt {
				car.Sleeping = false
			}
			continue
		}

		onTrack := car.RoadDistance
		if loopLength > 0 {
			onTrack = geom.Mod(onTrack, loopLength)
		}
		if road, ok := t.track.NearestRoad(onTrack, car.XPos); ok {
			half := car.Width * 0.5
			if dist, out := road.RoadsideDist(car.XPos-half, car.XPos+half, onTrack); out {
				if dist > 0 {
					car.XPos -= car.SteerSpeed * dt
				} else {
					car.XPos += car.SteerSpeed * dt
				}
			}
		}

		car.RoadDistance += car.Speed * dt

		bb, err := billboards.Dynamic(car.BillboardID)
		if err != nil {
			logging.Warn("traffic car lost its billboard", "car", i, "err", err)
			continue
		}
		bb.RoadDistance = car.RoadDistance
		bb.Offset = car.XPos
	}
}

// hitboxScale narrows a car's rear edge so grazing passes do not count
const hitboxScale = 0.9

// Hit returns the first awake car whose rear edge the sweep crosses. Sweep
// points are (lateral position, road distance), the distances counted the
// same way as the cars'. On a loop the car is matched on the lap ahead of
// the sweep start.
func (t *Traffic) Hit(sweep geom.LineSegment, loopLength float64) (TrafficCar, bool) {
	if sweep.SqrLength() == 0 {
		return TrafficCar{}, false
	}

	for _, car := range t.cars {
		if car.Sleeping {
			continue
		}
		d := car.RoadDistance
		if loopLength > 0 {
			d = sweep.Start.Y + geom.Mod(d-sweep.Start.Y, loopLength)
		}

		half := car.Width * 0.5
		rear := geom.LineSegment{
			Start: geom.Vec2{X: car.XPos - half, Y: d},
			End:   geom.Vec2{X: car.XPos + half, Y: d},
		}
		rear.Scale(hitboxScale)
		if geom.SegmentsIntersect(sweep, rear) {
			return car, true
		}
	}
	return TrafficCar{}, false
}
