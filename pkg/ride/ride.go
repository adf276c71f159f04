package ride

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/golangdaddy/roadster/pkg/billboard"
	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/car"
	"github.com/golangdaddy/roadster/pkg/geom"
	"github.com/golangdaddy/roadster/pkg/horizon"
	"github.com/golangdaddy/roadster/pkg/logging"
	"github.com/golangdaddy/roadster/pkg/track"
	"github.com/golangdaddy/roadster/pkg/traffic"
)

// ErrIncompletePath is returned by Start for a PathMeta missing its track
var ErrIncompletePath = errors.New("path meta has no track")

// PathMeta is everything a ride needs about the path it drives, fully
// built before the ride starts
type PathMeta struct {
	Length     float64
	Loop       bool
	Track      *track.Data
	Billboards *billboard.Billboards
	Traffic    *traffic.Traffic
	Horizon    *image.RGBA // Optional backdrop strip
}

// Settings are the ride knobs that do not depend on the path
type Settings struct {
	Camera        camera.Camera
	Car           car.Tuning
	CarColor      color.RGBA
	Sky           color.RGBA
	HorizonScroll float64 // Horizon strip widths scrolled per unit of curvature and distance
}

// DefaultSettings returns the settings of a stock ride
func DefaultSettings() Settings {
	return Settings{
		Camera:        camera.Default(),
		Car:           car.DefaultTuning(),
		CarColor:      color.RGBA{200, 20, 20, 255},
		Sky:           color.RGBA{90, 160, 230, 255},
		HorizonScroll: 0.5,
	}
}

// Event is something that happened during a ride update
type Event int

const (
	// EventFinished is sent once when the car reaches the end of a path
	// that does not loop
	EventFinished Event = iota
	// EventCollision is sent when the car runs into a traffic car
	EventCollision
)

func (e Event) String() string {
	switch e {
	case EventFinished:
		return "finished"
	case EventCollision:
		return "collision"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Ride drives the player car along one path and renders it
type Ride struct {
	settings Settings

	id         uuid.UUID
	active     bool
	meta       PathMeta
	cam        camera.Camera
	car        *car.Car
	track      *track.Track
	billboards *billboard.Billboards
	traffic    *traffic.Traffic
	horizon    *horizon.Horizon
	horzOffset float64
	reported   bool
}

// New creates an idle ride
func New(settings Settings) (*Ride, error) {
	if err := settings.Camera.Validate(); err != nil {
		return nil, err
	}
	return &Ride{
		settings: settings,
		cam:      settings.Camera,
		car:      car.New(settings.Car, settings.CarColor),
	}, nil
}

// Start begins a ride on a path. The path's billboards and traffic are
// copied so the same PathMeta can start any number of rides.
func (r *Ride) Start(meta PathMeta) error {
	if meta.Track == nil {
		return ErrIncompletePath
	}

	r.meta = meta
	r.track = track.New(meta.Track)
	r.track.LoopLength = r.loopLength()
	if meta.Billboards != nil {
		r.billboards = meta.Billboards.Clone()
	} else {
		r.billboards = billboard.New(billboard.NewCatalog())
	}
	r.traffic = nil
	if meta.Traffic != nil {
		r.traffic = meta.Traffic.Clone()
	}
	r.horizon = nil
	if meta.Horizon != nil {
		r.horizon = horizon.New(meta.Horizon)
	}

	r.cam = r.settings.Camera
	r.car.Reset()
	r.horzOffset = 0
	r.reported = false
	r.id = uuid.New()
	r.active = true

	logging.Info("ride started", "id", r.id, "length", meta.Length, "loop", meta.Loop, "billboards", r.billboards.Len())
	return nil
}

// ID returns the session id of the current or last ride
func (r *Ride) ID() uuid.UUID {
	return r.id
}

// Active reports whether a ride is in progress
func (r *Ride) Active() bool {
	return r.active
}

// Stop ends the current ride without finishing it
func (r *Ride) Stop() {
	if !r.active {
		return
	}
	r.active = false
	logging.Info("ride stopped", "id", r.id, "distance", r.cam.RoadDistance)
}

// Camera returns the camera state
func (r *Ride) Camera() camera.Camera {
	return r.cam
}

// Progress tells how far the car is along the path. On a loop lap counts
// from 1 and fraction is the share of the current lap; on a path that ends
// lap is 0 and fraction is the share of the whole path.
func (r *Ride) Progress() (lap int, fraction float64) {
	length := r.meta.Length
	if length <= 0 {
		return 0, 0
	}
	distance := math.Max(r.cam.RoadDistance, 0)
	if r.meta.Loop {
		return int(distance/length) + 1, geom.Mod(distance, length) / length
	}
	return 0, math.Min(distance/length, 1)
}

// Car returns the player car
func (r *Ride) Car() *car.Car {
	return r.car
}

// loopLength is the length distances wrap at, 0 when the path does not loop
func (r *Ride) loopLength() float64 {
	if r.meta.Loop {
		return r.meta.Length
	}
	return 0
}

// trackCamera is the camera as the track sees it: on a loop the distance
// is folded into the first lap
func (r *Ride) trackCamera() camera.Camera {
	cam := r.cam
	if l := r.loopLength(); l > 0 {
		cam.RoadDistance = geom.Mod(cam.RoadDistance, l)
	}
	return cam
}

// Update advances the ride by dt seconds
func (r *Ride) Update(dt float64, controls car.Controls) []Event {
	if !r.active {
		return nil
	}

	var events []Event
	trackCam := r.trackCamera()
	under := trackCam.RoadDistance + trackCam.ScreenDist
	if l := r.loopLength(); l > 0 {
		under = geom.Mod(under, l)
	}
	left, right := r.car.Bounds()
	r.car.SetRoadside(0, false)
	if road, ok := r.meta.Track.NearestRoad(under, r.car.XPos); ok {
		r.car.SetRoadside(road.RoadsideDist(left, right, under))
	}
	r.car.Update(dt, controls)

	from := geom.Vec2{X: r.cam.XOffset, Y: r.cam.RoadDistance + r.cam.ScreenDist}
	travelled := r.car.Speed * dt
	r.horzOffset += r.track.HorzSpeed(&trackCam) * travelled * r.settings.HorizonScroll
	r.cam.RoadDistance += travelled
	r.cam.XOffset = r.car.XPos

	if r.traffic != nil {
		r.traffic.Update(&r.cam, dt, r.billboards, r.loopLength())

		sweep := geom.LineSegment{Start: from, End: geom.Vec2{X: r.car.XPos, Y: r.cam.RoadDistance + r.cam.ScreenDist}}
		if hit, ok := r.traffic.Hit(sweep, r.loopLength()); ok {
			r.car.Bump(hit.Speed)
			events = append(events, EventCollision)
			logging.Debug("car hit traffic", "id", r.id, "car", hit.BillboardID, "distance", r.cam.RoadDistance)
		}
	}

	if !r.meta.Loop && r.cam.RoadDistance >= r.meta.Length {
		r.active = false
		logging.Info("ride finished", "id", r.id, "distance", r.cam.RoadDistance)
		events = append(events, EventFinished)
	}
	return events
}

// Render draws the current frame into buf: sky, horizon, ground and roads,
// billboards, then the player car
func (r *Ride) Render(buf *image.RGBA) {
	if !r.active {
		return
	}

	draw.Draw(buf, buf.Bounds(), &image.Uniform{r.settings.Sky}, image.Point{}, draw.Src)

	trackCam := r.trackCamera()
	rows := r.track.ComputeYData(&trackCam, buf.Bounds().Dy())

	if r.horizon != nil {
		// the strip stands on the farthest ground row
		base := len(rows) - 1
		if h := r.track.HorizonRow(); h >= 0 {
			base = h - 1
		}
		r.horizon.Render(buf, base, r.horzOffset)
	}

	r.track.Render(buf, &trackCam)

	if err := r.billboards.RenderAll(buf, &r.cam, rows, r.loopLength()); err != nil && !r.reported {
		r.reported = true
		logging.Warn("billboards skipped", "id", r.id, "err", err)
	}

	r.car.Render(buf)
}
