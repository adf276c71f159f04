package track

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golangdaddy/roadster/pkg/geom"
)

var (
	ErrInvalidLength   = errors.New("track length must be positive")
	ErrInvalidRange    = errors.New("segment start must be before its end")
	ErrOverlappingHeel = errors.New("heel segments overlap")
	ErrTooFewKeypoints = errors.New("road needs at least two keypoints")
	ErrInvalidWidth    = errors.New("road width must be positive")
	ErrNoTexture       = errors.New("road has no texture")
)

// pitchPerHeel converts a heel steepness into a camera pitch correction
const pitchPerHeel = 50.0

// Curvature bends the road sideways over [Start, End)
type Curvature struct {
	Start    float64 `toml:"start"`
	End      float64 `toml:"end"`
	Strength float64 `toml:"strength"`
}

func (c Curvature) contains(d float64) bool {
	return d >= c.Start && d < c.End
}

// Heel is an elevation segment; its steepness is interpolated from
// StartSteepness to EndSteepness across [Start, End]
type Heel struct {
	Start          float64 `toml:"start"`
	End            float64 `toml:"end"`
	StartSteepness float64 `toml:"start_steepness"`
	EndSteepness   float64 `toml:"end_steepness"`
}

func (h Heel) steepness(d float64) (float64, bool) {
	if d < h.Start || d > h.End {
		return 0, false
	}
	t := (d - h.Start) / (h.End - h.Start)
	return geom.Lerp(h.StartSteepness, h.EndSteepness, t), true
}

// Offset is the lateral offset lookup result. When Curved is false the
// road continues with whatever per-row offset delta it last had; Value and
// Segment are only meaningful when Curved is true.
type Offset struct {
	Curved  bool
	Value   float64
	Segment int
}

// Continued is the result for distances outside every curvature segment
var Continued = Offset{}

// Curving builds the result for a distance inside curvature segment i
func Curving(value float64, i int) Offset {
	return Offset{Curved: true, Value: value, Segment: i}
}

// Data is the immutable description of one track: curvature and elevation
// profiles plus the roads laid on it
type Data struct {
	length     float64
	curvatures []Curvature
	heels      []Heel
	roads      []*Road
}

// NewData validates and builds track data. Heels are sorted by start and
// must not overlap.
func NewData(length float64, curvatures []Curvature, heels []Heel, roads []*Road) (*Data, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}
	for i, c := range curvatures {
		if !(c.Start < c.End) {
			return nil, fmt.Errorf("curvature %d [%v, %v]: %w", i, c.Start, c.End, ErrInvalidRange)
		}
	}

	sortedHeels := append([]Heel(nil), heels...)
	sort.SliceStable(sortedHeels, func(i, j int) bool { return sortedHeels[i].Start < sortedHeels[j].Start })
	for i, h := range sortedHeels {
		if !(h.Start < h.End) {
			return nil, fmt.Errorf("heel %d [%v, %v]: %w", i, h.Start, h.End, ErrInvalidRange)
		}
		if i > 0 && h.Start < sortedHeels[i-1].End {
			return nil, fmt.Errorf("heel %d starts at %v before %v: %w", i, h.Start, sortedHeels[i-1].End, ErrOverlappingHeel)
		}
	}

	return &Data{
		length:     length,
		curvatures: append([]Curvature(nil), curvatures...),
		heels:      sortedHeels,
		roads:      append([]*Road(nil), roads...),
	}, nil
}

// Length returns the track length
func (d *Data) Length() float64 {
	return d.length
}

// Roads returns the roads of the track
func (d *Data) Roads() []*Road {
	return d.roads
}

// SegmentOffset returns the lateral offset the curvature law gives at
// worldDistance. The law is quadratic from max(segment start, cameraDistance)
// so a curve that began behind the camera ramps in from where the camera is.
func (d *Data) SegmentOffset(cameraDistance, worldDistance float64) Offset {
	for i, c := range d.curvatures {
		if !c.contains(worldDistance) {
			continue
		}
		dist := worldDistance - geom.Max(c.Start, cameraDistance)
		return Curving(dist*dist*c.Strength, i)
	}
	return Continued
}

// HillMultiplierDelta returns the heel steepness at a distance, zero
// outside every heel
func (d *Data) HillMultiplierDelta(distance float64) float64 {
	for _, h := range d.heels {
		if s, ok := h.steepness(distance); ok {
			return s
		}
	}
	return 0
}

// CameraPitchDelta is the pitch correction that moves the horizon with the
// slope under the camera
func (d *Data) CameraPitchDelta(cameraDistance float64) float64 {
	return d.HillMultiplierDelta(cameraDistance) * pitchPerHeel
}

// IsVisible reports whether a distance is still on the track
func (d *Data) IsVisible(distance float64) bool {
	return d.length >= distance
}

// NearestRoad returns the road whose centerline at distance is closest to
// the lateral position x. Roads that do not cover distance are ignored.
func (d *Data) NearestRoad(distance, x float64) (*Road, bool) {
	var (
		nearest *Road
		best    = math.Inf(1)
	)
	for _, r := range d.roads {
		offset, ok := r.Offset(distance)
		if !ok {
			continue
		}
		if dist := math.Abs(offset - x); dist < best {
			best = dist
			nearest = r
		}
	}
	return nearest, nearest != nil
}
