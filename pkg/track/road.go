package track

import (
	"fmt"
	"image"
	"sort"

	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/geom"
)

// KeyPoint pins the road centerline to a lateral offset at a distance
type KeyPoint struct {
	Distance float64 `toml:"distance"`
	Offset   float64 `toml:"offset"`
}

// Road is one lane or surface of the track. Its centerline follows the
// keypoints and it only exists between the first and the last of them.
type Road struct {
	start     float64
	end       float64
	width     float64
	keypoints []KeyPoint
	texture   *image.RGBA
}

// NewRoad builds a road. The texture is shared, never copied, and must
// follow the layout produced by NewRoadTexture.
func NewRoad(width float64, keypoints []KeyPoint, texture *image.RGBA) (*Road, error) {
	if !(width > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWidth, width)
	}
	if len(keypoints) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewKeypoints, len(keypoints))
	}
	if texture == nil {
		return nil, ErrNoTexture
	}

	sorted := append([]KeyPoint(nil), keypoints...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Distance < sorted[j].Distance })
	if !(sorted[0].Distance < sorted[len(sorted)-1].Distance) {
		return nil, fmt.Errorf("road keypoints [%v, %v]: %w", sorted[0].Distance, sorted[len(sorted)-1].Distance, ErrInvalidRange)
	}

	return &Road{
		start:     sorted[0].Distance,
		end:       sorted[len(sorted)-1].Distance,
		width:     width,
		keypoints: sorted,
		texture:   texture,
	}, nil
}

// Width returns the road width in world units
func (r *Road) Width() float64 {
	return r.width
}

// Range returns the distances covered by the road
func (r *Road) Range() (start, end float64) {
	return r.start, r.end
}

// Offset returns the centerline offset at a distance. It is false outside
// the road.
func (r *Road) Offset(distance float64) (float64, bool) {
	if distance < r.start || distance > r.end {
		return 0, false
	}

	for i := 1; i < len(r.keypoints); i++ {
		next := r.keypoints[i]
		if next.Distance < distance {
			continue
		}
		prev := r.keypoints[i-1]
		span := next.Distance - prev.Distance
		if span <= 0 {
			return next.Offset, true
		}
		t := (distance - prev.Distance) / span
		return geom.Smoothstep(prev.Offset, next.Offset, t), true
	}

	return r.keypoints[len(r.keypoints)-1].Offset, true
}

// RoadsideDist tells how far an object spanning [left, right] sticks out of
// the road at a distance: negative past the left edge, positive past the
// right edge. It is false while the object is fully on the road or the
// distance is off the road.
func (r *Road) RoadsideDist(left, right, distance float64) (float64, bool) {
	offset, ok := r.Offset(distance)
	if !ok {
		return 0, false
	}

	roadLeft := offset - r.width*0.5
	if roadLeft > left {
		return left - roadLeft, true
	}
	roadRight := offset + r.width*0.5
	if roadRight < right {
		return right - roadRight, true
	}
	return 0, false
}

// Borders returns the normalized screen borders of the road on a row, 0
// being the left edge of the frame and 1 the right one. It is false when
// the road does not cover the row.
func (r *Road) Borders(row YData, cam *camera.Camera) (left, right float64, ok bool) {
	if !row.IsVisible {
		return 0, 0, false
	}
	offset, ok := r.Offset(row.WorldDistance)
	if !ok {
		return 0, 0, false
	}
	offset *= cam.PerspectiveScale(row.Distance)

	width := r.width * row.RoadScale
	left = 0.5 - width*0.5 + row.NormRoadOffset + offset
	return left, left + width, true
}
