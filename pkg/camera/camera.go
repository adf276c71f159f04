package camera

import (
	"errors"
	"fmt"
)

// ErrInvalidCamera is returned by Validate for a camera that cannot project
var ErrInvalidCamera = errors.New("invalid camera")

// Camera holds the projection parameters of the ride view. Only
// RoadDistance and XOffset change during a ride.
type Camera struct {
	ScreenDist     float64 `toml:"screen_dist"`     // Distance from the eye to the projection plane
	ViewportHeight float64 `toml:"viewport_height"` // World height covered by the viewport
	YPos           float64 `toml:"y_pos"`           // Eye height above the ground
	FarPlane       float64 `toml:"far_plane"`       // Farthest visible road distance, relative to the camera
	Pitch          float64 `toml:"pitch"`           // Row scale of the projection; the horizon sits near 1/Pitch of the frame
	RoadDistance   float64 `toml:"-"`               // Cumulative distance travelled along the track
	XOffset        float64 `toml:"-"`               // Lateral offset from the track centerline
}

// Default returns the camera used by rides unless settings override it
func Default() Camera {
	return Camera{
		ScreenDist:     1.0,
		ViewportHeight: 1.0,
		YPos:           1.0,
		FarPlane:       150.0,
		Pitch:          1.5,
	}
}

// Validate checks the invariants the projection relies on
func (c Camera) Validate() error {
	if c.ScreenDist <= 0 {
		return fmt.Errorf("%w: screen distance %v must be positive", ErrInvalidCamera, c.ScreenDist)
	}
	if c.YPos <= 0 {
		return fmt.Errorf("%w: eye height %v must be positive", ErrInvalidCamera, c.YPos)
	}
	if c.FarPlane <= 0 {
		return fmt.Errorf("%w: far plane %v must be positive", ErrInvalidCamera, c.FarPlane)
	}
	return nil
}

// PerspectiveScale is the on-screen size of one world unit at the given
// distance in front of the camera
func (c Camera) PerspectiveScale(distance float64) float64 {
	return c.ScreenDist / distance
}
