package car

import (
	"image"
	"image/color"
	"math"
)

// Tuning holds the driving characteristics of a car
type Tuning struct {
	Width             float64 `toml:"width"`              // In road widths
	Acceleration      float64 `toml:"acceleration"`       // Speed gained per second on gas
	Deceleration      float64 `toml:"deceleration"`       // Speed lost per second when coasting
	BrakeDeceleration float64 `toml:"brake_deceleration"` // Speed lost per second when braking
	MaxSpeed          float64 `toml:"max_speed"`
	SteerSpeed        float64 `toml:"steer_speed"` // Lateral speed at full speed, in road widths per second
}

// DefaultTuning returns the tuning of the stock car
func DefaultTuning() Tuning {
	return Tuning{
		Width:             0.3,
		Acceleration:      5,
		Deceleration:      2,
		BrakeDeceleration: 10,
		MaxSpeed:          30,
		SteerSpeed:        1.5,
	}
}

// Controls is the driver input for one update
type Controls struct {
	Steer float64 // -1 full left, 1 full right
	Gas   bool
	Brake bool
}

// Car is the player car
type Car struct {
	Tuning

	Speed float64
	XPos  float64 // Lateral position, in road widths from the centerline

	roadside float64
	offRoad  bool
	sprite   *image.RGBA
}

// New creates a car at rest on the centerline
func New(tuning Tuning, body color.RGBA) *Car {
	return &Car{
		Tuning: tuning,
		sprite: Sprite(body),
	}
}

// Reset puts the car back at rest on the centerline
func (c *Car) Reset() {
	c.Speed = 0
	c.XPos = 0
	c.roadside = 0
	c.offRoad = false
}

// SetRoadside reports how far the car sticks out of the road, as returned
// by track.Road.RoadsideDist. offRoad false means fully on the road.
func (c *Car) SetRoadside(dist float64, offRoad bool) {
	c.roadside = dist
	c.offRoad = offRoad
}

// Bounds returns the lateral extent of the car
func (c *Car) Bounds() (left, right float64) {
	return c.XPos - c.Width*0.5, c.XPos + c.Width*0.5
}

// Update applies one step of input. Steering grips in proportion to speed
// and leaving the road lowers the top speed.
func (c *Car) Update(dt float64, controls Controls) {
	if c.MaxSpeed > 0 {
		c.XPos += controls.Steer * dt * c.SteerSpeed * (c.Speed / c.MaxSpeed)
	}

	switch {
	case controls.Gas:
		c.Speed += dt * c.Acceleration
	case controls.Brake:
		c.Speed -= dt * c.BrakeDeceleration
	default:
		c.Speed -= dt * c.Deceleration
	}

	maxSpeed := c.MaxSpeed
	if c.offRoad {
		maxSpeed /= math.Abs(c.roadside)*3 + 1
	}

	if c.Speed > maxSpeed {
		c.Speed = maxSpeed
	}
	if c.Speed < 0 {
		c.Speed = 0
	}
}

// Bump slows the car down to speed after it ran into something driving at
// that speed. A car already slower keeps its speed.
func (c *Car) Bump(speed float64) {
	c.Speed = math.Max(0, math.Min(c.Speed, speed))
}
