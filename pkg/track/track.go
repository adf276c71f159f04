package track

import (
	"image/color"

	"github.com/golangdaddy/roadster/pkg/camera"
	"github.com/golangdaddy/roadster/pkg/geom"
)

// horizonEpsilon keeps rows at the projection asymptote out of the solver
const horizonEpsilon = 1e-9

// YData is what the solver knows about one raster row
type YData struct {
	Distance       float64 // Road distance seen on the row, relative to the camera; 0 when culled
	WorldDistance  float64 // Track distance seen on the row, folded into the lap on a loop
	NormRoadOffset float64 // Lateral offset of the track centerline, in frame widths
	RoadScale      float64 // Perspective and hill scaled width of one world unit, in frame widths
	IsVisible      bool    // The row shows track surface
	IsHorzLine     bool    // Stripe parity of the row
}

// Track renders one track: it turns camera state into per-row YData and
// rasterizes ground and roads from it
type Track struct {
	data         *Data
	linesDensity float64
	yData        []YData

	GroundMain      color.RGBA
	GroundSecondary color.RGBA

	// LoopLength makes distances wrap past the end of the track back to
	// its start; 0 for a track that ends
	LoopLength float64
}

// New creates a track renderer for the given data
func New(data *Data) *Track {
	return &Track{
		data:            data,
		linesDensity:    0.5,
		GroundMain:      color.RGBA{0, 100, 0, 255},
		GroundSecondary: color.RGBA{0, 120, 0, 255},
	}
}

// Data returns the track description
func (t *Track) Data() *Data {
	return t.data
}

// wrap folds a track distance into the lap. shift is what was taken off.
func (t *Track) wrap(distance float64) (wrapped, shift float64) {
	if t.LoopLength <= 0 {
		return distance, 0
	}
	wrapped = geom.Mod(distance, t.LoopLength)
	return wrapped, distance - wrapped
}

// YData returns the rows computed by the last ComputeYData call
func (t *Track) YData() []YData {
	return t.yData
}

// ComputeYData solves every row of a frameHeight tall raster for the
// camera. The result has one record per row, row 0 being the top of the
// frame, and stays valid until the next call.
func (t *Track) ComputeYData(cam *camera.Camera, frameHeight int) []YData {
	if cap(t.yData) < frameHeight {
		t.yData = make([]YData, frameHeight)
	}
	t.yData = t.yData[:frameHeight]
	for i := range t.yData {
		t.yData[i] = YData{}
	}
	if frameHeight <= 0 {
		return t.yData
	}

	camDist, _ := t.wrap(cam.RoadDistance)
	pitch := cam.Pitch + t.data.CameraPitchDelta(camDist)
	curveFrom := cam.RoadDistance + cam.ScreenDist
	hillMultiplier := 1.0

	var (
		offsetDelta    float64
		prevNormOffset float64
		globalOffset   float64
		prevSegment    = -1
		prevDist       float64
		isHorzLine     bool
	)
	linesAccum := geom.Mod(cam.RoadDistance, 2*t.linesDensity)

	for fromBottom := 0; fromBottom < frameHeight; fromBottom++ {
		y := frameHeight - 1 - fromBottom

		yNorm := float64(fromBottom) / float64(frameHeight)
		groundHeight := cam.YPos - (1-yNorm*pitch)*cam.ViewportHeight
		depth := cam.YPos - groundHeight
		if depth < horizonEpsilon {
			// at or past the horizon asymptote: nothing but sky above
			prevDist = 0
			continue
		}
		dist := groundHeight*cam.ScreenDist/depth + cam.ScreenDist

		// stripes
		if prevDist != 0 {
			linesAccum += dist - prevDist
		}
		if linesAccum > t.linesDensity {
			isHorzLine = !isHorzLine
			linesAccum = geom.Mod(linesAccum, t.linesDensity)
		}
		prevDist = dist

		if dist > cam.FarPlane || dist < horizonEpsilon {
			continue
		}

		worldDist, shift := t.wrap(dist + cam.RoadDistance)
		if !t.data.IsVisible(worldDist) {
			t.yData[y] = YData{Distance: dist, WorldDistance: worldDist, IsHorzLine: isHorzLine}
			continue
		}

		// lateral offset; past the seam the curves of the next lap start
		// from their own beginning
		var normOffset float64
		if seg := t.data.SegmentOffset(curveFrom-shift, worldDist); seg.Curved {
			if prevSegment != seg.Segment {
				prevSegment = seg.Segment
				globalOffset = prevNormOffset
			}
			normOffset = globalOffset + seg.Value*cam.PerspectiveScale(dist)
			offsetDelta = normOffset - prevNormOffset
		} else {
			normOffset = prevNormOffset + offsetDelta
			globalOffset = normOffset
		}
		prevNormOffset = normOffset

		// hills
		hillMultiplier += t.data.HillMultiplierDelta(worldDist)

		t.yData[y] = YData{
			Distance:       dist,
			WorldDistance:  worldDist,
			NormRoadOffset: normOffset - cam.XOffset*cam.PerspectiveScale(dist),
			RoadScale:      hillMultiplier * cam.PerspectiveScale(dist),
			IsVisible:      true,
			IsHorzLine:     isHorzLine,
		}
	}

	return t.yData
}

// HorzSpeed is the curvature law right in front of the camera, the rate
// at which the scenery should drift sideways
func (t *Track) HorzSpeed(cam *camera.Camera) float64 {
	ahead, shift := t.wrap(cam.RoadDistance + cam.ScreenDist)
	seg := t.data.SegmentOffset(cam.RoadDistance-shift, ahead)
	if !seg.Curved {
		return 0
	}
	return seg.Value
}

// Bounds returns the normalized edges of a unit wide road on the nearest
// visible row. It is false before ComputeYData found any visible row.
func (t *Track) Bounds() (left, right float64, ok bool) {
	for y := len(t.yData) - 1; y >= 0; y-- {
		row := t.yData[y]
		if !row.IsVisible {
			continue
		}
		half := row.RoadScale * 0.5
		return row.NormRoadOffset - half, row.NormRoadOffset + half, true
	}
	return 0, 0, false
}

// HorizonRow returns the topmost row showing ground, or -1
func (t *Track) HorizonRow() int {
	for y, row := range t.yData {
		if row.Distance > 0 {
			return y
		}
	}
	return -1
}
