package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/golangdaddy/roadster/pkg/car"
	"github.com/golangdaddy/roadster/pkg/ride"
)

// KMHPerSpeedUnit converts road distance per second to the speedometer.
// The stock car tops out at 30 units, shown as 240 km/h.
const KMHPerSpeedUnit = 8.0

// GameplayScreen drives a ride and presents its frames
type GameplayScreen struct {
	ride    *ride.Ride
	length  float64
	elapsed float64
	onEnd   func(status string)

	frame *image.RGBA
	img   *ebiten.Image
	pixel *ebiten.Image
	face  text.Face
}

// NewGameplayScreen creates the screen for a started ride on a path of the
// given length. onEnd is called with a status line when the ride finishes
// or the player quits.
func NewGameplayScreen(r *ride.Ride, width, height int, length float64, onEnd func(status string)) *GameplayScreen {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &GameplayScreen{
		ride:   r,
		length: length,
		onEnd:  onEnd,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
		img:    ebiten.NewImage(width, height),
		pixel:  pixel,
		face:   text.NewGoXFace(bitmapfont.Face),
	}
}

// controls reads the keyboard: arrows or WASD
func controls() car.Controls {
	var c car.Controls
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		c.Steer--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		c.Steer++
	}
	c.Gas = ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW)
	c.Brake = ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS)
	return c
}

// Update advances the ride by one tick
func (gs *GameplayScreen) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		gs.ride.Stop()
		gs.onEnd("")
		return nil
	}

	dt := 1 / float64(ebiten.TPS())
	gs.elapsed += dt
	for _, ev := range gs.ride.Update(dt, controls()) {
		if ev == ride.EventFinished {
			gs.onEnd(fmt.Sprintf("FINISHED in %.1fs", gs.elapsed))
			return nil
		}
	}
	return nil
}

// Draw renders the ride into the software frame and presents it
func (gs *GameplayScreen) Draw(screen *ebiten.Image) {
	gs.ride.Render(gs.frame)
	gs.img.WritePixels(gs.frame.Pix)
	screen.DrawImage(gs.img, nil)

	gs.drawUI(screen)
}

func (gs *GameplayScreen) drawUI(screen *ebiten.Image) {
	gs.drawSpeedometer(screen)

	lap, fraction := gs.ride.Progress()
	progress := fmt.Sprintf("DIST %.0f/%.0f", fraction*gs.length, gs.length)
	if lap > 0 {
		progress = fmt.Sprintf("LAP %d  %3.0f%%", lap, fraction*100)
	}
	width := float64(screen.Bounds().Dx())
	op := &text.DrawOptions{}
	op.GeoM.Translate(width-text.Advance(progress, gs.face)-4, 4)
	op.ColorScale.ScaleWithColor(color.RGBA{255, 255, 255, 255})
	text.Draw(screen, progress, gs.face, op)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.0f", ebiten.ActualFPS()), 4, screen.Bounds().Dy()-16)
}

// drawSpeedometer draws a speedometer displaying current speed in km/h
func (gs *GameplayScreen) drawSpeedometer(screen *ebiten.Image) {
	c := gs.ride.Car()
	speedKMH := c.Speed * KMHPerSpeedUnit

	x, y := 4.0, 4.0
	width, height := 72.0, 44.0

	gs.fillRect(screen, x, y, width, height, color.RGBA{20, 20, 30, 200})

	speedText := fmt.Sprintf("%.0f", speedKMH)
	textScale := 2.0
	textOp := &text.DrawOptions{}
	textOp.GeoM.Scale(textScale, textScale)
	textOp.GeoM.Translate(x+width/2-text.Advance(speedText, gs.face)*textScale/2, y+2)

	// Color based on speed (green for normal, yellow for fast, red for very fast)
	var speedColor color.RGBA
	if speedKMH < 100 {
		speedColor = color.RGBA{100, 255, 100, 255}
	} else if speedKMH < 180 {
		speedColor = color.RGBA{255, 255, 100, 255}
	} else {
		speedColor = color.RGBA{255, 100, 100, 255}
	}
	textOp.ColorScale.ScaleWithColor(speedColor)
	text.Draw(screen, speedText, gs.face, textOp)

	labelOp := &text.DrawOptions{}
	labelOp.GeoM.Translate(x+width/2-text.Advance("KM/H", gs.face)/2, y+22)
	labelOp.ColorScale.ScaleWithColor(color.RGBA{200, 200, 200, 255})
	text.Draw(screen, "KM/H", gs.face, labelOp)

	fraction := 0.0
	if c.MaxSpeed > 0 {
		fraction = c.Speed / c.MaxSpeed
	}
	gs.drawSpeedGauge(screen, x+4, y+height-8, width-8, 5, fraction)
}

// drawSpeedGauge draws a horizontal bar filled to fraction of its width
func (gs *GameplayScreen) drawSpeedGauge(screen *ebiten.Image, x, y, width, height, fraction float64) {
	fraction = math.Max(0, math.Min(fraction, 1))

	gs.fillRect(screen, x, y, width, height, color.RGBA{150, 150, 150, 255})
	gs.fillRect(screen, x+1, y+1, width-2, height-2, color.RGBA{40, 40, 40, 255})
	if fraction == 0 {
		return
	}

	// Color gradient: green -> yellow -> red
	var barColor color.RGBA
	if fraction < 0.5 {
		ratio := fraction / 0.5
		barColor = color.RGBA{uint8(100 + ratio*155), 255, 100, 255}
	} else {
		ratio := (fraction - 0.5) / 0.5
		barColor = color.RGBA{255, uint8(255 - ratio*155), uint8(100 - ratio*100), 255}
	}
	gs.fillRect(screen, x+1, y+1, (width-2)*fraction, height-2, barColor)
}

func (gs *GameplayScreen) fillRect(screen *ebiten.Image, x, y, w, h float64, c color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(gs.pixel, op)
}
