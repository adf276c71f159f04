package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TitleScreen shows the game title, the loaded track and the result of
// the last ride
type TitleScreen struct {
	startTime      time.Time
	trackName      string
	status         string
	onStartPressed func() // Callback when user presses to start
	line           *ebiten.Image
}

// NewTitleScreen creates a new title screen. status is an optional line
// such as the time of the last finished ride.
func NewTitleScreen(trackName, status string, onStartPressed func()) *TitleScreen {
	line := ebiten.NewImage(1, 1)
	line.Fill(color.RGBA{50, 60, 80, 255})
	return &TitleScreen{
		startTime:      time.Now(),
		trackName:      trackName,
		status:         status,
		onStartPressed: onStartPressed,
		line:           line,
	}
}

// SetTrackName updates the track line, e.g. after a hot reload
func (ts *TitleScreen) SetTrackName(name string) {
	ts.trackName = name
}

// Update handles input for the title screen
func (ts *TitleScreen) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if ts.onStartPressed != nil {
			ts.onStartPressed()
		}
	}
	return nil
}

// Draw renders the title screen
func (ts *TitleScreen) Draw(screen *ebiten.Image) {
	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()
	screen.Fill(color.RGBA{15, 20, 35, 255})

	elapsed := time.Since(ts.startTime).Seconds()
	face := text.NewGoXFace(bitmapfont.Face)
	centerX := float64(width) / 2

	// Title pulses between 1.0 and 1.1 of its size
	titleScale := float64(width) / 160 * (1.0 + 0.1*math.Sin(elapsed*2.0))
	brightness := math.Min(1.0, 1.0+0.2*math.Sin(elapsed*1.5))
	drawCentered(screen, face, "ROADSTER", centerX, float64(height)/4, titleScale, color.RGBA{
		uint8(255 * brightness),
		uint8(200 * brightness),
		uint8(50 * brightness),
		255,
	})

	if ts.trackName != "" {
		drawCentered(screen, face, ts.trackName, centerX, float64(height)/2, 1, color.RGBA{180, 180, 200, 255})
	}
	if ts.status != "" {
		drawCentered(screen, face, ts.status, centerX, float64(height)/2+16, 1, color.RGBA{100, 255, 100, 255})
	}

	// Blink every 0.5 seconds
	if int(elapsed*2)%2 == 0 {
		drawCentered(screen, face, "Press ENTER to drive", centerX, float64(height)-40, 1, color.RGBA{150, 200, 255, 255})
	}

	// Decorative lines
	for _, y := range []float64{float64(height) / 6, float64(height) * 5 / 6} {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(width), 2)
		op.GeoM.Translate(0, y)
		screen.DrawImage(ts.line, op)
	}
}

// drawCentered draws one line of text scaled and centered on x
func drawCentered(screen *ebiten.Image, face text.Face, s string, x, y, scale float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x-text.Advance(s, face)*scale/2, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}
