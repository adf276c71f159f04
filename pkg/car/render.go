package car

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Sprite dimensions
const (
	SpriteWidth  = 64
	SpriteHeight = 36
)

// Sprite draws a rear view of a car in the given body color
func Sprite(body color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, SpriteWidth, SpriteHeight))

	fill := func(x, y, w, h int, c color.Color) {
		draw.Draw(img, image.Rect(x, y, x+w, y+h), &image.Uniform{c}, image.Point{}, draw.Src)
	}

	// Wheels stick out below the body
	wheelColor := color.RGBA{30, 30, 30, 255}
	fill(4, SpriteHeight-10, 12, 10, wheelColor)
	fill(SpriteWidth-16, SpriteHeight-10, 12, 10, wheelColor)

	// Body with a darker outline
	outlineColor := color.RGBA{20, 20, 20, 255}
	fill(0, 12, SpriteWidth, SpriteHeight-16, outlineColor)
	fill(2, 14, SpriteWidth-4, SpriteHeight-20, body)

	// Cabin and rear window
	fill(12, 2, SpriteWidth-24, 12, outlineColor)
	fill(14, 4, SpriteWidth-28, 10, body)
	fill(16, 5, SpriteWidth-32, 7, color.RGBA{150, 200, 255, 255})

	// Tail lights
	lightColor := color.RGBA{220, 30, 30, 255}
	fill(4, 18, 10, 4, lightColor)
	fill(SpriteWidth-14, 18, 10, 4, lightColor)

	// Number plate
	fill(SpriteWidth/2-8, SpriteHeight-12, 16, 5, color.RGBA{240, 240, 240, 255})

	return img
}

// Render draws the car centered at the bottom of buf. The camera follows
// the car so it never moves on screen.
func (c *Car) Render(buf *image.RGBA) {
	b := buf.Bounds()
	sb := c.sprite.Bounds()
	x := b.Min.X + b.Dx()/2 - sb.Dx()/2
	y := b.Max.Y - sb.Dy()
	draw.Draw(buf, image.Rect(x, y, x+sb.Dx(), y+sb.Dy()), c.sprite, sb.Min, draw.Over)
}
