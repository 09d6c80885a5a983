package scene

import (
	"image/color"

	"chosenoffset.com/overworld/internal/render"
)

var battleBackground = color.RGBA{40, 10, 10, 255}

// Battle is a placeholder that only clears the screen.
type Battle struct{}

func (b *Battle) Update() error {
	return nil
}

func (b *Battle) Draw(screen render.Image) {
	screen.Fill(battleBackground)
}
