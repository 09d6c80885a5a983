// Package debug draws the developer overlay: an FPS counter and entity
// bounding boxes, toggled with F1.
package debug

import (
	"fmt"
	"image/color"

	"chosenoffset.com/overworld/internal/core/geom"
	"chosenoffset.com/overworld/internal/render"
)

var (
	textColor = color.RGBA{255, 255, 0, 255}
	boxColor  = color.RGBA{255, 0, 0, 255}
	panelBg   = color.RGBA{0, 0, 0, 160}
)

const (
	margin    = 4
	textScale = 1.0
)

// Overlay is off until toggled.
type Overlay struct {
	Enabled  bool
	renderer render.Renderer
}

// New creates a disabled overlay that draws through r.
func New(r render.Renderer) *Overlay {
	return &Overlay{renderer: r}
}

// Toggle flips the overlay on or off.
func (o *Overlay) Toggle() {
	o.Enabled = !o.Enabled
}

// Draw draws the FPS counter and stroked boxes. Boxes are in screen space.
func (o *Overlay) Draw(dst render.Image, fps float64, boxes []geom.Rect) {
	if !o.Enabled {
		return
	}

	for _, b := range boxes {
		o.renderer.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, boxColor)
	}

	label := fmt.Sprintf("FPS: %d", int(fps+0.5))
	w, h := o.renderer.MeasureText(label, textScale)
	o.renderer.FillRect(dst, 0, 0, float32(w+margin*2), float32(h+margin*2), panelBg)
	o.renderer.DrawText(dst, label, margin, margin, textColor, textScale)
}
