// Package camera maps world coordinates to screen coordinates for a viewport
// that follows a tracked entity.
package camera

import "chosenoffset.com/overworld/internal/core/geom"

// Tracked is anything the camera can follow.
type Tracked interface {
	Position() geom.Point
}

// Camera tracks the viewport position for scrolling large levels.
// The offset is the world-space top-left corner of the viewport.
type Camera struct {
	offset  geom.Point
	bias    geom.Point
	viewW   int
	viewH   int
	tracked Tracked
}

// New creates a camera for a viewW x viewH viewport. bias shifts the tracked
// position away from the exact viewport centre: a positive X bias puts the
// tracked entity bias.X pixels left of centre.
func New(viewW, viewH int, bias geom.Point) *Camera {
	return &Camera{viewW: viewW, viewH: viewH, bias: bias}
}

// AttachTo starts following t. The offset is not recomputed until Update.
func (c *Camera) AttachTo(t Tracked) {
	c.tracked = t
}

// Update recenters the viewport on the tracked entity.
// The camera is not clamped to map bounds, so area past the map edges can be
// shown.
func (c *Camera) Update() {
	if c.tracked == nil {
		return
	}
	pos := c.tracked.Position()
	c.offset = geom.Point{
		X: pos.X - float64(c.viewW)/2 + c.bias.X,
		Y: pos.Y - float64(c.viewH)/2 + c.bias.Y,
	}
}

// ToScreen converts world coordinates to screen coordinates.
func (c *Camera) ToScreen(worldX, worldY float64) (float64, float64) {
	return worldX - c.offset.X, worldY - c.offset.Y
}

// Offset returns the world-space top-left corner of the viewport.
func (c *Camera) Offset() geom.Point {
	return c.offset
}

// View returns the world-space rectangle currently visible.
func (c *Camera) View() geom.Rect {
	return geom.Rect{X: c.offset.X, Y: c.offset.Y, W: float64(c.viewW), H: float64(c.viewH)}
}
