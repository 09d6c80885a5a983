// Package rendertest provides recording implementations of the render
// interfaces so world, entity and scene code can be tested without a
// graphics context.
package rendertest

import (
	"fmt"
	"image"
	"image/color"

	"chosenoffset.com/overworld/internal/render"
)

func init() {
	if render.NewGeoM == nil {
		render.NewGeoM = func() render.GeoM {
			return &GeoM{SX: 1, SY: 1}
		}
	}
}

// GeoM records the translation and scale applied to a draw call.
type GeoM struct {
	TX, TY float64
	SX, SY float64
}

// Translate shifts the image by (tx, ty).
func (g *GeoM) Translate(tx, ty float64) {
	g.TX += tx
	g.TY += ty
}

// Scale scales the current transform, including any translation already applied.
func (g *GeoM) Scale(sx, sy float64) {
	g.SX *= sx
	g.SY *= sy
	g.TX *= sx
	g.TY *= sy
}

// Reset resets the matrix to identity.
func (g *GeoM) Reset() {
	*g = GeoM{SX: 1, SY: 1}
}

// DrawCall is a single recorded DrawImage call.
type DrawCall struct {
	Src    *Image
	TX, TY float64
	SX, SY float64
}

// Image is an in-memory render.Image that records what is drawn onto it.
type Image struct {
	Rect    image.Rectangle
	Calls   []DrawCall
	Filled  []color.Color
	Cleared int
	parent  *Image
}

// NewImage creates a recording image of the given size.
func NewImage(width, height int) *Image {
	return &Image{Rect: image.Rect(0, 0, width, height)}
}

// Bounds returns the bounds of the image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// Size returns the width and height of the image.
func (i *Image) Size() (width, height int) {
	return i.Rect.Dx(), i.Rect.Dy()
}

// SubImage returns a sub-image clipped to the receiver's bounds.
func (i *Image) SubImage(r image.Rectangle) render.Image {
	return &Image{Rect: r.Intersect(i.Rect), parent: i}
}

// Parent returns the image this one was sliced from, if any.
func (i *Image) Parent() *Image {
	return i.parent
}

// Fill records a fill.
func (i *Image) Fill(clr color.Color) {
	i.Filled = append(i.Filled, clr)
}

// Clear records a clear.
func (i *Image) Clear() {
	i.Cleared++
}

// DrawImage records the draw call and its transform.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	call := DrawCall{Src: src.(*Image), SX: 1, SY: 1}
	if opts != nil && opts.GeoM != nil {
		g := opts.GeoM.(*GeoM)
		call.TX, call.TY = g.TX, g.TY
		call.SX, call.SY = g.SX, g.SY
	}
	i.Calls = append(i.Calls, call)
}

// Dispose is a no-op.
func (i *Image) Dispose() {}

// Reset forgets all recorded calls.
func (i *Image) Reset() {
	i.Calls = nil
	i.Filled = nil
	i.Cleared = 0
}

// Shape is a recorded FillRect or StrokeRect call.
type Shape struct {
	X, Y, W, H float32
	Stroke     bool
	Color      color.Color
}

// Text is a recorded DrawText call.
type Text struct {
	Text string
	X, Y int
}

// Renderer records shapes and text instead of rasterising them.
type Renderer struct {
	Shapes []Shape
	Texts  []Text
	FPS    float64
}

// NewImage creates a recording image.
func (r *Renderer) NewImage(width, height int) render.Image {
	return NewImage(width, height)
}

// FillRect records a filled rectangle.
func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	r.Shapes = append(r.Shapes, Shape{X: x, Y: y, W: width, H: height, Color: clr})
}

// StrokeRect records a rectangle outline.
func (r *Renderer) StrokeRect(dst render.Image, x, y, width, height float32, strokeWidth float32, clr color.Color) {
	r.Shapes = append(r.Shapes, Shape{X: x, Y: y, W: width, H: height, Stroke: true, Color: clr})
}

// DrawText records text.
func (r *Renderer) DrawText(dst render.Image, str string, x, y int, clr color.Color, scale float64) {
	r.Texts = append(r.Texts, Text{Text: str, X: x, Y: y})
}

// MeasureText approximates a 6x13 monospace glyph.
func (r *Renderer) MeasureText(str string, scale float64) (width, height int) {
	return int(float64(len(str)) * 6 * scale), int(13 * scale)
}

// ActualFPS returns the configured FPS value.
func (r *Renderer) ActualFPS() float64 {
	return r.FPS
}

// Input is a scriptable render.InputManager. Tests set Held between ticks and
// call Press/Release to simulate edge events for a single tick.
type Input struct {
	Held     map[render.Key]bool
	pressed  map[render.Key]bool
	released map[render.Key]bool
}

// NewInput creates an input with no keys held.
func NewInput() *Input {
	return &Input{
		Held:     make(map[render.Key]bool),
		pressed:  make(map[render.Key]bool),
		released: make(map[render.Key]bool),
	}
}

// Hold marks a key as held and just pressed.
func (in *Input) Hold(key render.Key) {
	in.Held[key] = true
	in.pressed[key] = true
}

// Release marks a key as no longer held and just released.
func (in *Input) Release(key render.Key) {
	delete(in.Held, key)
	in.released[key] = true
}

// Press marks a key as just pressed without holding it.
func (in *Input) Press(key render.Key) {
	in.pressed[key] = true
}

// EndTick clears the per-tick edge events.
func (in *Input) EndTick() {
	clear(in.pressed)
	clear(in.released)
}

// IsKeyPressed reports whether the key is held.
func (in *Input) IsKeyPressed(key render.Key) bool {
	return in.Held[key]
}

// IsKeyJustPressed reports whether the key went down this tick.
func (in *Input) IsKeyJustPressed(key render.Key) bool {
	return in.pressed[key]
}

// IsKeyJustReleased reports whether the key went up this tick.
func (in *Input) IsKeyJustReleased(key render.Key) bool {
	return in.released[key]
}

// Loader serves pre-registered images by path.
type Loader struct {
	Images map[string]render.Image
}

// LoadImage returns the registered image or an error.
func (l *Loader) LoadImage(path string) (render.Image, error) {
	img, ok := l.Images[path]
	if !ok {
		return nil, fmt.Errorf("no image registered for %s", path)
	}
	return img, nil
}
