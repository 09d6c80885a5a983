// Package entity implements characters that walk the tile map: the player and
// NPCs share one Entity type and differ only by their Controller.
package entity

import (
	"strings"

	"github.com/google/uuid"

	"chosenoffset.com/overworld/internal/assets"
	"chosenoffset.com/overworld/internal/collision"
	"chosenoffset.com/overworld/internal/core/geom"
	"chosenoffset.com/overworld/internal/render"
	"chosenoffset.com/overworld/internal/world/camera"
)

// Mover approves movement requests. *collision.Resolver implements it.
type Mover interface {
	ResolveMove(box geom.Rect, dx, dy float64) (float64, float64)
}

// Config describes an entity before it is placed in the world.
type Config struct {
	Name          string
	Role          string    // Spawn point name, e.g. "player" or "npc"
	Speed         int       // Pixels per step; must divide the tile size
	FrameInterval int       // Ticks per animation frame while walking
	Box           geom.Rect // Bounding box relative to the sprite's top-left; overrides the sheet's
}

// Entity is a sprite with a position, facing and animation state.
type Entity struct {
	ID   string
	Name string
	Role string

	position  geom.Point
	direction Direction
	state     AnimState
	frame     int
	ticks     int

	speed         int
	frameInterval int
	box           geom.Rect
	controller    Controller

	sheetPath string
	sheet     render.Image
	doc       *sheetDoc
	anims     map[AnimState]*Anim
}

// New creates an entity facing down in its idle state.
func New(cfg Config, ctrl Controller) *Entity {
	if ctrl == nil {
		ctrl = IdleController{}
	}
	interval := cfg.FrameInterval
	if interval <= 0 {
		interval = 1
	}
	return &Entity{
		ID:            uuid.NewString(),
		Name:          cfg.Name,
		Role:          cfg.Role,
		direction:     DirDown,
		state:         IdleDown,
		speed:         cfg.Speed,
		frameInterval: interval,
		box:           cfg.Box,
		controller:    ctrl,
	}
}

// Load binds the sprite sheet and parses its document.
func (e *Entity) Load(sheetPath string, sheet render.Image, doc []byte) error {
	if sheet == nil {
		return assets.Errorf(sheetPath, "sprite sheet image is required")
	}
	d, err := decodeSheet(doc)
	if err != nil {
		return &assets.AssetLoadError{Path: sheetPath, Reason: "invalid sprite sheet document", Err: err}
	}
	e.sheetPath = sheetPath
	e.sheet = sheet
	e.doc = d
	e.anims = nil
	return nil
}

// PrepareAnims builds the state to frames table. Every state must resolve.
func (e *Entity) PrepareAnims() error {
	if e.doc == nil {
		return assets.Errorf(e.sheetPath, "PrepareAnims called before Load")
	}
	anims, err := buildAnims(e.sheetPath, e.sheet, e.doc)
	if err != nil {
		return err
	}
	e.anims = anims
	if e.box.W == 0 || e.box.H == 0 {
		e.box = e.doc.bounds()
	}
	return nil
}

// SetAnim switches to state s and restarts its animation. "idle-side" and
// "walk-side" resolve to the current horizontal facing, or left when facing
// up or down. Unknown states are ignored.
func (e *Entity) SetAnim(s AnimState) {
	if mode, ok := strings.CutSuffix(string(s), "-side"); ok {
		dir := e.direction
		if !dir.Horizontal() {
			dir = DirLeft
		}
		s = AnimState(mode + "-" + dir.String())
	}
	if !s.Valid() {
		return
	}
	e.state = s
	e.direction = s.Direction()
	e.frame = 0
	e.ticks = 0
}

// Update polls the controller, asks m to approve the step and applies only
// the approved displacement.
func (e *Entity) Update(m Mover) {
	dir, moving := e.controller.Intent()
	if !moving {
		if e.controller.Released() && e.state.Walking() {
			e.SetAnim(IdleState(e.direction))
		}
		return
	}

	if walk := WalkState(dir); e.state != walk {
		e.SetAnim(walk)
	}

	ux, uy := dir.Delta()
	dx := float64(ux * e.speed)
	dy := float64(uy * e.speed)
	ax, ay := m.ResolveMove(e.Bounds(), dx, dy)
	e.position.X += ax
	e.position.Y += ay

	e.advanceFrame()
}

func (e *Entity) advanceFrame() {
	e.ticks++
	if e.ticks < e.frameInterval {
		return
	}
	e.ticks = 0
	if n := e.frameCount(); n > 0 {
		e.frame = (e.frame + 1) % n
	}
}

func (e *Entity) frameCount() int {
	if anim, ok := e.anims[e.state]; ok {
		return len(anim.Frames)
	}
	return 1
}

// HandleCollisionsWith pushes e out of other's bounding box.
func (e *Entity) HandleCollisionsWith(other *Entity) {
	if other == nil || other == e {
		return
	}
	dx, dy := collision.ResolveEntityOverlap(other.Bounds(), e.Bounds())
	e.position.X += dx
	e.position.Y += dy
}

// Draw draws the current frame at the entity's screen position.
func (e *Entity) Draw(dst render.Image, cam *camera.Camera) {
	anim, ok := e.anims[e.state]
	if !ok || len(anim.Frames) == 0 {
		return
	}
	img := anim.Frames[e.frame%len(anim.Frames)]
	sx, sy := cam.ToScreen(e.position.X, e.position.Y)

	opts := &render.DrawImageOptions{GeoM: render.NewGeoM()}
	if anim.Mirrored {
		w, _ := img.Size()
		opts.GeoM.Scale(-1, 1)
		opts.GeoM.Translate(sx+float64(w), sy)
	} else {
		opts.GeoM.Translate(sx, sy)
	}
	dst.DrawImage(img, opts)
}

// PlaceAt moves the entity without collision checks. Used at startup.
func (e *Entity) PlaceAt(p geom.Point) {
	e.position = p
}

// Position returns the world position of the sprite's top-left corner.
func (e *Entity) Position() geom.Point {
	return e.position
}

// Bounds returns the bounding box in world space.
func (e *Entity) Bounds() geom.Rect {
	return e.box.Translate(e.position.X, e.position.Y)
}

// State returns the current animation state.
func (e *Entity) State() AnimState {
	return e.state
}

// Frame returns the current frame index within the animation.
func (e *Entity) Frame() int {
	return e.frame
}

// Facing returns the direction the entity faces.
func (e *Entity) Facing() Direction {
	return e.direction
}

// Speed returns the step size in pixels.
func (e *Entity) Speed() int {
	return e.speed
}

// Anim returns the prepared animation for s.
func (e *Entity) Anim(s AnimState) (*Anim, bool) {
	a, ok := e.anims[s]
	return a, ok
}
