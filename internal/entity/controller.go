package entity

import "chosenoffset.com/overworld/internal/render"

// Controller decides what an entity wants to do each tick.
type Controller interface {
	// Intent returns the direction to move this tick, if any.
	Intent() (Direction, bool)
	// Released reports that movement input ended this tick: a direction key
	// was released and no direction key is still held.
	Released() bool
}

// directionKeys maps each direction to the keys that drive it.
var directionKeys = map[Direction][]render.Key{
	DirUp:    {render.KeyUp, render.KeyW},
	DirDown:  {render.KeyDown, render.KeyS},
	DirLeft:  {render.KeyLeft, render.KeyA},
	DirRight: {render.KeyRight, render.KeyD},
}

// PlayerController polls held direction keys every tick.
type PlayerController struct {
	Input render.InputManager
}

// NewPlayerController creates a controller reading from input.
func NewPlayerController(input render.InputManager) *PlayerController {
	return &PlayerController{Input: input}
}

// Intent returns the held direction, vertical first.
func (c *PlayerController) Intent() (Direction, bool) {
	for _, d := range Directions {
		if c.held(d) {
			return d, true
		}
	}
	return DirDown, false
}

// Released reports a direction key release with no direction key still held.
func (c *PlayerController) Released() bool {
	released := false
	for _, d := range Directions {
		if c.held(d) {
			return false
		}
		for _, k := range directionKeys[d] {
			if c.Input.IsKeyJustReleased(k) {
				released = true
			}
		}
	}
	return released
}

func (c *PlayerController) held(d Direction) bool {
	for _, k := range directionKeys[d] {
		if c.Input.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// IdleController never moves. Static NPCs use it.
type IdleController struct{}

// Intent always reports no movement.
func (IdleController) Intent() (Direction, bool) {
	return DirDown, false
}

// Released always reports false.
func (IdleController) Released() bool {
	return false
}
