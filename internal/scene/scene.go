// Package scene holds the scene state machine and the scenes it switches
// between: the title menu, the overworld and a battle placeholder.
package scene

import "chosenoffset.com/overworld/internal/render"

// State identifies the active scene.
type State int

const (
	StateMenu State = iota
	StateWorld
	StateBattle
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateWorld:
		return "world"
	case StateBattle:
		return "battle"
	default:
		return "unknown"
	}
}

// Scene is one variant of the state machine.
type Scene interface {
	Update() error
	Draw(dst render.Image)
}
