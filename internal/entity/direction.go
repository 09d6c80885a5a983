package entity

import "strings"

// Direction represents the four facing/movement directions
type Direction int

const (
	DirDown Direction = iota
	DirUp
	DirLeft
	DirRight
)

// Directions lists every direction in input-precedence order: vertical
// directions win over horizontal ones when several keys are held.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the unit x,y step for a direction
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return ""
	}
}

// Horizontal reports whether d is left or right.
func (d Direction) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

func parseDirection(s string) (Direction, bool) {
	for _, d := range Directions {
		if d.String() == s {
			return d, true
		}
	}
	return DirDown, false
}

// AnimState names an animation: a mode (idle or walk) and a direction,
// e.g. "idle-down" or "walk-left".
type AnimState string

const (
	modeIdle = "idle"
	modeWalk = "walk"
)

const (
	IdleUp    AnimState = "idle-up"
	IdleDown  AnimState = "idle-down"
	IdleLeft  AnimState = "idle-left"
	IdleRight AnimState = "idle-right"
	WalkUp    AnimState = "walk-up"
	WalkDown  AnimState = "walk-down"
	WalkLeft  AnimState = "walk-left"
	WalkRight AnimState = "walk-right"
)

// AllStates lists every animation state an entity can be in.
var AllStates = []AnimState{
	IdleUp, IdleDown, IdleLeft, IdleRight,
	WalkUp, WalkDown, WalkLeft, WalkRight,
}

// IdleState returns the idle state facing d.
func IdleState(d Direction) AnimState {
	return AnimState(modeIdle + "-" + d.String())
}

// WalkState returns the walking state facing d.
func WalkState(d Direction) AnimState {
	return AnimState(modeWalk + "-" + d.String())
}

func (s AnimState) split() (mode string, dir Direction, ok bool) {
	mode, rest, found := strings.Cut(string(s), "-")
	if !found || (mode != modeIdle && mode != modeWalk) {
		return "", DirDown, false
	}
	dir, ok = parseDirection(rest)
	return mode, dir, ok
}

// Valid reports whether s is one of AllStates.
func (s AnimState) Valid() bool {
	_, _, ok := s.split()
	return ok
}

// Direction returns the direction a state faces.
func (s AnimState) Direction() Direction {
	_, d, _ := s.split()
	return d
}

// Walking reports whether s is a walking state.
func (s AnimState) Walking() bool {
	mode, _, ok := s.split()
	return ok && mode == modeWalk
}

// mode returns "idle" or "walk".
func (s AnimState) mode() string {
	m, _, _ := s.split()
	return m
}
