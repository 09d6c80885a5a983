package scene

import (
	"log"

	"chosenoffset.com/overworld/internal/core/geom"
	"chosenoffset.com/overworld/internal/render"
	"chosenoffset.com/overworld/internal/ui/debug"
)

// Manager owns the active scene and switches between scenes on ENTER. It
// implements render.Game.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	State        State
	Menu         *Menu
	World        *World
	Battle       *Battle
	Debug        *debug.Overlay
	Renderer     render.Renderer
	InputMgr     render.InputManager
}

// NewManager creates a manager starting at the menu.
func NewManager(r render.Renderer, input render.InputManager, world *World, width, height int) *Manager {
	return &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		State:        StateMenu,
		Menu:         NewMenu(r, width, height),
		World:        world,
		Battle:       &Battle{},
		Debug:        debug.New(r),
		Renderer:     r,
		InputMgr:     input,
	}
}

// Update handles the global keys and then updates the active scene.
func (m *Manager) Update() error {
	if m.InputMgr.IsKeyJustPressed(render.KeyF1) {
		m.Debug.Toggle()
		log.Printf("Debug overlay: %t", m.Debug.Enabled)
	}
	if m.InputMgr.IsKeyJustPressed(render.KeyEnter) {
		m.advance()
	}
	return m.current().Update()
}

// advance applies the ENTER transition for the current state.
func (m *Manager) advance() {
	next := m.State
	switch m.State {
	case StateMenu:
		if m.World != nil {
			next = StateWorld
		}
	case StateWorld:
		next = StateMenu
	case StateBattle:
		// No exit from the placeholder yet
	}
	if next != m.State {
		log.Printf("Scene: %s -> %s", m.State, next)
		m.State = next
	}
}

// SetState switches scenes directly.
func (m *Manager) SetState(s State) {
	if s == StateWorld && m.World == nil {
		return
	}
	m.State = s
}

func (m *Manager) current() Scene {
	switch m.State {
	case StateWorld:
		return m.World
	case StateBattle:
		return m.Battle
	default:
		return m.Menu
	}
}

// Draw draws the active scene and the debug overlay.
func (m *Manager) Draw(screen render.Image) {
	m.current().Draw(screen)

	var boxes []geom.Rect
	if m.State == StateWorld {
		boxes = m.World.DebugBoxes()
	}
	m.Debug.Draw(screen, m.Renderer.ActualFPS(), boxes)
}

// Layout keeps the logical screen size fixed; the engine scales it to the window.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	return m.ScreenWidth, m.ScreenHeight
}
