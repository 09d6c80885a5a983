package scene

import (
	"image/color"

	"chosenoffset.com/overworld/internal/render"
)

var (
	menuBackground = color.RGBA{20, 20, 30, 255}
	menuTitle      = color.RGBA{255, 255, 255, 255}
	menuPrompt     = color.RGBA{200, 200, 255, 255}
)

// Menu is the title screen.
type Menu struct {
	Title    string
	Prompt   string
	renderer render.Renderer
	width    int
	height   int
}

// NewMenu creates the title screen.
func NewMenu(r render.Renderer, width, height int) *Menu {
	return &Menu{
		Title:    "OVERWORLD",
		Prompt:   "Press ENTER to start",
		renderer: r,
		width:    width,
		height:   height,
	}
}

// Update does nothing; the manager handles ENTER.
func (m *Menu) Update() error {
	return nil
}

// Draw renders the title and prompt centred horizontally.
func (m *Menu) Draw(screen render.Image) {
	screen.Fill(menuBackground)

	tw, th := m.renderer.MeasureText(m.Title, 3.0)
	m.renderer.DrawText(screen, m.Title, (m.width-tw)/2, m.height/3-th/2, menuTitle, 3.0)

	pw, _ := m.renderer.MeasureText(m.Prompt, 1.0)
	m.renderer.DrawText(screen, m.Prompt, (m.width-pw)/2, m.height*2/3, menuPrompt, 1.0)
}
