// Package atlas slices a sheet image into a grid of equally sized cells
// addressed by index, row-major from the top-left. Tile sheets and character
// sprite sheets are both atlases.
package atlas

import (
	"fmt"
	"image"

	"chosenoffset.com/overworld/internal/render"
)

// TileDefinition carries the custom properties of one atlas cell
type TileDefinition struct {
	ID         int                    `json:"id"`         // Cell index in the atlas
	Properties map[string]interface{} `json:"properties"` // Custom properties (collides, type, etc.)
}

// Atlas represents a loaded sheet image split into cells
type Atlas struct {
	Image      render.Image
	TileWidth  int
	TileHeight int
	Columns    int
	Rows       int
	Tiles      map[int]*TileDefinition // Cells that carry properties
}

// New creates an atlas over img with cells of tileWidth x tileHeight pixels.
// Partial cells on the right and bottom edges are ignored.
func New(img render.Image, tileWidth, tileHeight int) (*Atlas, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("invalid tile dimensions: %dx%d", tileWidth, tileHeight)
	}
	if img == nil {
		return nil, fmt.Errorf("atlas image is required")
	}

	w, h := img.Size()
	columns := w / tileWidth
	rows := h / tileHeight
	if columns == 0 || rows == 0 {
		return nil, fmt.Errorf("image %dx%d is smaller than one %dx%d tile", w, h, tileWidth, tileHeight)
	}

	return &Atlas{
		Image:      img,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Columns:    columns,
		Rows:       rows,
		Tiles:      make(map[int]*TileDefinition),
	}, nil
}

// TileCount returns the number of whole cells in the sheet.
func (a *Atlas) TileCount() int {
	return a.Columns * a.Rows
}

// Contains reports whether index addresses a cell of the sheet.
func (a *Atlas) Contains(index int) bool {
	return index >= 0 && index < a.TileCount()
}

// TileRect returns the pixel rectangle of a cell within the sheet.
func (a *Atlas) TileRect(index int) image.Rectangle {
	x := (index % a.Columns) * a.TileWidth
	y := (index / a.Columns) * a.TileHeight
	origin := a.Image.Bounds().Min
	return image.Rect(origin.X+x, origin.Y+y, origin.X+x+a.TileWidth, origin.Y+y+a.TileHeight)
}

// GetTileSubImage returns the sub-image for a specific cell
func (a *Atlas) GetTileSubImage(index int) (render.Image, error) {
	if !a.Contains(index) {
		return nil, fmt.Errorf("tile index %d outside atlas of %d tiles", index, a.TileCount())
	}
	return a.Image.SubImage(a.TileRect(index)), nil
}

// SetTile registers the properties of a cell, replacing any previous definition.
func (a *Atlas) SetTile(def TileDefinition) {
	a.Tiles[def.ID] = &def
}

// TilesWithBool returns the indices of every cell whose boolean property key is true.
func (a *Atlas) TilesWithBool(key string) map[int]bool {
	set := make(map[int]bool)
	for id, tile := range a.Tiles {
		if tile.GetTilePropertyBool(key, false) {
			set[id] = true
		}
	}
	return set
}

// GetTileProperty retrieves a property from a tile definition
func (td *TileDefinition) GetTileProperty(key string) (interface{}, bool) {
	if td.Properties == nil {
		return nil, false
	}
	val, ok := td.Properties[key]
	return val, ok
}

// GetTilePropertyBool retrieves a boolean property
func (td *TileDefinition) GetTilePropertyBool(key string, defaultVal bool) bool {
	val, ok := td.GetTileProperty(key)
	if !ok {
		return defaultVal
	}
	if boolVal, ok := val.(bool); ok {
		return boolVal
	}
	return defaultVal
}
