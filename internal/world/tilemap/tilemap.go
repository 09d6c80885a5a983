// Package tilemap holds the tile-map data model: drawable tile layers, a
// collision layer and named spawn points, loaded from a Tiled JSON document.
package tilemap

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"chosenoffset.com/overworld/internal/core/geom"
	"chosenoffset.com/overworld/internal/render"
	"chosenoffset.com/overworld/internal/telemetry"
	"chosenoffset.com/overworld/internal/world/atlas"
	"chosenoffset.com/overworld/internal/world/camera"
)

// Empty marks a layer cell with no tile.
const Empty = -1

// invalidCell marks a gid that falls below the tileset's firstgid.
const invalidCell = -2

// Layer is one grid of tile indices.
type Layer struct {
	Name    string
	Above   bool // Drawn after entities
	Visible bool
	Width   int
	Height  int
	Cells   []int // Row-major tile indices, Empty for no tile
}

// TileAt returns the tile index at (col, row), or Empty when out of range.
func (l *Layer) TileAt(col, row int) int {
	if col < 0 || col >= l.Width || row < 0 || row >= l.Height {
		return Empty
	}
	return l.Cells[row*l.Width+col]
}

// SpawnPoint is a named position relative to the map origin.
type SpawnPoint struct {
	Name string
	X, Y float64
}

// TileMap is the loaded map. It is read-only once PrepareTiles succeeds.
type TileMap struct {
	origin   geom.Point
	tileSize int
	width    int
	height   int

	tileset   tilesetDoc
	layers    []*Layer
	collision *Layer
	collides  map[int]bool
	blocked   []bool
	spawns    []SpawnPoint

	atlas    *atlas.Atlas
	tiles    [][]render.Image // Per layer, per cell
	prepared bool
}

// New creates an empty map whose top-left corner sits at origin in world space.
func New(origin geom.Point) *TileMap {
	return &TileMap{origin: origin}
}

// Load binds the tile-sheet image and parses the map document. It fails with
// a *MapLoadError when any required section is missing, and leaves the map
// unchanged on failure.
func (m *TileMap) Load(sheet render.Image, doc []byte) error {
	if sheet == nil {
		return loadErrorf("tile sheet image is required")
	}

	d, err := parseDocument(doc)
	if err != nil {
		return err
	}
	if err := validateDocument(d); err != nil {
		return err
	}

	tileset := d.Tilesets[0]
	a, err := atlas.New(sheet, d.TileWidth, d.TileWidth)
	if err != nil {
		return &MapLoadError{Reason: "invalid tile sheet", Err: err}
	}
	for _, t := range tileset.Tiles {
		a.SetTile(atlas.TileDefinition{ID: t.ID, Properties: propertyMap(t.Properties)})
	}
	collides := a.TilesWithBool("collides")

	var (
		layers    []*Layer
		collision *Layer
		spawns    []SpawnPoint
	)
	for i := range d.Layers {
		ld := &d.Layers[i]
		switch ld.Type {
		case layerTypeTiles:
			layer := &Layer{
				Name:    ld.Name,
				Above:   boolProperty(ld.Properties, "above", false),
				Visible: ld.isVisible(),
				Width:   ld.Width,
				Height:  ld.Height,
				Cells:   make([]int, len(ld.Data)),
			}
			for j, gid := range ld.Data {
				layer.Cells[j] = tileIndex(gid, tileset.FirstGID)
			}
			if ld.isCollisionLayer() && collision == nil {
				collision = layer
				continue
			}
			layers = append(layers, layer)
		case layerTypeObjects:
			for _, obj := range ld.Objects {
				spawns = append(spawns, SpawnPoint{Name: obj.Name, X: obj.X, Y: obj.Y})
			}
		}
	}

	if collision == nil && len(collides) == 0 {
		return loadErrorf("map has neither a collision layer nor collides tiles")
	}

	m.tileSize = d.TileWidth
	m.width = d.Width
	m.height = d.Height
	m.tileset = tileset
	m.atlas = a
	m.layers = layers
	m.collision = collision
	m.collides = collides
	m.spawns = spawns
	m.tiles = nil
	m.prepared = false
	m.blocked = m.buildCollisionGrid()
	return nil
}

// buildCollisionGrid marks a cell blocked when the collision layer has any
// tile there, or any visual layer holds a collides tile.
func (m *TileMap) buildCollisionGrid() []bool {
	grid := make([]bool, m.width*m.height)
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			i := row*m.width + col
			if m.collision != nil && m.collision.TileAt(col, row) != Empty {
				grid[i] = true
				continue
			}
			for _, l := range m.layers {
				if m.collides[l.TileAt(col, row)] {
					grid[i] = true
					break
				}
			}
		}
	}
	return grid
}

// PrepareTiles resolves every tile index into a drawable sub-image of the
// sheet. It fails with a *MapLoadError when an index falls outside the sheet
// or a layer's dimensions differ from the map's.
func (m *TileMap) PrepareTiles(ctx context.Context) (err error) {
	if m.prepared {
		return nil
	}
	if m.atlas == nil {
		return loadErrorf("PrepareTiles called before Load")
	}

	_, span := telemetry.Tracer("tilemap").Start(ctx, "tilemap.prepare")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "tile preparation failed")
		}
		span.End()
	}()

	a := m.atlas
	if m.tileset.Columns > 0 && m.tileset.Columns != a.Columns {
		return loadErrorf("tileset declares %d columns, sheet has %d", m.tileset.Columns, a.Columns)
	}

	all := m.layers
	if m.collision != nil {
		all = append(append([]*Layer(nil), m.layers...), m.collision)
	}
	for _, l := range all {
		if l.Width != m.width || l.Height != m.height {
			return loadErrorf("layer %q is %dx%d, map is %dx%d", l.Name, l.Width, l.Height, m.width, m.height)
		}
	}

	tiles := make([][]render.Image, len(m.layers))
	cells := 0
	for li, l := range m.layers {
		tiles[li] = make([]render.Image, len(l.Cells))
		for i, index := range l.Cells {
			if index == Empty {
				continue
			}
			if !a.Contains(index) {
				return loadErrorf("layer %q cell (%d, %d) uses tile %d, sheet has %d tiles",
					l.Name, i%l.Width, i/l.Width, index, a.TileCount())
			}
			sub, err := a.GetTileSubImage(index)
			if err != nil {
				return &MapLoadError{Reason: "failed to slice tile", Err: err}
			}
			tiles[li][i] = sub
			cells++
		}
	}

	m.tiles = tiles
	m.prepared = true

	span.SetAttributes(
		attribute.Int("tilemap.width", m.width),
		attribute.Int("tilemap.height", m.height),
		attribute.Int("tilemap.layer_count", len(m.layers)),
		attribute.Int("tilemap.tile_count", cells),
	)
	return nil
}

// SpawnPoints returns the spawn points in document order, relative to the map origin.
func (m *TileMap) SpawnPoints() []SpawnPoint {
	out := make([]SpawnPoint, len(m.spawns))
	copy(out, m.spawns)
	return out
}

// SpawnPoint returns the first spawn point with the given name.
func (m *TileMap) SpawnPoint(name string) (SpawnPoint, bool) {
	for _, sp := range m.spawns {
		if sp.Name == name {
			return sp, true
		}
	}
	return SpawnPoint{}, false
}

// SpawnWorld returns the world position of the first spawn point named name.
func (m *TileMap) SpawnWorld(name string) (geom.Point, bool) {
	sp, ok := m.SpawnPoint(name)
	if !ok {
		return geom.Point{}, false
	}
	return m.origin.Add(geom.Point{X: sp.X, Y: sp.Y}), true
}

// CellAt returns the grid cell containing a world point. The result may be
// out of range.
func (m *TileMap) CellAt(worldX, worldY float64) (col, row int) {
	ts := float64(m.tileSize)
	col = int(math.Floor((worldX - m.origin.X) / ts))
	row = int(math.Floor((worldY - m.origin.Y) / ts))
	return col, row
}

// CellOrigin returns the world position of the top-left corner of a cell.
func (m *TileMap) CellOrigin(col, row int) geom.Point {
	return geom.Point{
		X: m.origin.X + float64(col*m.tileSize),
		Y: m.origin.Y + float64(row*m.tileSize),
	}
}

// InBounds reports whether (col, row) is a cell of the map.
func (m *TileMap) InBounds(col, row int) bool {
	return col >= 0 && col < m.width && row >= 0 && row < m.height
}

// IsBlocked returns whether the cell containing the world point is
// collidable. Points outside the map are always blocked.
func (m *TileMap) IsBlocked(worldX, worldY float64) bool {
	if m.tileSize == 0 {
		return true
	}
	col, row := m.CellAt(worldX, worldY)
	if !m.InBounds(col, row) {
		return true
	}
	return m.blocked[row*m.width+col]
}

// Bounds returns the world rectangle covered by the map.
func (m *TileMap) Bounds() geom.Rect {
	return geom.Rect{
		X: m.origin.X,
		Y: m.origin.Y,
		W: float64(m.width * m.tileSize),
		H: float64(m.height * m.tileSize),
	}
}

// TileSize returns the edge length of a cell in pixels.
func (m *TileMap) TileSize() int {
	return m.tileSize
}

// Width returns the map width in cells.
func (m *TileMap) Width() int {
	return m.width
}

// Height returns the map height in cells.
func (m *TileMap) Height() int {
	return m.height
}

// Layers returns the visual layers in draw order.
func (m *TileMap) Layers() []*Layer {
	return m.layers
}

// DrawLayer draws visual layer i translated by the camera offset, skipping
// cells outside the camera's view.
func (m *TileMap) DrawLayer(dst render.Image, cam *camera.Camera, i int) {
	if !m.prepared || i < 0 || i >= len(m.layers) {
		return
	}
	l := m.layers[i]
	if !l.Visible {
		return
	}

	ts := float64(m.tileSize)
	view := cam.View()
	col0 := clamp(int(math.Floor((view.X-m.origin.X)/ts)), 0, m.width)
	col1 := clamp(int(math.Ceil((view.X+view.W-m.origin.X)/ts)), 0, m.width)
	row0 := clamp(int(math.Floor((view.Y-m.origin.Y)/ts)), 0, m.height)
	row1 := clamp(int(math.Ceil((view.Y+view.H-m.origin.Y)/ts)), 0, m.height)

	for row := row0; row < row1; row++ {
		for col := col0; col < col1; col++ {
			img := m.tiles[i][row*m.width+col]
			if img == nil {
				continue
			}
			world := m.CellOrigin(col, row)
			sx, sy := cam.ToScreen(world.X, world.Y)
			dst.DrawImage(img, render.TranslateOptions(sx, sy))
		}
	}
}

// Draw draws every visible layer that sits below entities, in order.
func (m *TileMap) Draw(dst render.Image, cam *camera.Camera) {
	for i, l := range m.layers {
		if !l.Above {
			m.DrawLayer(dst, cam, i)
		}
	}
}

// DrawAbove draws every visible layer flagged to sit above entities. Callers
// invoke it after drawing entities.
func (m *TileMap) DrawAbove(dst render.Image, cam *camera.Camera) {
	for i, l := range m.layers {
		if l.Above {
			m.DrawLayer(dst, cam, i)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
