package scene

import (
	"encoding/json"
	"testing"

	"chosenoffset.com/overworld/internal/config"
	"chosenoffset.com/overworld/internal/core/geom"
	"chosenoffset.com/overworld/internal/entity"
	"chosenoffset.com/overworld/internal/render"
	"chosenoffset.com/overworld/internal/render/rendertest"
	"chosenoffset.com/overworld/internal/world/camera"
	"chosenoffset.com/overworld/internal/world/tilemap"
)

const (
	tileSize = 16
	// Tile index 2 in the 64x64 test sheet is drawn above entities.
	aboveTile = 2
)

const spriteDoc = `{"image": "%s", "frame_width": 16, "frame_height": 16}`

type spawn struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// borderMap encodes a size x size Tiled map with a one-cell collision border,
// a ground layer, and a single above-entities tile at (aboveCol, aboveRow).
func borderMap(t *testing.T, size, aboveCol, aboveRow int, spawns ...spawn) []byte {
	t.Helper()
	ground := make([]int, size*size)
	walls := make([]int, size*size)
	above := make([]int, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			ground[row*size+col] = 1
			if row == 0 || col == 0 || row == size-1 || col == size-1 {
				walls[row*size+col] = 2
			}
		}
	}
	above[aboveRow*size+aboveCol] = aboveTile + 1

	if spawns == nil {
		spawns = []spawn{}
	}
	doc := map[string]any{
		"width": size, "height": size, "tilewidth": tileSize, "tileheight": tileSize,
		"layers": []map[string]any{
			{"type": "tilelayer", "name": "ground", "width": size, "height": size, "data": ground},
			{"type": "tilelayer", "name": "collisions", "width": size, "height": size, "data": walls},
			{
				"type": "tilelayer", "name": "treetops", "width": size, "height": size, "data": above,
				"properties": []map[string]any{{"name": "above", "type": "bool", "value": true}},
			},
			{"type": "objectgroup", "name": "spawns", "objects": spawns},
		},
		"tilesets": []map[string]any{
			{"firstgid": 1, "name": "tiles", "image": "tiles.png", "columns": 4, "tilecount": 16},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to encode map: %v", err)
	}
	return data
}

func buildMap(t *testing.T, origin geom.Point, doc []byte) (*tilemap.TileMap, *rendertest.Image) {
	t.Helper()
	sheet := rendertest.NewImage(64, 64)
	m := tilemap.New(origin)
	if err := m.Load(sheet, doc); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.PrepareTiles(t.Context()); err != nil {
		t.Fatalf("PrepareTiles failed: %v", err)
	}
	return m, sheet
}

func newEntity(t *testing.T, name, role string, ctrl entity.Controller) (*entity.Entity, *rendertest.Image) {
	t.Helper()
	sheet := rendertest.NewImage(64, 64)
	e := entity.New(entity.Config{Name: name, Role: role, Speed: 2, FrameInterval: 8}, ctrl)
	if err := e.Load(name+".png", sheet, []byte(`{"frame_width": 16, "frame_height": 16}`)); err != nil {
		t.Fatalf("Load %s failed: %v", name, err)
	}
	if err := e.PrepareAnims(); err != nil {
		t.Fatalf("PrepareAnims %s failed: %v", name, err)
	}
	return e, sheet
}

// testWorld builds a 12x12 bordered world at origin (0, 0) with the player at
// the centre and an NPC when npcAt is non-nil.
func testWorld(t *testing.T, in render.InputManager, npcAt *geom.Point) *World {
	t.Helper()
	spawns := []spawn{{Name: PlayerSpawn, X: 96, Y: 96}}
	if npcAt != nil {
		spawns = append(spawns, spawn{Name: NPCRole, X: npcAt.X, Y: npcAt.Y})
	}
	m, _ := buildMap(t, geom.Point{}, borderMap(t, 12, 10, 10, spawns...))

	player, _ := newEntity(t, "player", PlayerSpawn, entity.NewPlayerController(in))
	var npcs []*entity.Entity
	if npcAt != nil {
		npc, _ := newEntity(t, "npc", NPCRole, entity.IdleController{})
		npcs = append(npcs, npc)
	}

	cfg := config.Default()
	w, err := NewWorld(m, camera.New(cfg.ScreenWidth, cfg.ScreenHeight, geom.Point{}), player, npcs, cfg.PlayerStart)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}
