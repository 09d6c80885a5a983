package scene

import (
	"fmt"
	"image/color"

	"chosenoffset.com/overworld/internal/collision"
	"chosenoffset.com/overworld/internal/core/geom"
	"chosenoffset.com/overworld/internal/entity"
	"chosenoffset.com/overworld/internal/render"
	"chosenoffset.com/overworld/internal/world/camera"
	"chosenoffset.com/overworld/internal/world/tilemap"
)

// PlayerSpawn is the spawn point the player starts at.
const PlayerSpawn = "player"

var worldBackground = color.RGBA{0, 0, 0, 255}

// World is the overworld scene: one map, a camera following the player, and
// NPCs standing at their spawn points.
type World struct {
	Map    *tilemap.TileMap
	Camera *camera.Camera
	Player *entity.Entity
	NPCs   []*entity.Entity

	resolver *collision.Resolver
}

// NewWorld places the player at the "player" spawn point, or at start when the
// map has none, and each NPC at the spawn point named by its role. The camera
// is attached to the player.
func NewWorld(m *tilemap.TileMap, cam *camera.Camera, player *entity.Entity, npcs []*entity.Entity, start geom.Point) (*World, error) {
	ts := m.TileSize()
	for _, e := range append([]*entity.Entity{player}, npcs...) {
		if e.Speed() <= 0 || ts%e.Speed() != 0 {
			return nil, fmt.Errorf("%s: speed %d does not divide tile size %d", e.Name, e.Speed(), ts)
		}
	}

	if p, ok := m.SpawnWorld(PlayerSpawn); ok {
		player.PlaceAt(p)
	} else {
		player.PlaceAt(start)
	}
	for _, npc := range npcs {
		p, ok := m.SpawnWorld(npc.Role)
		if !ok {
			return nil, fmt.Errorf("%s: map has no spawn point %q", npc.Name, npc.Role)
		}
		npc.PlaceAt(p)
	}

	cam.AttachTo(player)

	return &World{
		Map:      m,
		Camera:   cam,
		Player:   player,
		NPCs:     npcs,
		resolver: collision.NewResolver(m, ts),
	}, nil
}

// Update runs one tick: camera, player, NPCs, then NPC-vs-player overlap.
func (w *World) Update() error {
	w.Camera.Update()
	w.Player.Update(w.resolver)
	for _, npc := range w.NPCs {
		npc.Update(w.resolver)
	}
	for _, npc := range w.NPCs {
		npc.HandleCollisionsWith(w.Player)
	}
	return nil
}

// Draw draws the map below entities, NPCs, the player, then the layers that
// sit above entities.
func (w *World) Draw(screen render.Image) {
	screen.Fill(worldBackground)
	w.Map.Draw(screen, w.Camera)
	for _, npc := range w.NPCs {
		npc.Draw(screen, w.Camera)
	}
	w.Player.Draw(screen, w.Camera)
	w.Map.DrawAbove(screen, w.Camera)
}

// Resolver returns the collision resolver entities move through.
func (w *World) Resolver() *collision.Resolver {
	return w.resolver
}

// DebugBoxes returns every entity's bounding box in screen space.
func (w *World) DebugBoxes() []geom.Rect {
	boxes := make([]geom.Rect, 0, len(w.NPCs)+1)
	for _, e := range append([]*entity.Entity{w.Player}, w.NPCs...) {
		b := e.Bounds()
		b.X, b.Y = w.Camera.ToScreen(b.X, b.Y)
		boxes = append(boxes, b)
	}
	return boxes
}
